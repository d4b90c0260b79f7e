package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lorepath/insight-api/internal/analytics"
	"github.com/lorepath/insight-api/internal/api/shared"
	"github.com/lorepath/insight-api/internal/service"
	"github.com/lorepath/insight-api/internal/suggestion"
)

// maxBodyBytes caps request bodies to keep unbounded documents from
// exhausting memory.
const maxBodyBytes = 1 << 20 // 1 MiB

// ExperienceHandler handles experience record API requests: validation,
// ingestion, retrieval, and domain suggestion.
type ExperienceHandler struct {
	experienceService service.ExperienceService
	kernelValidator   *analytics.Validator
	suggester         suggestion.Suggester // nil when the LLM feature is disabled
	validator         *validator.Validate
}

// NewExperienceHandler creates a new ExperienceHandler. suggester may
// be nil, in which case the suggestion endpoint reports unavailability.
func NewExperienceHandler(
	experienceService service.ExperienceService,
	kernelValidator *analytics.Validator,
	suggester suggestion.Suggester,
) *ExperienceHandler {
	return &ExperienceHandler{
		experienceService: experienceService,
		kernelValidator:   kernelValidator,
		suggester:         suggester,
		validator:         validator.New(),
	}
}

// readBody reads the (size-capped) request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	return body, true
}

// Validate handles POST /api/experiences/validate. The body is a raw
// experience document; the response is always HTTP 200 with the
// kernel's ValidationResult encoding. Unparseable documents are soft
// failures reported inside the result.
func (h *ExperienceHandler) Validate(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	shared.RespondWithRawJSON(w, r, http.StatusOK, h.kernelValidator.ValidateJSON(body))
}

// Create handles POST /api/experiences. A record that fails validation
// is rejected with 422 carrying the ValidationResult; a valid record is
// stored and echoed back with 201.
func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	exp, err := h.experienceService.CreateExperience(r.Context(), body)
	if err != nil {
		var validationErr *service.ValidationFailedError
		if errors.As(err, &validationErr) {
			shared.RespondWithJSON(w, r, http.StatusUnprocessableEntity, validationErr.Result)
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, exp)
}

// List handles GET /api/experiences. An optional limit query parameter
// caps the number of records returned.
func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	experiences, err := h.experienceService.ListExperiences(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, experiences)
}

// GetByID handles GET /api/experiences/{id}.
func (h *ExperienceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Experience ID is required")
		return
	}

	exp, err := h.experienceService.GetExperience(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, exp)
}

// Delete handles DELETE /api/experiences/{id}.
func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Experience ID is required")
		return
	}

	if err := h.experienceService.DeleteExperience(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SuggestDomains handles POST /api/experiences/suggest-domains.
// Responds 503 when the LLM feature is disabled or shedding load.
func (h *ExperienceHandler) SuggestDomains(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable,
			"Domain suggestion is not enabled")
		return
	}

	var req SuggestDomainsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	domains, err := h.suggester.SuggestDomains(r.Context(), req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuggestDomainsResponse{Domains: domains})
}
