package api

import (
	"net/http"

	"github.com/lorepath/insight-api/internal/analytics"
	"github.com/lorepath/insight-api/internal/api/shared"
	"github.com/lorepath/insight-api/internal/service"
)

// AnalyticsHandler handles the network and similarity API requests.
type AnalyticsHandler struct {
	experienceService service.ExperienceService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(experienceService service.ExperienceService) *AnalyticsHandler {
	return &AnalyticsHandler{
		experienceService: experienceService,
	}
}

// NetworkFromBatch handles POST /api/analytics/network. The body is a
// JSON array of experiences; an undecodable batch is a hard 400.
func (h *AnalyticsHandler) NetworkFromBatch(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	encoded, err := analytics.GenerateDomainNetwork(body)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"Invalid experience batch", err)
		return
	}

	shared.RespondWithRawJSON(w, r, http.StatusOK, encoded)
}

// NetworkFromStore handles GET /api/analytics/network, deriving the
// network from stored records.
func (h *AnalyticsHandler) NetworkFromStore(w http.ResponseWriter, r *http.Request) {
	network, err := h.experienceService.BuildStoredNetwork(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, network)
}

// Similarity handles POST /api/analytics/similarity. Undecodable domain
// lists are a hard 400.
func (h *AnalyticsHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	var req SimilarityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.SetA == nil || req.SetB == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Both set_a and set_b are required")
		return
	}

	similarity, err := analytics.JaccardSimilarityJSON(req.SetA, req.SetB)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"Invalid domain lists", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SimilarityResponse{Similarity: similarity})
}
