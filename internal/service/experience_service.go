package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/lorepath/insight-api/internal/analytics"
	"github.com/lorepath/insight-api/internal/domain"
	"github.com/lorepath/insight-api/internal/store"
)

// ExperienceService provides operations over learning experience
// records: validated ingestion, retrieval, and derived analytics.
type ExperienceService interface {
	// ValidateExperience runs kernel validation over a raw JSON record
	// without persisting anything. A syntactically broken document is
	// reported inside the result, not as an error.
	ValidateExperience(ctx context.Context, raw []byte) domain.ValidationResult

	// CreateExperience validates a raw JSON record and, if it passes,
	// stores it. Returns a *ValidationFailedError when validation fails
	// and ErrExperienceExists when the ID is already stored.
	CreateExperience(ctx context.Context, raw []byte) (*domain.Experience, error)

	// GetExperience retrieves a stored record by ID.
	// Returns ErrExperienceNotFound if it does not exist.
	GetExperience(ctx context.Context, id string) (*domain.Experience, error)

	// ListExperiences returns the most recently stored records. A
	// limit <= 0 selects the configured default; values above the
	// configured limit are capped to it.
	ListExperiences(ctx context.Context, limit int) ([]domain.Experience, error)

	// DeleteExperience removes a stored record by ID.
	// Returns ErrExperienceNotFound if it does not exist.
	DeleteExperience(ctx context.Context, id string) error

	// BuildStoredNetwork derives the domain co-occurrence network from
	// all stored records (up to the list limit).
	BuildStoredNetwork(ctx context.Context) (domain.DomainNetwork, error)

	// DomainSimilarity computes the Jaccard similarity of two domain lists.
	DomainSimilarity(ctx context.Context, a, b []string) float64
}

// experienceServiceImpl implements the ExperienceService interface.
type experienceServiceImpl struct {
	experienceStore store.ExperienceStore
	validator       *analytics.Validator
	db              *sql.DB
	listLimit       int
	logger          *slog.Logger
}

var _ ExperienceService = (*experienceServiceImpl)(nil)

// NewExperienceService creates a new ExperienceService.
// It returns an error if any of the required dependencies are nil.
func NewExperienceService(
	experienceStore store.ExperienceStore,
	validator *analytics.Validator,
	db *sql.DB,
	listLimit int,
	logger *slog.Logger,
) (ExperienceService, error) {
	if experienceStore == nil {
		return nil, &ExperienceServiceError{
			Operation: "create_service",
			Message:   "experienceStore cannot be nil",
		}
	}
	if validator == nil {
		return nil, &ExperienceServiceError{
			Operation: "create_service",
			Message:   "validator cannot be nil",
		}
	}
	if db == nil {
		return nil, &ExperienceServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if listLimit <= 0 {
		listLimit = 500
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &experienceServiceImpl{
		experienceStore: experienceStore,
		validator:       validator,
		db:              db,
		listLimit:       listLimit,
		logger:          logger.With("component", "experience_service"),
	}, nil
}

// ValidateExperience runs kernel validation without persisting.
func (s *experienceServiceImpl) ValidateExperience(
	ctx context.Context,
	raw []byte,
) domain.ValidationResult {
	var exp domain.Experience
	if err := json.Unmarshal(raw, &exp); err != nil {
		return analytics.ParseFailure(err)
	}
	return s.validator.Validate(&exp)
}

// CreateExperience validates and stores one record atomically.
func (s *experienceServiceImpl) CreateExperience(
	ctx context.Context,
	raw []byte,
) (*domain.Experience, error) {
	var exp domain.Experience
	if err := json.Unmarshal(raw, &exp); err != nil {
		s.logger.Debug("rejected unparseable experience record", "error", err)
		return nil, &ValidationFailedError{Result: analytics.ParseFailure(err)}
	}

	result := s.validator.Validate(&exp)
	if !result.Valid {
		s.logger.Debug("rejected invalid experience record",
			"experience_id", exp.ID,
			"error_count", len(result.Errors))
		return nil, &ValidationFailedError{Result: result}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.experienceStore.WithTx(tx).Create(ctx, &exp)
	})
	if err != nil {
		if errors.Is(err, store.ErrExperienceExists) {
			s.logger.Debug("attempted to create experience with existing ID",
				"experience_id", exp.ID)
			return nil, ErrExperienceExists
		}
		s.logger.Error("failed to save experience",
			"error", err,
			"experience_id", exp.ID)
		return nil, &ExperienceServiceError{
			Operation: "create_experience",
			Message:   "failed to save experience to database",
			Err:       err,
		}
	}

	s.logger.Info("experience created successfully",
		"experience_id", exp.ID,
		"domain_count", len(exp.Data.Domains))

	return &exp, nil
}

// GetExperience retrieves a stored record by ID.
func (s *experienceServiceImpl) GetExperience(
	ctx context.Context,
	id string,
) (*domain.Experience, error) {
	exp, err := s.experienceStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrExperienceNotFound) {
			return nil, ErrExperienceNotFound
		}
		s.logger.Error("failed to retrieve experience",
			"error", err,
			"experience_id", id)
		return nil, &ExperienceServiceError{
			Operation: "get_experience",
			Message:   "failed to retrieve experience",
			Err:       err,
		}
	}

	return exp, nil
}

// ListExperiences returns the most recently stored records.
func (s *experienceServiceImpl) ListExperiences(ctx context.Context, limit int) ([]domain.Experience, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}
	experiences, err := s.experienceStore.List(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list experiences", "error", err)
		return nil, &ExperienceServiceError{
			Operation: "list_experiences",
			Message:   "failed to list experiences",
			Err:       err,
		}
	}
	return experiences, nil
}

// DeleteExperience removes a stored record by ID.
func (s *experienceServiceImpl) DeleteExperience(ctx context.Context, id string) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.experienceStore.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrExperienceNotFound) {
			return ErrExperienceNotFound
		}
		s.logger.Error("failed to delete experience",
			"error", err,
			"experience_id", id)
		return &ExperienceServiceError{
			Operation: "delete_experience",
			Message:   "failed to delete experience",
			Err:       err,
		}
	}

	s.logger.Info("experience deleted", "experience_id", id)
	return nil
}

// BuildStoredNetwork derives the co-occurrence network from storage.
func (s *experienceServiceImpl) BuildStoredNetwork(
	ctx context.Context,
) (domain.DomainNetwork, error) {
	experiences, err := s.ListExperiences(ctx, 0)
	if err != nil {
		return domain.DomainNetwork{}, err
	}

	network := analytics.BuildNetwork(experiences)
	s.logger.Debug("derived network from stored experiences",
		"experience_count", len(experiences),
		"node_count", len(network.Nodes),
		"edge_count", len(network.Edges))

	return network, nil
}

// DomainSimilarity computes the Jaccard similarity of two domain lists.
func (s *experienceServiceImpl) DomainSimilarity(ctx context.Context, a, b []string) float64 {
	return analytics.JaccardSimilarity(a, b)
}
