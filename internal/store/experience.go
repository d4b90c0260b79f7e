package store

import (
	"context"
	"database/sql"

	"github.com/lorepath/insight-api/internal/domain"
)

// ExperienceStore defines the interface for experience record
// persistence. Only records that passed kernel validation should reach
// Create; the store does not re-run semantic validation.
type ExperienceStore interface {
	// Create saves a new experience record.
	// Returns ErrExperienceExists if a record with the same ID is
	// already stored.
	Create(ctx context.Context, exp *domain.Experience) error

	// GetByID retrieves an experience by its record ID.
	// Returns ErrExperienceNotFound if the record does not exist.
	GetByID(ctx context.Context, id string) (*domain.Experience, error)

	// List retrieves up to limit experiences, newest first.
	List(ctx context.Context, limit int) ([]domain.Experience, error)

	// Delete removes an experience by its record ID.
	// Returns ErrExperienceNotFound if the record does not exist.
	Delete(ctx context.Context, id string) error

	// WithTx returns a new ExperienceStore bound to the provided
	// transaction. The transaction is created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) ExperienceStore
}
