package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lorepath/insight-api/internal/domain"
	"github.com/lorepath/insight-api/internal/platform/logger"
	"github.com/lorepath/insight-api/internal/store"
)

// PostgresExperienceStore implements the store.ExperienceStore
// interface using a PostgreSQL database as the storage backend.
type PostgresExperienceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExperienceStore creates a new PostgreSQL implementation of
// the ExperienceStore interface. It accepts a database connection or
// transaction managed by the caller. If logger is nil, the process
// default is used.
func NewPostgresExperienceStore(db store.DBTX, logger *slog.Logger) *PostgresExperienceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresExperienceStore{
		db:     db,
		logger: logger.With(slog.String("component", "experience_store")),
	}
}

var _ store.ExperienceStore = (*PostgresExperienceStore)(nil)

// Create implements store.ExperienceStore.Create.
// Returns store.ErrExperienceExists when the record ID is already
// stored. The record must have passed kernel validation; the store
// only guards the structural invariant it depends on (a non-empty ID,
// which is the primary key).
func (s *PostgresExperienceStore) Create(ctx context.Context, exp *domain.Experience) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if exp.ID == "" {
		return fmt.Errorf("%w: experience ID is empty", store.ErrInvalidEntity)
	}

	domains, err := encodeDomains(exp.Data.Domains)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var latitude, longitude sql.NullFloat64
	if coords := exp.Context.Location.Coordinates; coords != nil {
		latitude = sql.NullFloat64{Float64: coords.Latitude, Valid: true}
		longitude = sql.NullFloat64{Float64: coords.Longitude, Valid: true}
	}

	query := `
		INSERT INTO experiences
			(id, occurred_at, learner_id, location_name, latitude, longitude,
			 experience_type, description, domains)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		exp.ID,
		exp.Timestamp,
		exp.Learner.ID,
		exp.Context.Location.Name,
		latitude,
		longitude,
		exp.Data.Type,
		exp.Data.Description,
		domains,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate experience ID during create",
				slog.String("experience_id", exp.ID))
			return fmt.Errorf("%w: %s", store.ErrExperienceExists, exp.ID)
		}
		log.Error("failed to create experience",
			slog.String("error", err.Error()),
			slog.String("experience_id", exp.ID))
		return MapError(err)
	}

	log.Debug("experience created", slog.String("experience_id", exp.ID))
	return nil
}

// GetByID implements store.ExperienceStore.GetByID.
func (s *PostgresExperienceStore) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, occurred_at, learner_id, location_name, latitude, longitude,
		       experience_type, description, domains
		FROM experiences
		WHERE id = $1
	`
	exp, err := scanExperience(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrExperienceNotFound, id)
		}
		log.Error("failed to get experience",
			slog.String("error", err.Error()),
			slog.String("experience_id", id))
		return nil, MapError(err)
	}

	return exp, nil
}

// List implements store.ExperienceStore.List, returning up to limit
// records, newest first.
func (s *PostgresExperienceStore) List(ctx context.Context, limit int) ([]domain.Experience, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, occurred_at, learner_id, location_name, latitude, longitude,
		       experience_type, description, domains
		FROM experiences
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list experiences", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	experiences := make([]domain.Experience, 0)
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			log.Error("failed to scan experience row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		experiences = append(experiences, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return experiences, nil
}

// Delete implements store.ExperienceStore.Delete.
func (s *PostgresExperienceStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete experience",
			slog.String("error", err.Error()),
			slog.String("experience_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "experience"); err != nil {
		return fmt.Errorf("%w: %s", store.ErrExperienceNotFound, id)
	}

	log.Debug("experience deleted", slog.String("experience_id", id))
	return nil
}

// WithTx implements store.ExperienceStore.WithTx.
func (s *PostgresExperienceStore) WithTx(tx *sql.Tx) store.ExperienceStore {
	return &PostgresExperienceStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanExperience reads one experiences row back into the domain shape.
func scanExperience(row rowScanner) (*domain.Experience, error) {
	var (
		exp                 domain.Experience
		latitude, longitude sql.NullFloat64
		domains             []byte
	)

	err := row.Scan(
		&exp.ID,
		&exp.Timestamp,
		&exp.Learner.ID,
		&exp.Context.Location.Name,
		&latitude,
		&longitude,
		&exp.Data.Type,
		&exp.Data.Description,
		&domains,
	)
	if err != nil {
		return nil, err
	}

	if latitude.Valid && longitude.Valid {
		exp.Context.Location.Coordinates = &domain.Coordinates{
			Latitude:  latitude.Float64,
			Longitude: longitude.Float64,
		}
	}

	if domains != nil {
		if err := json.Unmarshal(domains, &exp.Data.Domains); err != nil {
			return nil, fmt.Errorf("failed to decode stored domains: %w", err)
		}
	}

	return &exp, nil
}

// encodeDomains serializes a domains list for the JSONB column,
// preserving the absent/present distinction: a nil list stores as SQL
// NULL, not as an empty array.
func encodeDomains(domains []string) (any, error) {
	if domains == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(domains)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domains: %w", err)
	}
	return encoded, nil
}

// IsNotFoundError reports whether err represents a missing row, either
// as sql.ErrNoRows or an already-mapped store error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || store.IsNotFoundError(err)
}
