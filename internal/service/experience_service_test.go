package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorepath/insight-api/internal/analytics"
	"github.com/lorepath/insight-api/internal/domain"
	"github.com/lorepath/insight-api/internal/store"
)

// fakeExperienceStore is an in-memory store.ExperienceStore for unit
// tests that don't exercise transactions.
type fakeExperienceStore struct {
	records map[string]domain.Experience
	listErr error
}

func newFakeExperienceStore() *fakeExperienceStore {
	return &fakeExperienceStore{records: make(map[string]domain.Experience)}
}

func (f *fakeExperienceStore) Create(ctx context.Context, exp *domain.Experience) error {
	if _, ok := f.records[exp.ID]; ok {
		return store.ErrExperienceExists
	}
	f.records[exp.ID] = *exp
	return nil
}

func (f *fakeExperienceStore) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	exp, ok := f.records[id]
	if !ok {
		return nil, store.ErrExperienceNotFound
	}
	return &exp, nil
}

func (f *fakeExperienceStore) List(ctx context.Context, limit int) ([]domain.Experience, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Experience, 0, len(f.records))
	for _, exp := range f.records {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, exp)
	}
	return out, nil
}

func (f *fakeExperienceStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return store.ErrExperienceNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeExperienceStore) WithTx(tx *sql.Tx) store.ExperienceStore {
	return f
}

func newTestExperienceService(t *testing.T, fake *fakeExperienceStore) ExperienceService {
	t.Helper()
	svc, err := NewExperienceService(
		fake,
		analytics.NewValidator(analytics.Config{}),
		&sql.DB{},
		100,
		nil,
	)
	require.NoError(t, err)
	return svc
}

const validRecord = `{
	"id": "exp-001",
	"timestamp": "2024-03-01T10:00:00Z",
	"learner": {"id": "learner-1"},
	"context": {"location": {"name": "Lisbon"}},
	"experience": {"type": "workshop", "description": "graph analytics"}
}`

func TestNewExperienceServiceValidation(t *testing.T) {
	t.Parallel()

	validator := analytics.NewValidator(analytics.Config{})

	_, err := NewExperienceService(nil, validator, &sql.DB{}, 100, nil)
	assert.Error(t, err)

	_, err = NewExperienceService(newFakeExperienceStore(), nil, &sql.DB{}, 100, nil)
	assert.Error(t, err)

	_, err = NewExperienceService(newFakeExperienceStore(), validator, nil, 100, nil)
	assert.Error(t, err)
}

func TestValidateExperience(t *testing.T) {
	t.Parallel()

	svc := newTestExperienceService(t, newFakeExperienceStore())
	ctx := context.Background()

	t.Run("valid record", func(t *testing.T) {
		result := svc.ValidateExperience(ctx, []byte(validRecord))
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("missing fields accumulate", func(t *testing.T) {
		record := `{
			"id": "",
			"timestamp": "",
			"learner": {"id": "learner-1"},
			"context": {"location": {"name": "Lisbon"}},
			"experience": {"type": "workshop", "description": "graph analytics"}
		}`
		result := svc.ValidateExperience(ctx, []byte(record))
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"id is required", "timestamp is required"}, result.Errors)
	})

	t.Run("unparseable record reports parse failure", func(t *testing.T) {
		result := svc.ValidateExperience(ctx, []byte(`{"id":`))
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Parse error:")
	})
}

func TestCreateExperienceRejectsInvalid(t *testing.T) {
	t.Parallel()

	fake := newFakeExperienceStore()
	svc := newTestExperienceService(t, fake)
	ctx := context.Background()

	record := `{
		"id": "",
		"timestamp": "2024-03-01T10:00:00Z",
		"learner": {"id": "learner-1"},
		"context": {"location": {"name": "Lisbon"}},
		"experience": {"type": "workshop", "description": "graph analytics"}
	}`

	_, err := svc.CreateExperience(ctx, []byte(record))
	require.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"id is required"}, validationErr.Result.Errors)
	assert.Empty(t, fake.records, "invalid record must not reach storage")
}

func TestCreateExperienceRejectsUnparseable(t *testing.T) {
	t.Parallel()

	fake := newFakeExperienceStore()
	svc := newTestExperienceService(t, fake)

	_, err := svc.CreateExperience(context.Background(), []byte(`not json`))
	require.Error(t, err)

	var validationErr *ValidationFailedError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Result.Errors, 1)
	assert.Contains(t, validationErr.Result.Errors[0], "Parse error:")
}

func TestGetExperience(t *testing.T) {
	t.Parallel()

	fake := newFakeExperienceStore()
	fake.records["exp-001"] = domain.Experience{ID: "exp-001"}
	svc := newTestExperienceService(t, fake)
	ctx := context.Background()

	exp, err := svc.GetExperience(ctx, "exp-001")
	require.NoError(t, err)
	assert.Equal(t, "exp-001", exp.ID)

	_, err = svc.GetExperience(ctx, "missing")
	assert.ErrorIs(t, err, ErrExperienceNotFound)
}

func TestListExperiencesLimit(t *testing.T) {
	t.Parallel()

	fake := newFakeExperienceStore()
	fake.records["exp-001"] = domain.Experience{ID: "exp-001"}
	fake.records["exp-002"] = domain.Experience{ID: "exp-002"}
	fake.records["exp-003"] = domain.Experience{ID: "exp-003"}
	svc := newTestExperienceService(t, fake)
	ctx := context.Background()

	experiences, err := svc.ListExperiences(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, experiences, 2)

	// A zero limit falls back to the configured default.
	experiences, err = svc.ListExperiences(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, experiences, 3)
}

func TestBuildStoredNetwork(t *testing.T) {
	t.Parallel()

	fake := newFakeExperienceStore()
	fake.records["a"] = domain.Experience{
		ID:   "a",
		Data: domain.ExperienceData{Domains: []string{"math", "physics"}},
	}
	fake.records["b"] = domain.Experience{
		ID:   "b",
		Data: domain.ExperienceData{Domains: []string{"physics", "chemistry"}},
	}
	svc := newTestExperienceService(t, fake)

	network, err := svc.BuildStoredNetwork(context.Background())
	require.NoError(t, err)
	assert.Len(t, network.Nodes, 3)
	assert.Len(t, network.Edges, 2)
}

func TestDomainSimilarity(t *testing.T) {
	t.Parallel()

	svc := newTestExperienceService(t, newFakeExperienceStore())
	ctx := context.Background()

	assert.InDelta(t, 1.0/3.0,
		svc.DomainSimilarity(ctx, []string{"math", "physics"}, []string{"physics", "cs"}), 1e-9)
	assert.Zero(t, svc.DomainSimilarity(ctx, nil, nil))
}
