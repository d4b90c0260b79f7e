package api

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lorepath/insight-api/internal/analytics"
	"github.com/lorepath/insight-api/internal/domain"
	"github.com/lorepath/insight-api/internal/service"
	"github.com/lorepath/insight-api/internal/store"
)

// fakeExperienceService backs handler tests with an in-memory record
// map and kernel-faithful behavior for the analytics passthroughs.
type fakeExperienceService struct {
	records   map[string]domain.Experience
	validator *analytics.Validator
	listErr   error
}

var _ service.ExperienceService = (*fakeExperienceService)(nil)

func newFakeExperienceService() *fakeExperienceService {
	return &fakeExperienceService{
		records:   make(map[string]domain.Experience),
		validator: analytics.NewValidator(analytics.Config{}),
	}
}

func (f *fakeExperienceService) ValidateExperience(
	ctx context.Context,
	raw []byte,
) domain.ValidationResult {
	var exp domain.Experience
	if err := json.Unmarshal(raw, &exp); err != nil {
		return analytics.ParseFailure(err)
	}
	return f.validator.Validate(&exp)
}

func (f *fakeExperienceService) CreateExperience(
	ctx context.Context,
	raw []byte,
) (*domain.Experience, error) {
	var exp domain.Experience
	if err := json.Unmarshal(raw, &exp); err != nil {
		return nil, &service.ValidationFailedError{Result: analytics.ParseFailure(err)}
	}
	result := f.validator.Validate(&exp)
	if !result.Valid {
		return nil, &service.ValidationFailedError{Result: result}
	}
	if _, ok := f.records[exp.ID]; ok {
		return nil, service.ErrExperienceExists
	}
	f.records[exp.ID] = exp
	return &exp, nil
}

func (f *fakeExperienceService) GetExperience(
	ctx context.Context,
	id string,
) (*domain.Experience, error) {
	exp, ok := f.records[id]
	if !ok {
		return nil, service.ErrExperienceNotFound
	}
	return &exp, nil
}

func (f *fakeExperienceService) ListExperiences(
	ctx context.Context,
	limit int,
) ([]domain.Experience, error) {
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

func (f *fakeExperienceService) DeleteExperience(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return service.ErrExperienceNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeExperienceService) BuildStoredNetwork(
	ctx context.Context,
) (domain.DomainNetwork, error) {
	experiences, err := f.ListExperiences(ctx, 0)
	if err != nil {
		return domain.DomainNetwork{}, err
	}
	return analytics.BuildNetwork(experiences), nil
}

func (f *fakeExperienceService) DomainSimilarity(ctx context.Context, a, b []string) float64 {
	return analytics.JaccardSimilarity(a, b)
}

// fakeUserStore is an in-memory store.UserStore keyed by email.
type fakeUserStore struct {
	byEmail   map[string]*domain.User
	createErr error
}

var _ store.UserStore = (*fakeUserStore)(nil)

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return store.ErrEmailExists
	}
	user.Password = ""
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return f
}

// fakeSuggester returns canned domains or a canned error.
type fakeSuggester struct {
	domains []string
	err     error
}

func (f *fakeSuggester) SuggestDomains(ctx context.Context, description string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.domains, nil
}
