package usecase

import (
	"context"
	"time"

	"hirepulse/internal/domain/tags"
	"hirepulse/internal/repository"
	"hirepulse/internal/sheets"

	"github.com/google/uuid"
)

type fakeUserTagRepo struct {
	tags       map[int64][]string
	replaceErr error
	findErr    error
}

func newFakeUserTagRepo() *fakeUserTagRepo {
	return &fakeUserTagRepo{tags: map[int64][]string{}}
}

func (r *fakeUserTagRepo) ReplaceForUser(_ context.Context, userID int64, tagNames []string) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.tags[userID] = append([]string(nil), tagNames...)
	return nil
}

func (r *fakeUserTagRepo) FindByUserID(_ context.Context, userID int64) ([]string, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.tags[userID], nil
}

type fakeVacancyTagRepo struct {
	byVacancy map[uuid.UUID][]string
	findErr   error
}

func newFakeVacancyTagRepo() *fakeVacancyTagRepo {
	return &fakeVacancyTagRepo{byVacancy: map[uuid.UUID][]string{}}
}

func (r *fakeVacancyTagRepo) ReplaceForVacancy(_ context.Context, vacancyID uuid.UUID, tagNames []string) error {
	r.byVacancy[vacancyID] = append([]string(nil), tagNames...)
	return nil
}

func (r *fakeVacancyTagRepo) FindPairsByTagNames(_ context.Context, tagNames []string) ([]repository.VacancyTagPair, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	wanted := map[string]struct{}{}
	for _, name := range tagNames {
		wanted[name] = struct{}{}
	}
	var out []repository.VacancyTagPair
	for id, names := range r.byVacancy {
		for _, name := range names {
			if _, ok := wanted[name]; ok {
				out = append(out, repository.VacancyTagPair{VacancyID: id, TagName: name})
			}
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	seen     map[int64]map[uuid.UUID]struct{}
	recorded []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{seen: map[int64]map[uuid.UUID]struct{}{}}
}

func (r *fakeNotificationRepo) SeenVacancyIDs(_ context.Context, userID int64) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	for id := range r.seen[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Record(_ context.Context, userID int64, vacancyID uuid.UUID, status string) error {
	if r.seen[userID] == nil {
		r.seen[userID] = map[uuid.UUID]struct{}{}
	}
	r.seen[userID][vacancyID] = struct{}{}
	r.recorded = append(r.recorded, status)
	return nil
}

func (r *fakeNotificationRepo) StatsSince(context.Context, time.Time) (repository.NotificationStats, error) {
	return repository.NotificationStats{}, nil
}

type fakeVacancyRepo struct {
	rows map[uuid.UUID]repository.Vacancy
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{rows: map[uuid.UUID]repository.Vacancy{}}
}

func (r *fakeVacancyRepo) add(v repository.Vacancy) uuid.UUID {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.rows[v.ID] = v
	return v.ID
}

func (r *fakeVacancyRepo) Upsert(_ context.Context, v repository.Vacancy) (uuid.UUID, bool, error) {
	for id, existing := range r.rows {
		if existing.Title == v.Title && existing.Category == v.Category {
			v.ID = id
			r.rows[id] = v
			return id, false, nil
		}
	}
	return r.add(v), true, nil
}

func (r *fakeVacancyRepo) FindActiveByIDs(_ context.Context, ids []uuid.UUID) ([]repository.Vacancy, error) {
	var out []repository.Vacancy
	for _, id := range ids {
		if v, ok := r.rows[id]; ok && v.IsActive {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) DeactivateExcept(_ context.Context, keep []uuid.UUID) (int64, error) {
	keepSet := map[uuid.UUID]struct{}{}
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	var n int64
	for id, v := range r.rows {
		if _, ok := keepSet[id]; ok || !v.IsActive {
			continue
		}
		v.IsActive = false
		r.rows[id] = v
		n++
	}
	return n, nil
}

type fakePreferenceRepo struct {
	rows map[int64]repository.UserPreference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{rows: map[int64]repository.UserPreference{}}
}

func (r *fakePreferenceRepo) Upsert(_ context.Context, p repository.UserPreference) error {
	p.IsActive = true
	r.rows[p.UserID] = p
	return nil
}

func (r *fakePreferenceRepo) FindByUserID(_ context.Context, userID int64) (repository.UserPreference, error) {
	p, ok := r.rows[userID]
	if !ok {
		return repository.UserPreference{}, repository.ErrPreferenceNotFound
	}
	return p, nil
}

func (r *fakePreferenceRepo) ListActive(context.Context) ([]repository.UserPreference, error) {
	var out []repository.UserPreference
	for _, p := range r.rows {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePreferenceRepo) Deactivate(_ context.Context, userID int64) error {
	p := r.rows[userID]
	p.IsActive = false
	r.rows[userID] = p
	return nil
}

type fakeTagRepo struct {
	names     map[string]struct{}
	ensureErr error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{names: map[string]struct{}{}}
}

func (r *fakeTagRepo) EnsureExist(_ context.Context, names []string) error {
	if r.ensureErr != nil {
		return r.ensureErr
	}
	for _, name := range names {
		r.names[name] = struct{}{}
	}
	return nil
}

func (r *fakeTagRepo) ListByCategory(context.Context, tags.Category) ([]repository.Tag, error) {
	return nil, nil
}

type fakeSheetSource struct {
	vacancyRows []sheets.VacancyRow
	surveyRows  []sheets.SurveyRow
	err         error
}

func (s *fakeSheetSource) FetchVacancyRows(context.Context) ([]sheets.VacancyRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vacancyRows, nil
}

func (s *fakeSheetSource) FetchSurveyRows(context.Context) ([]sheets.SurveyRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.surveyRows, nil
}
