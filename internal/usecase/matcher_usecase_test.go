package usecase

import (
	"context"
	"errors"
	"testing"

	"hirepulse/internal/domain/matching"
	"hirepulse/internal/repository"

	"github.com/google/uuid"
)

func TestFindMatches_NoTagsShortCircuits(t *testing.T) {
	userTags := newFakeUserTagRepo()
	vacancyTags := newFakeVacancyTagRepo()
	vacancyTags.findErr = errors.New("must not be called")

	m := NewMatcher(userTags, vacancyTags, newFakeNotificationRepo(), newFakeVacancyRepo(), matching.Options{}, nil)

	if got := m.FindMatches(context.Background(), 42); got != nil {
		t.Fatalf("expected nil for user without tags, got %v", got)
	}
}

func TestFindMatches_RanksFiltersAndExcludes(t *testing.T) {
	const userID int64 = 42

	userTags := newFakeUserTagRepo()
	userTags.tags[userID] = []string{"React", "TypeScript", "Senior"}

	vacancies := newFakeVacancyRepo()
	strong := vacancies.add(repository.Vacancy{Title: "Frontend Lead", Category: "IT", IsActive: true})
	medium := vacancies.add(repository.Vacancy{Title: "React Dev", Category: "IT", IsActive: true})
	weak := vacancies.add(repository.Vacancy{Title: "QA", Category: "IT", IsActive: true})
	inactive := vacancies.add(repository.Vacancy{Title: "Old Role", Category: "IT", IsActive: false})
	already := vacancies.add(repository.Vacancy{Title: "Seen Role", Category: "IT", IsActive: true})

	vacancyTags := newFakeVacancyTagRepo()
	vacancyTags.byVacancy[strong] = []string{"React", "TypeScript", "Senior"}
	vacancyTags.byVacancy[medium] = []string{"React", "TypeScript"}
	vacancyTags.byVacancy[weak] = []string{"Senior"}
	vacancyTags.byVacancy[inactive] = []string{"React", "Senior"}
	vacancyTags.byVacancy[already] = []string{"React", "Senior"}

	notifications := newFakeNotificationRepo()
	notifications.seen[userID] = map[uuid.UUID]struct{}{already: {}}

	m := NewMatcher(userTags, vacancyTags, notifications, vacancies, matching.Options{}, nil)

	got := m.FindMatches(context.Background(), userID)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
	if got[0].Vacancy.ID != strong || got[0].MatchCount != 3 {
		t.Fatalf("expected strongest match first, got %+v", got[0])
	}
	if got[1].Vacancy.ID != medium || got[1].MatchCount != 2 {
		t.Fatalf("expected two-tag match second, got %+v", got[1])
	}
}

func TestFindMatches_StorageErrorReturnsEmpty(t *testing.T) {
	userTags := newFakeUserTagRepo()
	userTags.findErr = errors.New("connection refused")

	m := NewMatcher(userTags, newFakeVacancyTagRepo(), newFakeNotificationRepo(), newFakeVacancyRepo(), matching.Options{}, nil)

	if got := m.FindMatches(context.Background(), 42); got != nil {
		t.Fatalf("expected empty result on storage error, got %v", got)
	}
}

func TestFindMatches_PairLookupErrorReturnsEmpty(t *testing.T) {
	const userID int64 = 42

	userTags := newFakeUserTagRepo()
	userTags.tags[userID] = []string{"React", "Senior"}

	vacancyTags := newFakeVacancyTagRepo()
	vacancyTags.findErr = errors.New("timeout")

	m := NewMatcher(userTags, vacancyTags, newFakeNotificationRepo(), newFakeVacancyRepo(), matching.Options{}, nil)

	if got := m.FindMatches(context.Background(), userID); got != nil {
		t.Fatalf("expected empty result on storage error, got %v", got)
	}
}
