package usecase

import (
	"context"

	"hirepulse/internal/domain/matching"
	"hirepulse/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Match is one vacancy relevant to a user, with the overlap that earned it.
type Match struct {
	Vacancy     repository.Vacancy
	MatchCount  int
	MatchedTags []string
}

type MatcherUsecase interface {
	FindMatches(ctx context.Context, userID int64) []Match
}

type Matcher struct {
	userTags      repository.UserTagRepository
	vacancyTags   repository.VacancyTagRepository
	notifications repository.NotificationRepository
	vacancies     repository.VacancyRepository
	opts          matching.Options
	log           *zap.Logger
}

func NewMatcher(
	userTags repository.UserTagRepository,
	vacancyTags repository.VacancyTagRepository,
	notifications repository.NotificationRepository,
	vacancies repository.VacancyRepository,
	opts matching.Options,
	log *zap.Logger,
) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{
		userTags:      userTags,
		vacancyTags:   vacancyTags,
		notifications: notifications,
		vacancies:     vacancies,
		opts:          opts,
		log:           log,
	}
}

// FindMatches returns the ranked vacancies for one user. Storage failures
// are logged and surface as an empty result: the defensive default is "no
// notification", never a crashed cycle.
func (m *Matcher) FindMatches(ctx context.Context, userID int64) []Match {
	userTagNames, err := m.userTags.FindByUserID(ctx, userID)
	if err != nil {
		m.log.Error("load user tags", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	if len(userTagNames) == 0 {
		return nil
	}

	seen, err := m.notifications.SeenVacancyIDs(ctx, userID)
	if err != nil {
		m.log.Error("load seen vacancies", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}

	pairs, err := m.vacancyTags.FindPairsByTagNames(ctx, userTagNames)
	if err != nil {
		m.log.Error("load vacancy tag pairs", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}

	enginePairs := make([]matching.TagPair, 0, len(pairs))
	for _, p := range pairs {
		enginePairs = append(enginePairs, matching.TagPair{VacancyID: p.VacancyID, TagName: p.TagName})
	}

	candidates := matching.Rank(enginePairs, seen, m.opts)
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.VacancyID)
	}

	vacancies, err := m.vacancies.FindActiveByIDs(ctx, ids)
	if err != nil {
		m.log.Error("load matched vacancies", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}

	byID := make(map[uuid.UUID]repository.Vacancy, len(vacancies))
	for _, v := range vacancies {
		byID[v.ID] = v
	}

	// Keep engine ranking; inactive vacancies simply drop out here.
	out := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		v, ok := byID[c.VacancyID]
		if !ok {
			continue
		}
		out = append(out, Match{
			Vacancy:     v,
			MatchCount:  c.MatchCount,
			MatchedTags: c.MatchedTags,
		})
	}

	if len(out) > 0 {
		m.log.Debug("matches found",
			zap.Int64("user_id", userID),
			zap.Int("count", len(out)),
		)
	}
	return out
}
