package usecase

import (
	"context"
	"errors"

	"hirepulse/internal/domain/tags"
	"hirepulse/internal/repository"

	"go.uber.org/zap"
)

var ErrInvalidSubmission = errors.New("invalid preference submission")

// PreferenceSubmission is one user's answers as submitted by the web form
// or the chat survey.
type PreferenceSubmission struct {
	UserID      int64               `json:"user_id"`
	Username    string              `json:"username"`
	FirstName   string              `json:"first_name"`
	Preferences tags.RawPreferences `json:"preferences"`
}

type PreferenceUsecase interface {
	Save(ctx context.Context, sub PreferenceSubmission) error
}

type Preferences struct {
	prefs    repository.UserPreferenceRepository
	userTags repository.UserTagRepository
	tagDir   repository.TagRepository
	log      *zap.Logger
}

func NewPreferences(
	prefs repository.UserPreferenceRepository,
	userTags repository.UserTagRepository,
	tagDir repository.TagRepository,
	log *zap.Logger,
) *Preferences {
	if log == nil {
		log = zap.NewNop()
	}
	return &Preferences{prefs: prefs, userTags: userTags, tagDir: tagDir, log: log}
}

// Save upserts the user's preference row, then atomically replaces the
// derived tag set. The tag directory update is best-effort: a failure there
// is logged but never aborts the primary write.
func (u *Preferences) Save(ctx context.Context, sub PreferenceSubmission) error {
	if sub.UserID == 0 {
		return ErrInvalidSubmission
	}

	if err := u.prefs.Upsert(ctx, repository.UserPreference{
		UserID:      sub.UserID,
		Username:    sub.Username,
		FirstName:   sub.FirstName,
		Preferences: sub.Preferences,
	}); err != nil {
		return err
	}

	extracted := tags.Extract(sub.Preferences)
	if err := u.userTags.ReplaceForUser(ctx, sub.UserID, extracted); err != nil {
		return err
	}

	if len(extracted) > 0 {
		if err := u.tagDir.EnsureExist(ctx, extracted); err != nil {
			u.log.Warn("tag directory update failed",
				zap.Int64("user_id", sub.UserID),
				zap.Error(err),
			)
		}
	}

	u.log.Info("preferences saved",
		zap.Int64("user_id", sub.UserID),
		zap.Int("tags", len(extracted)),
	)
	return nil
}
