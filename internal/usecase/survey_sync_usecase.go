package usecase

import (
	"context"

	"hirepulse/internal/repository"
	"hirepulse/internal/sheets"

	"go.uber.org/zap"
)

type SurveySyncUsecase interface {
	Sync(ctx context.Context) (int, error)
}

type SurveySync struct {
	source    sheets.Source
	questions repository.SurveyQuestionRepository
	log       *zap.Logger
}

func NewSurveySync(source sheets.Source, questions repository.SurveyQuestionRepository, log *zap.Logger) *SurveySync {
	if log == nil {
		log = zap.NewNop()
	}
	return &SurveySync{source: source, questions: questions, log: log}
}

// Sync replaces the stored survey definition with the current sheet
// contents and returns the number of questions synced.
func (u *SurveySync) Sync(ctx context.Context) (int, error) {
	rows, err := u.source.FetchSurveyRows(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	questions := make([]repository.SurveyQuestion, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, repository.SurveyQuestion{
			Position: r.Position,
			Category: r.Category,
			Field:    r.Field,
			Question: r.Question,
			Options:  r.Options,
		})
	}

	if err := u.questions.ReplaceAll(ctx, questions); err != nil {
		return 0, err
	}

	u.log.Info("survey questions synced", zap.Int("count", len(questions)))
	return len(questions), nil
}
