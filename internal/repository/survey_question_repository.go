package repository

import (
	"context"

	"hirepulse/internal/database"

	"github.com/google/uuid"
)

type SurveyQuestion struct {
	Position int
	Category string
	Field    string
	Question string
	Options  string
}

// SurveyQuestionRepository stores the survey definition synced from the
// questions sheet. The whole set is replaced on each sync.
type SurveyQuestionRepository interface {
	ReplaceAll(ctx context.Context, questions []SurveyQuestion) error
	ListOrdered(ctx context.Context) ([]SurveyQuestion, error)
}

type PostgresSurveyQuestionRepository struct {
	db database.DB
}

func NewPostgresSurveyQuestionRepository(db database.DB) *PostgresSurveyQuestionRepository {
	return &PostgresSurveyQuestionRepository{db: db}
}

func (r *PostgresSurveyQuestionRepository) ReplaceAll(ctx context.Context, questions []SurveyQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM survey_questions`); err != nil {
		return err
	}

	for _, q := range questions {
		_, err := r.db.Exec(ctx,
			`INSERT INTO survey_questions (id, position, category, field, question, options)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), q.Position, q.Category, q.Field, q.Question, q.Options,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresSurveyQuestionRepository) ListOrdered(ctx context.Context) ([]SurveyQuestion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT position, category, field, question, options FROM survey_questions ORDER BY position ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SurveyQuestion, 0)
	for rows.Next() {
		var q SurveyQuestion
		if err := rows.Scan(&q.Position, &q.Category, &q.Field, &q.Question, &q.Options); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
