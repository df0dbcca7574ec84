package repository

import (
	"context"

	"hirepulse/internal/database"

	"github.com/google/uuid"
)

// VacancyTagPair is one (vacancy, tag) row. The matcher joins these against
// the user tag set through the shared tag_name string.
type VacancyTagPair struct {
	VacancyID uuid.UUID
	TagName   string
}

// VacancyTagRepository persists the vacancy_id -> tag set mapping with the
// same replace-on-sync semantics as UserTagRepository.
type VacancyTagRepository interface {
	ReplaceForVacancy(ctx context.Context, vacancyID uuid.UUID, tagNames []string) error
	FindPairsByTagNames(ctx context.Context, tagNames []string) ([]VacancyTagPair, error)
}

type PostgresVacancyTagRepository struct {
	db database.DB
}

func NewPostgresVacancyTagRepository(db database.DB) *PostgresVacancyTagRepository {
	return &PostgresVacancyTagRepository{db: db}
}

func (r *PostgresVacancyTagRepository) ReplaceForVacancy(ctx context.Context, vacancyID uuid.UUID, tagNames []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM vacancy_tags WHERE vacancy_id = $1`, vacancyID); err != nil {
		return err
	}

	for _, name := range tagNames {
		if name == "" {
			continue
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO vacancy_tags (vacancy_id, tag_name, relevance_score) VALUES ($1, $2, 1)
			 ON CONFLICT (vacancy_id, tag_name) DO NOTHING`,
			vacancyID, name,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresVacancyTagRepository) FindPairsByTagNames(ctx context.Context, tagNames []string) ([]VacancyTagPair, error) {
	if len(tagNames) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT vacancy_id, tag_name FROM vacancy_tags WHERE tag_name = ANY($1)`,
		tagNames,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]VacancyTagPair, 0)
	for rows.Next() {
		var p VacancyTagPair
		if err := rows.Scan(&p.VacancyID, &p.TagName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
