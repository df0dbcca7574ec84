package repository

import (
	"context"
	"database/sql"
	"errors"

	"hirepulse/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Vacancy struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Emoji        string
	Category     string
	Link         string
	Level        string
	Salary       string
	Requirements string
	Benefits     string
	WorkType     string
	Location     string
	IsActive     bool
}

type VacancyRepository interface {
	// Upsert creates or updates the vacancy keyed by (title, category) and
	// reports whether a new row was created.
	Upsert(ctx context.Context, v Vacancy) (uuid.UUID, bool, error)
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Vacancy, error)
	// DeactivateExcept soft-deletes active vacancies whose IDs are not in
	// keep. Called after a sync so rows removed from the sheet stop matching.
	DeactivateExcept(ctx context.Context, keep []uuid.UUID) (int64, error)
}

type PostgresVacancyRepository struct {
	db database.DB
}

func NewPostgresVacancyRepository(db database.DB) *PostgresVacancyRepository {
	return &PostgresVacancyRepository{db: db}
}

func (r *PostgresVacancyRepository) Upsert(ctx context.Context, v Vacancy) (uuid.UUID, bool, error) {
	var existingID uuid.UUID
	row := r.db.QueryRow(ctx,
		`SELECT id FROM vacancies WHERE title = $1 AND category = $2`,
		v.Title, v.Category,
	)
	err := row.Scan(&existingID)
	switch {
	case err == nil:
		_, err = r.db.Exec(ctx,
			`UPDATE vacancies SET
			   description = $2, emoji = $3, link = $4, level = $5, salary = $6,
			   requirements = $7, benefits = $8, work_type = $9, location = $10,
			   is_active = TRUE, updated_at = now()
			 WHERE id = $1`,
			existingID, v.Description, v.Emoji, v.Link, v.Level, v.Salary,
			v.Requirements, v.Benefits, v.WorkType, v.Location,
		)
		return existingID, false, err

	case errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows):
		id := uuid.New()
		_, err = r.db.Exec(ctx,
			`INSERT INTO vacancies
			   (id, title, description, emoji, category, link, level, salary, requirements, benefits, work_type, location, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)`,
			id, v.Title, v.Description, v.Emoji, v.Category, v.Link, v.Level,
			v.Salary, v.Requirements, v.Benefits, v.WorkType, v.Location,
		)
		if err != nil {
			return uuid.Nil, false, err
		}
		return id, true, nil

	default:
		return uuid.Nil, false, err
	}
}

func (r *PostgresVacancyRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Vacancy, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, id.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, emoji, category, link, level, salary, requirements, benefits, work_type, location, is_active
		 FROM vacancies WHERE id = ANY($1::uuid[]) AND is_active = TRUE`,
		idStrs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Vacancy, 0, len(ids))
	for rows.Next() {
		var v Vacancy
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.Emoji, &v.Category, &v.Link, &v.Level,
			&v.Salary, &v.Requirements, &v.Benefits, &v.WorkType, &v.Location, &v.IsActive); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresVacancyRepository) DeactivateExcept(ctx context.Context, keep []uuid.UUID) (int64, error) {
	if len(keep) == 0 {
		return r.db.Exec(ctx,
			`UPDATE vacancies SET is_active = FALSE, updated_at = now() WHERE is_active = TRUE`,
		)
	}

	keepStrs := make([]string, 0, len(keep))
	for _, id := range keep {
		keepStrs = append(keepStrs, id.String())
	}
	return r.db.Exec(ctx,
		`UPDATE vacancies SET is_active = FALSE, updated_at = now()
		 WHERE is_active = TRUE AND NOT (id = ANY($1::uuid[]))`,
		keepStrs,
	)
}
