package repository

import (
	"context"

	"hirepulse/internal/database"
	"hirepulse/internal/domain/tags"
)

type Tag struct {
	Name     string
	Category tags.Category
}

// TagRepository is the canonical tag directory. Entries are created lazily on
// first sighting and never deleted.
type TagRepository interface {
	// EnsureExist inserts any names missing from the directory with a
	// heuristically detected category. Existing entries are left untouched.
	EnsureExist(ctx context.Context, names []string) error
	ListByCategory(ctx context.Context, category tags.Category) ([]Tag, error)
}

type PostgresTagRepository struct {
	db database.DB
}

func NewPostgresTagRepository(db database.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

func (r *PostgresTagRepository) EnsureExist(ctx context.Context, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO tags (name, category) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			name, string(tags.DetectCategory(name)),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresTagRepository) ListByCategory(ctx context.Context, category tags.Category) ([]Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, category FROM tags WHERE category = $1 AND is_active = TRUE ORDER BY name ASC`,
		string(category),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Tag, 0)
	for rows.Next() {
		var t Tag
		var cat string
		if err := rows.Scan(&t.Name, &cat); err != nil {
			return nil, err
		}
		t.Category = tags.Category(cat)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
