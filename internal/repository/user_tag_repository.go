package repository

import (
	"context"

	"hirepulse/internal/database"
)

// UserTagRepository persists the user_id -> tag set mapping. The set is
// replaced wholesale on every preference update, never merged.
type UserTagRepository interface {
	ReplaceForUser(ctx context.Context, userID int64, tagNames []string) error
	FindByUserID(ctx context.Context, userID int64) ([]string, error)
}

type PostgresUserTagRepository struct {
	db database.DB
}

func NewPostgresUserTagRepository(db database.DB) *PostgresUserTagRepository {
	return &PostgresUserTagRepository{db: db}
}

// ReplaceForUser deletes all existing tag rows for the user, then inserts the
// new set. An empty set leaves the user with no tags (delete only). The two
// steps are deliberately not wrapped in a transaction: a reader between them
// sees an empty set, which the matcher treats as "no matches".
func (r *PostgresUserTagRepository) ReplaceForUser(ctx context.Context, userID int64, tagNames []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_tags WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for _, name := range tagNames {
		if name == "" {
			continue
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO user_tags (user_id, tag_name, preference_level) VALUES ($1, $2, 1)
			 ON CONFLICT (user_id, tag_name) DO NOTHING`,
			userID, name,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresUserTagRepository) FindByUserID(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tag_name FROM user_tags WHERE user_id = $1 ORDER BY tag_name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
