package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"hirepulse/internal/database"
	"hirepulse/internal/domain/tags"

	"github.com/jackc/pgx/v5"
)

var ErrPreferenceNotFound = errors.New("user preferences not found")

type UserPreference struct {
	UserID           int64
	Username         string
	FirstName        string
	Preferences      tags.RawPreferences
	SubscriptionType string
	IsActive         bool
}

type UserPreferenceRepository interface {
	// Upsert creates or fully replaces the row keyed by user_id and marks
	// the subscription active again.
	Upsert(ctx context.Context, p UserPreference) error
	FindByUserID(ctx context.Context, userID int64) (UserPreference, error)
	// ListActive returns all subscribers eligible for notification cycles.
	ListActive(ctx context.Context) ([]UserPreference, error)
	// Deactivate flips is_active without deleting history. Used when the
	// recipient has blocked the messaging channel.
	Deactivate(ctx context.Context, userID int64) error
}

type PostgresUserPreferenceRepository struct {
	db database.DB
}

func NewPostgresUserPreferenceRepository(db database.DB) *PostgresUserPreferenceRepository {
	return &PostgresUserPreferenceRepository{db: db}
}

func (r *PostgresUserPreferenceRepository) Upsert(ctx context.Context, p UserPreference) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return err
	}

	subType := p.SubscriptionType
	if subType == "" {
		subType = "survey_based"
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO user_preferences (user_id, username, first_name, preferences, subscription_type, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 ON CONFLICT (user_id) DO UPDATE SET
		   username = EXCLUDED.username,
		   first_name = EXCLUDED.first_name,
		   preferences = EXCLUDED.preferences,
		   subscription_type = EXCLUDED.subscription_type,
		   is_active = TRUE,
		   updated_at = now()`,
		p.UserID, p.Username, p.FirstName, prefs, subType,
	)
	return err
}

func (r *PostgresUserPreferenceRepository) FindByUserID(ctx context.Context, userID int64) (UserPreference, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, username, first_name, preferences, subscription_type, is_active
		 FROM user_preferences WHERE user_id = $1`,
		userID,
	)

	p, err := scanPreference(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return UserPreference{}, ErrPreferenceNotFound
		}
		return UserPreference{}, err
	}
	return p, nil
}

func (r *PostgresUserPreferenceRepository) ListActive(ctx context.Context) ([]UserPreference, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, username, first_name, preferences, subscription_type, is_active
		 FROM user_preferences WHERE is_active = TRUE`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserPreference, 0)
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserPreferenceRepository) Deactivate(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_preferences SET is_active = FALSE, updated_at = now() WHERE user_id = $1`,
		userID,
	)
	return err
}

func scanPreference(row database.Row) (UserPreference, error) {
	var p UserPreference
	var prefs []byte
	if err := row.Scan(&p.UserID, &p.Username, &p.FirstName, &prefs, &p.SubscriptionType, &p.IsActive); err != nil {
		return UserPreference{}, err
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.Preferences); err != nil {
			// Malformed stored preferences degrade to an empty set instead
			// of failing the whole listing.
			p.Preferences = tags.RawPreferences{}
		}
	}
	return p, nil
}
