package repository

import (
	"context"
	"time"

	"hirepulse/internal/database"

	"github.com/google/uuid"
)

const (
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
	NotificationStatusPending = "pending"
)

type NotificationStats struct {
	Total   int
	Sent    int
	Failed  int
	Pending int
}

// NotificationRepository is the append-only delivery ledger. The presence of
// any row for a (user, vacancy) pair permanently excludes that vacancy from
// the user's future matches.
type NotificationRepository interface {
	SeenVacancyIDs(ctx context.Context, userID int64) (map[uuid.UUID]struct{}, error)
	Record(ctx context.Context, userID int64, vacancyID uuid.UUID, status string) error
	StatsSince(ctx context.Context, since time.Time) (NotificationStats, error)
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) SeenVacancyIDs(ctx context.Context, userID int64) (map[uuid.UUID]struct{}, error) {
	rows, err := r.db.Query(ctx,
		`SELECT vacancy_id FROM notifications WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uuid.UUID]struct{}{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) Record(ctx context.Context, userID int64, vacancyID uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, user_id, vacancy_id, status, sent_at) VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), userID, vacancyID, status,
	)
	return err
}

func (r *PostgresNotificationRepository) StatsSince(ctx context.Context, since time.Time) (NotificationStats, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM notifications WHERE sent_at >= $1 GROUP BY status`,
		since,
	)
	if err != nil {
		return NotificationStats{}, err
	}
	defer rows.Close()

	var stats NotificationStats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return NotificationStats{}, err
		}
		stats.Total += n
		switch status {
		case NotificationStatusSent:
			stats.Sent += n
		case NotificationStatusFailed:
			stats.Failed += n
		case NotificationStatusPending:
			stats.Pending += n
		}
	}
	return stats, rows.Err()
}
