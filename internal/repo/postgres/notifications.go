package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/notification"
)

type NotificationsRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationsRepo(pool *pgxpool.Pool) *NotificationsRepo {
	return &NotificationsRepo{pool: pool}
}

const notificationColumns = `id, user_id, title, body, link, read, created_at, read_at`

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Body,
		&n.Link,
		&n.Read,
		&n.CreatedAt,
		&n.ReadAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notification.Notification{}, apperr.NotFound("notification not found")
		}
		return notification.Notification{}, err
	}

	return n, nil
}

func (r *NotificationsRepo) Create(ctx context.Context, n notification.Notification) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, title, body, link, read, created_at, read_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		n.ID, n.UserID, n.Title, n.Body, n.Link, n.Read, n.CreatedAt, n.ReadAt,
	)
	return err
}

func (r *NotificationsRepo) List(ctx context.Context, userID string, f notification.ListFilter) ([]notification.Notification, int, error) {
	f.Normalize()

	where := `user_id = $1`
	args := []any{userID}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		where += ` AND (title ILIKE $2 OR body ILIKE $2)`
	}

	switch f.Status {
	case notification.StatusRead:
		where += ` AND read`
	case notification.StatusUnread:
		where += ` AND NOT read`
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf(
		`SELECT %s FROM notifications
		 WHERE %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		notificationColumns, where, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]notification.Notification, 0)

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}

	return items, total, rows.Err()
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, userID, id string) (notification.Notification, error) {
	now := time.Now().UTC()

	row := r.pool.QueryRow(ctx,
		`UPDATE notifications
		 SET read = true, read_at = COALESCE(read_at, $3)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns,
		id, userID, now,
	)

	return scanNotification(row)
}

func (r *NotificationsRepo) MarkManyRead(ctx context.Context, userID string, ids []string) ([]notification.Notification, error) {
	if len(ids) == 0 {
		return []notification.Notification{}, nil
	}

	now := time.Now().UTC()

	rows, err := r.pool.Query(ctx,
		`UPDATE notifications
		 SET read = true, read_at = $3
		 WHERE user_id = $1 AND id = ANY($2) AND NOT read
		 RETURNING `+notificationColumns,
		userID, ids, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *NotificationsRepo) MarkAllRead(ctx context.Context, userID string) ([]notification.Notification, error) {
	now := time.Now().UTC()

	rows, err := r.pool.Query(ctx,
		`UPDATE notifications
		 SET read = true, read_at = $2
		 WHERE user_id = $1 AND NOT read
		 RETURNING `+notificationColumns,
		userID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func collectNotifications(rows pgx.Rows) ([]notification.Notification, error) {
	items := make([]notification.Notification, 0)

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	return items, rows.Err()
}
