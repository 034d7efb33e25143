package file

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/notification"
)

type NotificationsRepo struct {
	col *collection
}

func NewNotificationsRepo(dir string) *NotificationsRepo {
	return &NotificationsRepo{col: newCollection(filepath.Join(dir, "notifications.json"))}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notification.Notification) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var items []notification.Notification

	if err := r.col.load(&items); err != nil {
		return err
	}

	items = append(items, n)

	return r.col.save(items)
}

func (r *NotificationsRepo) List(ctx context.Context, userID string, f notification.ListFilter) ([]notification.Notification, int, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var items []notification.Notification

	if err := r.col.load(&items); err != nil {
		return nil, 0, err
	}

	page, total := notification.Page(items, userID, f)

	return page, total, nil
}

// MarkRead flips a single notification owned by userID to read.
func (r *NotificationsRepo) MarkRead(ctx context.Context, userID, id string) (notification.Notification, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var items []notification.Notification

	if err := r.col.load(&items); err != nil {
		return notification.Notification{}, err
	}

	for i := range items {
		if items[i].ID != id || items[i].UserID != userID {
			continue
		}

		now := time.Now().UTC()
		items[i].Read = true
		items[i].ReadAt = &now

		if err := r.col.save(items); err != nil {
			return notification.Notification{}, err
		}

		return items[i], nil
	}

	return notification.Notification{}, apperr.NotFound("notification not found")
}

// MarkManyRead is best-effort: ids that do not exist or belong to
// someone else are skipped silently. Returns what was actually
// updated.
func (r *NotificationsRepo) MarkManyRead(ctx context.Context, userID string, ids []string) ([]notification.Notification, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var items []notification.Notification

	if err := r.col.load(&items); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	now := time.Now().UTC()
	updated := make([]notification.Notification, 0)

	for i := range items {
		if items[i].UserID != userID {
			continue
		}
		if _, ok := wanted[items[i].ID]; !ok {
			continue
		}
		if items[i].Read {
			continue
		}
		items[i].Read = true
		items[i].ReadAt = &now
		updated = append(updated, items[i])
	}

	if len(updated) > 0 {
		if err := r.col.save(items); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// MarkAllRead flips every currently-unread notification owned by
// userID and returns the updated set.
func (r *NotificationsRepo) MarkAllRead(ctx context.Context, userID string) ([]notification.Notification, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var items []notification.Notification

	if err := r.col.load(&items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := make([]notification.Notification, 0)

	for i := range items {
		if items[i].UserID != userID || items[i].Read {
			continue
		}
		items[i].Read = true
		items[i].ReadAt = &now
		updated = append(updated, items[i])
	}

	if len(updated) > 0 {
		if err := r.col.save(items); err != nil {
			return nil, err
		}
	}

	return updated, nil
}
