package notification

import (
	"sort"
	"strings"
	"time"
)

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	Link      string     `json:"link,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"timestamp"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

type ReadStatus string

const (
	StatusAll    ReadStatus = "all"
	StatusRead   ReadStatus = "read"
	StatusUnread ReadStatus = "unread"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type ListFilter struct {
	Query  string
	Status ReadStatus
	Limit  int
	Offset int
}

// Normalize clamps paging to the documented bounds and defaults the
// read-state filter.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	switch f.Status {
	case StatusRead, StatusUnread:
	default:
		f.Status = StatusAll
	}
}

// Matches reports whether n passes the query and read-state filters.
// The query is a case-insensitive substring match on title or body.
func (f ListFilter) Matches(n Notification) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Body), q) {
			return false
		}
	}
	switch f.Status {
	case StatusRead:
		return n.Read
	case StatusUnread:
		return !n.Read
	}
	return true
}

// Page filters items for userID, orders newest-first, and applies
// offset/limit. The returned total counts the filtered set, not the
// page.
func Page(items []Notification, userID string, f ListFilter) (page []Notification, total int) {
	f.Normalize()

	matched := make([]Notification, 0, len(items))
	for _, n := range items {
		if n.UserID != userID {
			continue
		}
		if f.Matches(n) {
			matched = append(matched, n)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total = len(matched)
	if f.Offset >= total {
		return []Notification{}, total
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total
}
