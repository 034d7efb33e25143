package accessreq

import "time"

type Status string

const (
	StatusOpen     Status = "open"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// IsResolution reports whether s is a status a request can be resolved
// to. "open" is the initial state only.
func (s Status) IsResolution() bool {
	return s == StatusApproved || s == StatusDenied
}

// Terminal reports whether a request in state s can no longer change.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// Request is a pending ask by a non-owner to view a specific receipt.
// It transitions out of "open" exactly once, by an administrator.
type Request struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"orderId"`
	RequesterID string     `json:"requesterUserId"`
	Message     string     `json:"message,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"timestamp"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy  string     `json:"resolvedBy,omitempty"`
	Note        string     `json:"note,omitempty"`
}
