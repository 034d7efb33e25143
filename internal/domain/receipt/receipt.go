package receipt

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceMinor int64  `json:"priceMinor"`
}

// Receipt is a persisted order record owned by one user. SharedWith
// holds the ids of users granted read access beyond the owner.
type Receipt struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	SharedWith  []string  `json:"sharedWith"`
	Items       []Item    `json:"items,omitempty"`
	AmountMinor int64     `json:"amountMinor"`
	Currency    string    `json:"currency,omitempty"`
	PaymentRef  string    `json:"paymentRef,omitempty"`
	CreatedAt   time.Time `json:"timestamp"`
}

// NewOrderID returns a fresh order id. Random rather than
// timestamp-derived so concurrent checkouts cannot collide.
func NewOrderID() string {
	return "ord_" + uuid.NewString()
}

// SharedWithUser reports whether userID appears in the sharing list.
func (r Receipt) SharedWithUser(userID string) bool {
	for _, id := range r.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// Share adds userID to the sharing list. Adding an id already present
// is a no-op; the return value reports whether the list changed.
func (r *Receipt) Share(userID string) bool {
	if r.SharedWithUser(userID) {
		return false
	}
	r.SharedWith = append(r.SharedWith, userID)
	return true
}

// CanView is the single read-access policy for a receipt: owner,
// shared-with, or admin.
func CanView(r Receipt, userID string, admin bool) bool {
	if admin {
		return true
	}
	if r.UserID == userID {
		return true
	}
	return r.SharedWithUser(userID)
}
