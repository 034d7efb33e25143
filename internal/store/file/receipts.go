package file

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/receipt"
)

type ReceiptsRepo struct {
	col *collection
}

func NewReceiptsRepo(dir string) *ReceiptsRepo {
	return &ReceiptsRepo{col: newCollection(filepath.Join(dir, "receipts.json"))}
}

func (r *ReceiptsRepo) Create(ctx context.Context, rec receipt.Receipt) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var receipts []receipt.Receipt

	if err := r.col.load(&receipts); err != nil {
		return err
	}

	for _, existing := range receipts {
		if existing.OrderID == rec.OrderID {
			return apperr.Conflict("order id already exists")
		}
	}

	receipts = append(receipts, rec)

	return r.col.save(receipts)
}

// ListByOwner returns only receipts owned by userID; sharing is
// honored by direct fetch, never by the list view.
func (r *ReceiptsRepo) ListByOwner(ctx context.Context, userID string) ([]receipt.Receipt, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var receipts []receipt.Receipt

	if err := r.col.load(&receipts); err != nil {
		return nil, err
	}

	owned := make([]receipt.Receipt, 0)
	for _, rec := range receipts {
		if rec.UserID == userID {
			owned = append(owned, rec)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	return owned, nil
}

func (r *ReceiptsRepo) GetByOrderID(ctx context.Context, orderID string) (receipt.Receipt, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var receipts []receipt.Receipt

	if err := r.col.load(&receipts); err != nil {
		return receipt.Receipt{}, err
	}

	for _, rec := range receipts {
		if rec.OrderID == orderID {
			return rec, nil
		}
	}

	return receipt.Receipt{}, apperr.NotFound("receipt not found")
}

// Update replaces the stored receipt with the same order id.
func (r *ReceiptsRepo) Update(ctx context.Context, rec receipt.Receipt) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var receipts []receipt.Receipt

	if err := r.col.load(&receipts); err != nil {
		return err
	}

	for i, existing := range receipts {
		if existing.OrderID == rec.OrderID {
			receipts[i] = rec
			return r.col.save(receipts)
		}
	}

	return apperr.NotFound("receipt not found")
}
