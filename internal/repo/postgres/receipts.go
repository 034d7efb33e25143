package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/receipt"
)

type ReceiptsRepo struct {
	pool *pgxpool.Pool
}

func NewReceiptsRepo(pool *pgxpool.Pool) *ReceiptsRepo {
	return &ReceiptsRepo{pool: pool}
}

const receiptColumns = `order_id, user_id, shared_with, items, amount_minor, currency, payment_ref, created_at`

func scanReceipt(row pgx.Row) (receipt.Receipt, error) {
	var (
		rec       receipt.Receipt
		itemsJSON []byte
	)

	err := row.Scan(
		&rec.OrderID,
		&rec.UserID,
		&rec.SharedWith,
		&itemsJSON,
		&rec.AmountMinor,
		&rec.Currency,
		&rec.PaymentRef,
		&rec.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return receipt.Receipt{}, apperr.NotFound("receipt not found")
		}
		return receipt.Receipt{}, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &rec.Items); err != nil {
			return receipt.Receipt{}, err
		}
	}

	return rec, nil
}

func (r *ReceiptsRepo) Create(ctx context.Context, rec receipt.Receipt) error {
	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return err
	}

	if rec.SharedWith == nil {
		rec.SharedWith = []string{}
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO receipts (order_id, user_id, shared_with, items, amount_minor, currency, payment_ref, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.OrderID, rec.UserID, rec.SharedWith, itemsJSON, rec.AmountMinor, rec.Currency, rec.PaymentRef, rec.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("order id already exists")
	}

	return err
}

func (r *ReceiptsRepo) ListByOwner(ctx context.Context, userID string) ([]receipt.Receipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]receipt.Receipt, 0)

	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}

	return receipts, rows.Err()
}

func (r *ReceiptsRepo) GetByOrderID(ctx context.Context, orderID string) (receipt.Receipt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE order_id = $1`, orderID)

	return scanReceipt(row)
}

func (r *ReceiptsRepo) Update(ctx context.Context, rec receipt.Receipt) error {
	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return err
	}

	if rec.SharedWith == nil {
		rec.SharedWith = []string{}
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE receipts
		 SET user_id = $2, shared_with = $3, items = $4, amount_minor = $5, currency = $6, payment_ref = $7
		 WHERE order_id = $1`,
		rec.OrderID, rec.UserID, rec.SharedWith, itemsJSON, rec.AmountMinor, rec.Currency, rec.PaymentRef,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("receipt not found")
	}

	return nil
}
