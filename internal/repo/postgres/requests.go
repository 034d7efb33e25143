package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/accessreq"
)

type RequestsRepo struct {
	pool *pgxpool.Pool
}

func NewRequestsRepo(pool *pgxpool.Pool) *RequestsRepo {
	return &RequestsRepo{pool: pool}
}

const requestColumns = `id, order_id, requester_id, message, status, created_at, resolved_at, resolved_by, note`

func scanRequest(row pgx.Row) (accessreq.Request, error) {
	var req accessreq.Request

	err := row.Scan(
		&req.ID,
		&req.OrderID,
		&req.RequesterID,
		&req.Message,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
		&req.ResolvedBy,
		&req.Note,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accessreq.Request{}, apperr.NotFound("access request not found")
		}
		return accessreq.Request{}, err
	}

	return req, nil
}

func (r *RequestsRepo) Create(ctx context.Context, req accessreq.Request) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO access_requests (id, order_id, requester_id, message, status, created_at, resolved_at, resolved_by, note)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		req.ID, req.OrderID, req.RequesterID, req.Message, req.Status, req.CreatedAt, req.ResolvedAt, req.ResolvedBy, req.Note,
	)
	return err
}

func (r *RequestsRepo) List(ctx context.Context) ([]accessreq.Request, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM access_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]accessreq.Request, 0)

	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (accessreq.Request, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM access_requests WHERE id = $1`, id)

	return scanRequest(row)
}

func (r *RequestsRepo) Update(ctx context.Context, req accessreq.Request) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE access_requests
		 SET status = $2, resolved_at = $3, resolved_by = $4, note = $5
		 WHERE id = $1`,
		req.ID, req.Status, req.ResolvedAt, req.ResolvedBy, req.Note,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("access request not found")
	}

	return nil
}
