package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/session"
)

type SessionsRepo struct {
	pool *pgxpool.Pool
}

func NewSessionsRepo(pool *pgxpool.Pool) *SessionsRepo {
	return &SessionsRepo{pool: pool}
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, created_at) VALUES ($1,$2,$3)`,
		s.Token, s.UserID, s.CreatedAt,
	)
	return err
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (session.Session, error) {
	var s session.Session

	err := r.pool.QueryRow(ctx,
		`SELECT token, user_id, created_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&s.Token, &s.UserID, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, apperr.NotFound("session not found")
		}
		return session.Session{}, err
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
