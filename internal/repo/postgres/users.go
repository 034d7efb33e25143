package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/user"
)

const uniqueViolation = "23505"

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

const userColumns = `id, name, email, phone, phone_normalized, password_hash, is_admin, created_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PhoneNormalized,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, apperr.NotFound("user not found")
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, phone, phone_normalized, password_hash, is_admin, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Name, strings.ToLower(u.Email), u.Phone, u.PhoneNormalized, u.PasswordHash, u.IsAdmin, u.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "phone") {
			return apperr.Conflict("phone already registered")
		}
		return apperr.Conflict("email already registered")
	}

	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	return scanUser(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email <> '' AND lower(email) = lower($1)`, email)

	return scanUser(row)
}

// GetByPhone matches the normalized number exactly or by suffix in
// either direction, mirroring the tolerance of the file store.
func (r *UsersRepo) GetByPhone(ctx context.Context, normalized string) (user.User, error) {
	if len(normalized) < 7 {
		return user.User{}, apperr.NotFound("user not found")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE phone_normalized <> ''
		   AND (phone_normalized = $1
		        OR phone_normalized LIKE '%' || $1
		        OR $1 LIKE '%' || phone_normalized)
		 LIMIT 1`, normalized)

	return scanUser(row)
}
