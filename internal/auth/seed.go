package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/user"
	"github.com/gallerie/storefront/internal/security"
)

// EnsureAdmin creates the configured administrator account on boot if
// it does not exist yet. A blank email or password disables seeding.
func EnsureAdmin(ctx context.Context, users UserStore, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	email = strings.ToLower(email)

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	u := user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}

	return users.Create(ctx, u)
}
