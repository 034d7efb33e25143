package file

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/user"
)

// userRecord is the persisted shape of a user. The API type hides the
// password hash from JSON, so the stored form carries it explicitly.
type userRecord struct {
	user.User
	PasswordHash string `json:"passwordHash"`
}

func (r userRecord) toUser() user.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return u
}

type UsersRepo struct {
	col *collection
}

func NewUsersRepo(dir string) *UsersRepo {
	return &UsersRepo{col: newCollection(filepath.Join(dir, "users.json"))}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []userRecord

	if err := r.col.load(&records); err != nil {
		return err
	}

	for _, rec := range records {
		if u.Email != "" && strings.EqualFold(rec.Email, u.Email) {
			return apperr.Conflict("email already registered")
		}
		if u.PhoneNormalized != "" && rec.PhoneNormalized == u.PhoneNormalized {
			return apperr.Conflict("phone already registered")
		}
	}

	records = append(records, userRecord{User: u, PasswordHash: u.PasswordHash})

	return r.col.save(records)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []userRecord

	if err := r.col.load(&records); err != nil {
		return user.User{}, err
	}

	for _, rec := range records {
		if rec.ID == id {
			return rec.toUser(), nil
		}
	}

	return user.User{}, apperr.NotFound("user not found")
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []userRecord

	if err := r.col.load(&records); err != nil {
		return user.User{}, err
	}

	for _, rec := range records {
		if rec.Email != "" && strings.EqualFold(rec.Email, email) {
			return rec.toUser(), nil
		}
	}

	return user.User{}, apperr.NotFound("user not found")
}

// GetByPhone matches on the digit-normalized number, tolerating
// country-code and leading-zero prefix differences.
func (r *UsersRepo) GetByPhone(ctx context.Context, normalized string) (user.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []userRecord

	if err := r.col.load(&records); err != nil {
		return user.User{}, err
	}

	for _, rec := range records {
		if user.PhoneMatches(rec.PhoneNormalized, normalized) {
			return rec.toUser(), nil
		}
	}

	return user.User{}, apperr.NotFound("user not found")
}
