package file

import (
	"context"
	"path/filepath"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/session"
)

type SessionsRepo struct {
	col *collection
}

func NewSessionsRepo(dir string) *SessionsRepo {
	return &SessionsRepo{col: newCollection(filepath.Join(dir, "sessions.json"))}
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	sessions := map[string]session.Session{}

	if err := r.col.load(&sessions); err != nil {
		return err
	}

	sessions[s.Token] = s

	return r.col.save(sessions)
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (session.Session, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	sessions := map[string]session.Session{}

	if err := r.col.load(&sessions); err != nil {
		return session.Session{}, err
	}

	s, ok := sessions[token]
	if !ok {
		return session.Session{}, apperr.NotFound("session not found")
	}

	return s, nil
}

// Delete is idempotent; removing an absent token is a no-op.
func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	sessions := map[string]session.Session{}

	if err := r.col.load(&sessions); err != nil {
		return err
	}

	if _, ok := sessions[token]; !ok {
		return nil
	}

	delete(sessions, token)

	return r.col.save(sessions)
}
