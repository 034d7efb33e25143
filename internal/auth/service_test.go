package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/session"
	"github.com/gallerie/storefront/internal/domain/user"
)

type fakeUserStore struct {
	users map[string]user.User // by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]user.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u user.User) error {
	for _, existing := range f.users {
		if u.Email != "" && existing.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
		if u.PhoneNormalized != "" && existing.PhoneNormalized == u.PhoneNormalized {
			return apperr.Conflict("phone already registered")
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserStore) GetByPhone(_ context.Context, normalized string) (user.User, error) {
	for _, u := range f.users {
		if user.PhoneMatches(u.PhoneNormalized, normalized) {
			return u, nil
		}
	}
	return user.User{}, apperr.NotFound("user not found")
}

type fakeSessionStore struct {
	sessions map[string]session.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]session.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, s session.Session) error {
	f.sessions[s.Token] = s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, token string) (session.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return session.Session{}, apperr.NotFound("session not found")
	}
	return s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func newTestService() (*Service, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := NewService(users, sessions, Config{SessionTTL: time.Hour, AdminEmail: "admin@shop.com"})
	return svc, users, sessions
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, SignUpInput{Password: "secret"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("no identifier: got %v, want validation error", err)
	}

	_, _, err = svc.SignUp(ctx, SignUpInput{Email: "a@b.com"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("no password: got %v, want validation error", err)
	}
}

func TestSignUpIssuesSession(t *testing.T) {
	svc, users, sessions := newTestService()
	ctx := context.Background()

	u, token, err := svc.SignUp(ctx, SignUpInput{Name: "Ada", Email: "Ada@Shop.com", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.Email != "ada@shop.com" {
		t.Fatalf("email not lowercased: %q", u.Email)
	}
	if token == "" {
		t.Fatal("no session token issued")
	}
	if _, ok := sessions.sessions[token]; !ok {
		t.Fatal("session not persisted")
	}

	stored := users.users[u.ID]
	if stored.PasswordHash == "secret" || stored.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}

	_, _, err = svc.SignUp(ctx, SignUpInput{Email: "ada@shop.com", Password: "other"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("duplicate email: got %v, want conflict", err)
	}
}

func TestSignInByEmailAndPhone(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.SignUp(ctx, SignUpInput{Email: "ada@shop.com", Phone: "08031234567", Password: "secret"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		password   string
		wantKind   apperr.Kind
		ok         bool
	}{
		{"email", "ada@shop.com", "secret", 0, true},
		{"email_mixed_case", "ADA@shop.com", "secret", 0, true},
		{"phone_exact", "08031234567", "secret", 0, true},
		{"phone_no_leading_zero", "8031234567", "secret", 0, true},
		{"phone_with_country_code", "+234 803 123 4567", "secret", 0, true},
		{"wrong_password", "ada@shop.com", "nope", apperr.KindAuth, false},
		{"unknown_email", "ghost@shop.com", "secret", apperr.KindNotFound, false},
		{"blank", "", "", apperr.KindValidation, false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			u, token, err := svc.SignIn(ctx, tt.identifier, tt.password)
			if tt.ok {
				if err != nil {
					t.Fatalf("SignIn: %v", err)
				}
				if token == "" || u.Email != "ada@shop.com" {
					t.Fatalf("unexpected result: user=%q token=%q", u.Email, token)
				}
				return
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Fatalf("got %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	svc, _, sessions := newTestService()
	ctx := context.Background()

	u, token, err := svc.SignUp(ctx, SignUpInput{Email: "ada@shop.com", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	got, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved %q, want %q", got.ID, u.ID)
	}

	if _, err := svc.Resolve(ctx, ""); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("empty token: got %v, want auth error", err)
	}
	if _, err := svc.Resolve(ctx, "bogus"); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("unknown token: got %v, want auth error", err)
	}

	// age the session past the TTL; resolve must reject and purge it
	s := sessions.sessions[token]
	s.CreatedAt = time.Now().Add(-2 * time.Hour)
	sessions.sessions[token] = s
	svc.cache.delete(token)

	if _, err := svc.Resolve(ctx, token); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("expired token: got %v, want auth error", err)
	}
	if _, ok := sessions.sessions[token]; ok {
		t.Fatal("expired session not purged")
	}
}

func TestSignOut(t *testing.T) {
	svc, _, sessions := newTestService()
	ctx := context.Background()

	_, token, err := svc.SignUp(ctx, SignUpInput{Email: "ada@shop.com", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, ok := sessions.sessions[token]; ok {
		t.Fatal("session survived signout")
	}
	if _, err := svc.Resolve(ctx, token); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("revoked token must not resolve even when recently cached: got %v", err)
	}

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("second SignOut should be a no-op: %v", err)
	}
}

func TestIsAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	if !svc.IsAdmin(user.User{Email: "admin@shop.com"}) {
		t.Fatal("configured admin email should be admin")
	}
	if !svc.IsAdmin(user.User{Email: "x@y.com", IsAdmin: true}) {
		t.Fatal("flagged user should be admin")
	}
	if svc.IsAdmin(user.User{Email: "x@y.com"}) {
		t.Fatal("plain user should not be admin")
	}
}

func TestEnsureAdmin(t *testing.T) {
	users := newFakeUserStore()
	ctx := context.Background()

	if err := EnsureAdmin(ctx, users, "Admin@Shop.com", "secret", "Store Admin"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	u, err := users.GetByEmail(ctx, "admin@shop.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if !u.IsAdmin {
		t.Fatal("seeded account missing admin flag")
	}

	// second boot must not duplicate or error
	if err := EnsureAdmin(ctx, users, "admin@shop.com", "secret", "Store Admin"); err != nil {
		t.Fatalf("repeat EnsureAdmin: %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("got %d users, want 1", len(users.users))
	}

	if err := EnsureAdmin(ctx, users, "", "", ""); err != nil {
		t.Fatalf("blank config should disable seeding: %v", err)
	}
}
