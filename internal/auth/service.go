package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/session"
	"github.com/gallerie/storefront/internal/domain/user"
	"github.com/gallerie/storefront/internal/security"
)

// Small interfaces kept consumer-side so tests can fake the stores.

type UserStore interface {
	Create(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByPhone(ctx context.Context, normalized string) (user.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, s session.Session) error
	Get(ctx context.Context, token string) (session.Session, error)
	Delete(ctx context.Context, token string) error
}

type Service struct {
	users      UserStore
	sessions   SessionStore
	cache      *sessionCache
	sessionTTL time.Duration
	adminEmail string
}

type Config struct {
	SessionTTL time.Duration
	CacheTTL   time.Duration
	AdminEmail string
}

func NewService(users UserStore, sessions SessionStore, cfg Config) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		cache:      newSessionCache(cfg.CacheTTL),
		sessionTTL: cfg.SessionTTL,
		adminEmail: cfg.AdminEmail,
	}
}

type SignUpInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// SignUp creates an account and issues a fresh session.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (user.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	if email == "" && phone == "" {
		return user.User{}, "", apperr.Validation("email or phone is required")
	}
	if in.Password == "" {
		return user.User{}, "", apperr.Validation("password is required")
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return user.User{}, "", err
	}

	u := user.User{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Email:           email,
		Phone:           phone,
		PhoneNormalized: user.NormalizePhone(phone),
		PasswordHash:    hash,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, "", err
	}

	token, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// SignIn authenticates by email (case-insensitive exact match) or
// phone (digit-normalized, suffix tolerant) and issues a new session.
// Concurrent sessions per user are allowed.
func (s *Service) SignIn(ctx context.Context, identifier, password string) (user.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	if identifier == "" || password == "" {
		return user.User{}, "", apperr.Validation("identifier and password are required")
	}

	var (
		u   user.User
		err error
	)

	if strings.Contains(identifier, "@") {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		u, err = s.users.GetByPhone(ctx, user.NormalizePhone(identifier))
	}

	if err != nil {
		return user.User{}, "", err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, "", apperr.Auth("incorrect password")
	}

	token, err := s.issueSession(ctx, u.ID)
	if err != nil {
		return user.User{}, "", err
	}

	return u, token, nil
}

// Resolve maps a bearer token to its user. A missing or expired
// session and a dangling user id both fail as auth errors, distinct
// from resource not-found.
func (s *Service) Resolve(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, apperr.Auth("missing session token")
	}

	if u, ok := s.cache.get(token); ok {
		return u, nil
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return user.User{}, apperr.Auth("invalid session token")
		}
		return user.User{}, err
	}

	if sess.ExpiredAt(time.Now().UTC(), s.sessionTTL) {
		_ = s.sessions.Delete(ctx, token)
		return user.User{}, apperr.Auth("session expired")
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return user.User{}, apperr.Auth("invalid session token")
		}
		return user.User{}, err
	}

	s.cache.set(token, u)

	return u, nil
}

// SignOut invalidates a token. Already-absent tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	s.cache.delete(token)

	return s.sessions.Delete(ctx, token)
}

func (s *Service) IsAdmin(u user.User) bool {
	return u.AdminWith(s.adminEmail)
}

func (s *Service) issueSession(ctx context.Context, userID string) (string, error) {
	token, err := security.NewSessionToken()
	if err != nil {
		return "", err
	}

	sess := session.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}

	return token, nil
}
