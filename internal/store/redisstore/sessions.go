package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gallerie/storefront/internal/apperr"
	"github.com/gallerie/storefront/internal/domain/session"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// TTL bounds how long a session key lives server-side. Zero means
	// no expiry beyond explicit signout.
	TTL time.Duration
}

// SessionsRepo keeps sessions in redis, one key per token. Redis
// expiry doubles as the session TTL so stale tokens clean themselves
// up.
type SessionsRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionsRepo(cfg Config) *SessionsRepo {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &SessionsRepo{rdb: rdb, ttl: cfg.TTL}
}

// Ping checks redis connectivity, for readiness probes.
func (r *SessionsRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *SessionsRepo) Close() error {
	return r.rdb.Close()
}

func key(token string) string {
	return "session:" + token
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, key(s.Token), b, r.ttl).Err()
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (session.Session, error) {
	b, err := r.rdb.Get(ctx, key(token)).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, apperr.NotFound("session not found")
		}
		return session.Session{}, err
	}

	var s session.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return session.Session{}, err
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, key(token)).Err()
}
