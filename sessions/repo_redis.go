package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/splashgate/splashgate/internal/errors"
	"github.com/splashgate/splashgate/portal"
)

const (
	// Redis key prefix for portal sessions
	sessionKeyPrefix = "portal:session:"

	defaultSessionTTL = 24 * time.Hour
)

// RedisSessionRepo is a Redis-backed implementation of Repo for deployments
// running more than one relay instance behind the controller. Sessions are
// stored as JSON under a per-session key with a TTL; the compare-and-clear
// uses WATCH/MULTI so only one of two racing consumers clears the slot.
type RedisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisSessionRepoOption configures a RedisSessionRepo instance.
type RedisSessionRepoOption func(*RedisSessionRepo)

// WithSessionTTL overrides the default 24h session expiry.
func WithSessionTTL(ttl time.Duration) RedisSessionRepoOption {
	return func(r *RedisSessionRepo) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewRedisSessionRepo constructs a Redis-backed session repository.
func NewRedisSessionRepo(client *redis.Client, opts ...RedisSessionRepoOption) *RedisSessionRepo {
	repo := &RedisSessionRepo{
		client: client,
		ttl:    defaultSessionTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo
}

func (r *RedisSessionRepo) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Upsert creates or updates a session, refreshing its TTL.
func (r *RedisSessionRepo) Upsert(ctx context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	buf, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[RedisSessionRepo Upsert] marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), buf, r.ttl).Err(); err != nil {
		return fmt.Errorf("[RedisSessionRepo Upsert] set session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *RedisSessionRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	raw, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[RedisSessionRepo Get] get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, fmt.Errorf("[RedisSessionRepo Get] unmarshal session: %w", err)
	}
	return session, nil
}

// Delete removes a session.
func (r *RedisSessionRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("[RedisSessionRepo Delete] delete session: %w", err)
	}
	return nil
}

// PendingGrant returns the session's pending grant record, if any.
func (r *RedisSessionRepo) PendingGrant(ctx context.Context, sessionID string) (portal.GrantRecord, bool, error) {
	session, err := r.Get(ctx, sessionID)
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		return portal.GrantRecord{}, false, nil
	}
	if err != nil {
		return portal.GrantRecord{}, false, err
	}
	if session.PendingGrant == nil {
		return portal.GrantRecord{}, false, nil
	}
	return *session.PendingGrant, true, nil
}

// SetPendingGrant overwrites the session's pending grant slot.
func (r *RedisSessionRepo) SetPendingGrant(ctx context.Context, sessionID string, record portal.GrantRecord) error {
	session, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	session.PendingGrant = &record
	return r.Upsert(ctx, session)
}

// ClearPendingGrant empties the slot only if it still holds the expected
// record. The key is WATCHed across the read-modify-write, so a concurrent
// clear aborts the transaction and this caller reports false.
func (r *RedisSessionRepo) ClearPendingGrant(ctx context.Context, sessionID string, expect portal.GrantRecord) (bool, error) {
	key := r.key(sessionID)
	var cleared bool

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var session Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return err
		}
		if session.PendingGrant == nil || *session.PendingGrant != expect {
			return nil
		}

		session.PendingGrant = nil
		buf, err := json.Marshal(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		cleared = true
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		// Another consumer won the race.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("[RedisSessionRepo ClearPendingGrant] watch: %w", err)
	}
	return cleared, nil
}
