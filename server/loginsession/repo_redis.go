package loginsession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-event-portal/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

const defaultKeyPrefix = "portal:session:"

// RedisRepo keeps login sessions in Redis, expiring with the session
type RedisRepo struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client, prefix: defaultKeyPrefix, now: time.Now}
}

func (r *RedisRepo) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisRepo) Upsert(ctx context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[loginsession Upsert] encode: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return errors.ErrSessionExpired
		}
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("[loginsession Upsert] %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[loginsession Get] %w", err)
	}
	return decodeSession(data)
}

// MarkLoaded updates the stored session inside a WATCH transaction, keeping its TTL
func (r *RedisRepo) MarkLoaded(ctx context.Context, sessionID string) error {
	key := r.key(sessionID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return errors.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		session, err := decodeSession(data)
		if err != nil {
			return err
		}
		session.Loaded = true
		updated, err := json.Marshal(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return errors.Wrapf(err, "[loginsession MarkLoaded] session %s", sessionID)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("[loginsession Delete] %w", err)
	}
	return nil
}

func decodeSession(data []byte) (Session, error) {
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("[loginsession] decode: %w", err)
	}
	return session, nil
}
