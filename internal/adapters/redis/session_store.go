// Package redis provides Redis-based adapters for the back office service.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	"github.com/chapelhq/backoffice-go/internal/ports"
)

// SessionStore is a Redis-based session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt and
// maintains a per-subject index set so every session belonging to a subject
// can be purged in one call when that admin is suspended or deleted.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "backoffice:session:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *SessionStore) sessionKey(id string) string {
	return s.prefix + id
}

func (s *SessionStore) subjectKey(subjectID string) string {
	return s.prefix + "subject:" + subjectID
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.SubjectID == "" {
		return errors.New("session subject ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		// Session is already expired, don't save it
		return errors.New("session is expired")
	}

	if setErr := s.client.Set(ctx, s.sessionKey(sess.ID), data, ttl).Err(); setErr != nil {
		return setErr
	}

	// Index entries may outlive their sessions; readers treat missing
	// session keys as already logged out.
	indexKey := s.subjectKey(sess.SubjectID)
	if addErr := s.client.SAdd(ctx, indexKey, sess.ID).Err(); addErr != nil {
		return fmt.Errorf("index session: %w", addErr)
	}
	return s.client.Expire(ctx, indexKey, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have removed an expired row; treat a straggler as absent.
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	// Read the session first so its index entry can be released too.
	if data, err := s.client.Get(ctx, s.sessionKey(id)).Result(); err == nil {
		var sess domainauth.Session
		if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr == nil && sess.SubjectID != "" {
			if remErr := s.client.SRem(ctx, s.subjectKey(sess.SubjectID), id).Err(); remErr != nil {
				return fmt.Errorf("unindex session: %w", remErr)
			}
		}
	}

	return s.client.Del(ctx, s.sessionKey(id)).Err()
}

// DeleteAllForSubject removes every stored session for the subject and
// returns the sessions that were still live, so the caller can revoke their
// provider tokens.
func (s *SessionStore) DeleteAllForSubject(ctx context.Context, subjectID string) ([]domainauth.Session, error) {
	if subjectID == "" {
		return nil, nil
	}

	indexKey := s.subjectKey(subjectID)
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("list subject sessions: %w", err)
	}

	var sessions []domainauth.Session
	for _, id := range ids {
		data, getErr := s.client.Get(ctx, s.sessionKey(id)).Result()
		if getErr != nil {
			if errors.Is(getErr, redis.Nil) {
				continue // Stale index entry
			}
			return sessions, fmt.Errorf("read subject session: %w", getErr)
		}

		var sess domainauth.Session
		if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr == nil {
			sessions = append(sessions, sess)
		}

		if delErr := s.client.Del(ctx, s.sessionKey(id)).Err(); delErr != nil {
			return sessions, fmt.Errorf("delete subject session: %w", delErr)
		}
	}

	if delErr := s.client.Del(ctx, indexKey).Err(); delErr != nil {
		return sessions, fmt.Errorf("drop subject index: %w", delErr)
	}

	return sessions, nil
}

