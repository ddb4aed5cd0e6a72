package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExamSession is the transient state of an in-progress exam sitting, keyed by
// the candidate's exam link. It exists so the service can tell how much time
// a candidate has left without rereading the exam row.
type ExamSession struct {
	CandidateID uint      `json:"candidate_id"`
	ExamID      uint      `json:"exam_id"`
	ExamLink    string    `json:"exam_link"`
	StartedAt   time.Time `json:"started_at"`
	Deadline    time.Time `json:"deadline"`
}

var ErrSessionNotFound = errors.New("exam session not found")

type SessionStore interface {
	Put(ctx context.Context, session *ExamSession, ttl time.Duration) error
	Get(ctx context.Context, examLink string) (*ExamSession, error)
	Delete(ctx context.Context, examLink string) error
}

// RedisSessionStore keeps exam sessions in redis with a TTL slightly longer
// than the exam duration.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(examLink string) string {
	return fmt.Sprintf("exam_session:%s", examLink)
}

func (s *RedisSessionStore) Put(ctx context.Context, session *ExamSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ExamLink), data, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, examLink string) (*ExamSession, error) {
	data, err := s.client.Get(ctx, sessionKey(examLink)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session ExamSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, examLink string) error {
	return s.client.Del(ctx, sessionKey(examLink)).Err()
}

// MemorySessionStore is the fallback used when no redis is configured (and in
// tests). Entries expire lazily on read.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	session   ExamSession
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Put(ctx context.Context, session *ExamSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ExamLink] = memorySession{
		session:   *session,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, examLink string) (*ExamSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[examLink]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}

	session := entry.session
	return &session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, examLink string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, examLink)
	return nil
}
