// Package otp keeps pending one-time login codes, hashed, until they expire.
package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNoCode = errors.New("otp: no pending code")

type Store interface {
	Save(ctx context.Context, phone, hash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

type entry struct {
	hash    string
	expires time.Time
}

type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]entry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, phone, hash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = entry{hash: hash, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.codes[phone]
	if !ok {
		return "", ErrNoCode
	}
	if s.now().After(e.expires) {
		delete(s.codes, phone)
		return "", ErrNoCode
	}
	return e.hash, nil
}

func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(phone string) string {
	return "otp:" + phone
}

func (s *RedisStore) Save(ctx context.Context, phone, hash string, ttl time.Duration) error {
	return s.client.Set(ctx, key(phone), hash, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, phone string) (string, error) {
	hash, err := s.client.Get(ctx, key(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCode
	}
	return hash, err
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, key(phone)).Err()
}

// Open returns a Redis-backed store when addr is set and reachable, and an
// in-process store otherwise.
func Open(ctx context.Context, addr, password string, db int) (Store, func(), error) {
	if addr == "" {
		return NewMemoryStore(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return NewMemoryStore(), func() {}, err
	}
	return NewRedisStore(client), func() { client.Close() }, nil
}
