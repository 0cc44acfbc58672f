package filestore

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"

	"github.com/google/uuid"
)

type UserStore struct {
	mu    sync.RWMutex
	file  jsonFile[models.User]
	users []models.User
}

func OpenUserStore(dir string) (*UserStore, error) {
	s := &UserStore{file: jsonFile[models.User]{path: filepath.Join(dir, "users.json")}}
	users, err := s.file.load()
	if err != nil {
		return nil, apperr.Storage("failed to load users", err)
	}
	s.users = users
	return s, nil
}

func (s *UserStore) CreateUser(ctx context.Context, phone, name string) (*models.User, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Phone == phone {
			return nil, apperr.Validation("phone number is already registered")
		}
	}

	user := models.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.users = append(s.users, user)
	if err := s.file.save(s.users); err != nil {
		s.users = s.users[:len(s.users)-1]
		return nil, apperr.Storage("failed to save user", err)
	}
	return &user, nil
}

func (s *UserStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (s *UserStore) UserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.find(ctx, func(u *models.User) bool { return u.Phone == phone })
}

func (s *UserStore) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if match(&s.users[i]) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}
