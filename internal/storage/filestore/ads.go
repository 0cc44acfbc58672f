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

// AdStore keeps listings newest first.
type AdStore struct {
	mu   sync.RWMutex
	file jsonFile[models.Ad]
	ads  []models.Ad
}

func OpenAdStore(dir string) (*AdStore, error) {
	s := &AdStore{file: jsonFile[models.Ad]{path: filepath.Join(dir, "ads.json")}}
	ads, err := s.file.load()
	if err != nil {
		return nil, apperr.Storage("failed to load ads", err)
	}
	s.ads = ads
	return s, nil
}

// CreateAd stores ad, assigning an id and timestamps when they are unset.
func (s *AdStore) CreateAd(ctx context.Context, ad *models.Ad) error {
	if err := ensureNotCanceled(ctx); err != nil {
		return apperr.Storage("request canceled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if ad.ID == "" {
		ad.ID = uuid.New().String()
	}
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	if ad.UpdatedAt.IsZero() {
		ad.UpdatedAt = ad.CreatedAt
	}
	if ad.Images == nil {
		ad.Images = []string{}
	}
	for i := range s.ads {
		if s.ads[i].ID == ad.ID {
			return apperr.Validation("ad already exists")
		}
	}

	prev := s.ads
	s.ads = append([]models.Ad{*ad}, s.ads...)
	if err := s.file.save(s.ads); err != nil {
		s.ads = prev
		return apperr.Storage("failed to save ad", err)
	}
	return nil
}

func (s *AdStore) AdByID(ctx context.Context, id string) (*models.Ad, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.ads {
		if s.ads[i].ID == id {
			ad := s.ads[i]
			return &ad, nil
		}
	}
	return nil, apperr.NotFound("ad not found")
}

func (s *AdStore) AdsByUser(ctx context.Context, userID string) ([]models.Ad, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ad, 0)
	for i := range s.ads {
		if s.ads[i].UserID == userID {
			out = append(out, s.ads[i])
		}
	}
	return out, nil
}

func (s *AdStore) ListAds(ctx context.Context) ([]models.Ad, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ad, len(s.ads))
	copy(out, s.ads)
	return out, nil
}
