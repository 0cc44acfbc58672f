package postgres

import (
	"context"
	"errors"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/database"
	"agahi-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const adColumns = `id, user_id, title, description, price, category, city, phone, images, created_at, updated_at`

type AdStore struct {
	db *database.Database
}

func NewAdStore(db *database.Database) *AdStore {
	return &AdStore{db: db}
}

func (s *AdStore) CreateAd(ctx context.Context, ad *models.Ad) error {
	if ad.ID == "" {
		ad.ID = uuid.New().String()
	}
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}
	if ad.UpdatedAt.IsZero() {
		ad.UpdatedAt = ad.CreatedAt
	}
	if ad.Images == nil {
		ad.Images = []string{}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO ads (`+adColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, ad.ID, ad.UserID, ad.Title, ad.Description, ad.Price, ad.Category, ad.City, ad.Phone, ad.Images, ad.CreatedAt, ad.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Validation("ad already exists")
		}
		return apperr.Storage("failed to create ad", err)
	}
	return nil
}

func (s *AdStore) AdByID(ctx context.Context, id string) (*models.Ad, error) {
	rows, err := s.db.Query(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id)
	if err != nil {
		return nil, apperr.Storage("failed to fetch ad", err)
	}
	ad, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Ad])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("ad not found")
	}
	if err != nil {
		return nil, apperr.Storage("failed to fetch ad", err)
	}
	return &ad, nil
}

func (s *AdStore) AdsByUser(ctx context.Context, userID string) ([]models.Ad, error) {
	return s.collect(ctx, `SELECT `+adColumns+` FROM ads WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *AdStore) ListAds(ctx context.Context) ([]models.Ad, error) {
	return s.collect(ctx, `SELECT `+adColumns+` FROM ads ORDER BY created_at DESC`)
}

func (s *AdStore) collect(ctx context.Context, query string, args ...interface{}) ([]models.Ad, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("failed to fetch ads", err)
	}
	ads, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Ad])
	if err != nil {
		return nil, apperr.Storage("failed to fetch ads", err)
	}
	if ads == nil {
		ads = []models.Ad{}
	}
	return ads, nil
}
