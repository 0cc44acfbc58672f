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

// uniqueViolation is the postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type UserStore struct {
	db *database.Database
}

func NewUserStore(db *database.Database) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, phone, name string) (*models.User, error) {
	user := models.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, phone, name, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Phone, user.Name, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Validation("phone number is already registered")
		}
		return nil, apperr.Storage("failed to create user", err)
	}
	return &user, nil
}

func (s *UserStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.one(ctx, `SELECT id, phone, name, created_at FROM users WHERE id = $1`, id)
}

func (s *UserStore) UserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.one(ctx, `SELECT id, phone, name, created_at FROM users WHERE phone = $1`, phone)
}

func (s *UserStore) one(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Phone, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Storage("failed to fetch user", err)
	}
	return &u, nil
}
