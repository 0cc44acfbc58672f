// Package storage selects the configured backend for users, ads and
// messages.
package storage

import (
	"context"
	"fmt"

	"agahi-backend/internal/config"
	"agahi-backend/internal/database"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/models"
	"agahi-backend/internal/storage/filestore"
	"agahi-backend/internal/storage/postgres"
	"agahi-backend/pkg/logger"
)

type UserStore interface {
	messaging.AccountLookup
	CreateUser(ctx context.Context, phone, name string) (*models.User, error)
}

type AdStore interface {
	messaging.ListingLookup
	CreateAd(ctx context.Context, ad *models.Ad) error
	AdsByUser(ctx context.Context, userID string) ([]models.Ad, error)
	ListAds(ctx context.Context) ([]models.Ad, error)
}

type Stores struct {
	Users    UserStore
	Ads      AdStore
	Messages messaging.MessageStore
	close    func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open builds the stores for cfg.Storage.Driver: "file" (default) or
// "postgres".
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case "", "file":
		fs, err := filestore.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("dir", cfg.Storage.DataDir).Msg("Using file storage")
		return FromFileStore(fs), nil
	case "postgres":
		db, err := database.NewConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Users:    postgres.NewUserStore(db),
			Ads:      postgres.NewAdStore(db),
			Messages: postgres.NewMessageStore(db),
			close:    db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func FromFileStore(fs *filestore.Store) *Stores {
	return &Stores{Users: fs.Users, Ads: fs.Ads, Messages: fs.Messages}
}
