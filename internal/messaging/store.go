package messaging

import (
	"context"
	"strings"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"
)

// MessageStore is the append-only message log. Implementations serialize
// Append and MarkRead against each other.
type MessageStore interface {
	Append(ctx context.Context, msg models.NewMessage) (*models.Message, error)
	AllForListing(ctx context.Context, listingID string) ([]models.Message, error)
	ForAliases(ctx context.Context, aliases []string) ([]models.Message, error)
	MarkRead(ctx context.Context, filter models.ReadFilter) (int, error)
	Count(ctx context.Context) (int, error)
}

// AccountLookup finds accounts by either alias. Both methods return an
// apperr NotFound error when no account matches.
type AccountLookup interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByPhone(ctx context.Context, phone string) (*models.User, error)
}

type ListingLookup interface {
	AdByID(ctx context.Context, id string) (*models.Ad, error)
}

// ValidateNewMessage is run by every MessageStore before anything is written.
func ValidateNewMessage(msg models.NewMessage) error {
	switch {
	case strings.TrimSpace(msg.ListingID) == "":
		return apperr.Validation("listing id is required")
	case strings.TrimSpace(msg.Content) == "":
		return apperr.Validation("message content is required")
	case msg.SenderID == "" || msg.ReceiverID == "":
		return apperr.Validation("sender and receiver are required")
	case msg.SenderID == msg.ReceiverID:
		return apperr.Validation("cannot send a message to yourself")
	}
	return nil
}
