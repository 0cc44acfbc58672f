// Package postgres implements the user, ad and message stores on a pgx pool.
package postgres

import (
	"context"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/database"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const messageColumns = `seq, id, conversation_id, sender_id, receiver_id, ad_id, content, is_read, created_at`

type MessageStore struct {
	db *database.Database
}

var _ messaging.MessageStore = (*MessageStore)(nil)

func NewMessageStore(db *database.Database) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Append(ctx context.Context, in models.NewMessage) (*models.Message, error) {
	if err := messaging.ValidateNewMessage(in); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Storage("failed to allocate message id", err)
	}

	query := `
		INSERT INTO messages (id, conversation_id, sender_id, receiver_id, ad_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		RETURNING ` + messageColumns

	rows, err := s.db.Query(ctx, query,
		id.String(),
		messaging.ConversationKey(in.SenderID, in.ReceiverID, in.ListingID),
		in.SenderID,
		in.ReceiverID,
		in.ListingID,
		in.Content,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, apperr.Storage("failed to save message", err)
	}
	msg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, apperr.Storage("failed to save message", err)
	}
	return &msg, nil
}

func (s *MessageStore) AllForListing(ctx context.Context, listingID string) ([]models.Message, error) {
	return s.collect(ctx, `SELECT `+messageColumns+` FROM messages WHERE ad_id = $1 ORDER BY seq`, listingID)
}

func (s *MessageStore) ForAliases(ctx context.Context, aliases []string) ([]models.Message, error) {
	if len(aliases) == 0 {
		return []models.Message{}, nil
	}
	return s.collect(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE sender_id = ANY($1) OR receiver_id = ANY($1) ORDER BY seq`,
		aliases,
	)
}

func (s *MessageStore) collect(ctx context.Context, query string, args ...interface{}) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("failed to fetch messages", err)
	}
	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Message])
	if err != nil {
		return nil, apperr.Storage("failed to fetch messages", err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// MarkRead runs as one statement, so it only sees rows committed before it
// started; MaxSeq narrows it further to what the caller has read.
func (s *MessageStore) MarkRead(ctx context.Context, filter models.ReadFilter) (int, error) {
	if len(filter.Receivers) == 0 || len(filter.Senders) == 0 {
		return 0, nil
	}
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE ad_id = $1
			AND receiver_id = ANY($2)
			AND sender_id = ANY($3)
			AND is_read = FALSE
			AND ($4::BIGINT = 0 OR seq <= $4)
	`
	tag, err := s.db.Exec(ctx, query, filter.ListingID, filter.Receivers, filter.Senders, filter.MaxSeq)
	if err != nil {
		return 0, apperr.Storage("failed to mark messages read", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *MessageStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, apperr.Storage("failed to count messages", err)
	}
	return n, nil
}
