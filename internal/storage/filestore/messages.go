package filestore

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/models"

	"github.com/google/uuid"
)

// MessageStore is the file-backed message log. It keeps the whole log in
// memory with indexes by listing and by alias, updated on every append.
type MessageStore struct {
	mu        sync.Mutex
	file      jsonFile[models.Message]
	log       []models.Message
	byListing map[string][]int
	byAlias   map[string][]int
	lastSeq   int64
	now       func() time.Time
}

var _ messaging.MessageStore = (*MessageStore)(nil)

func OpenMessageStore(dir string) (*MessageStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, apperr.Storage("failed to open message log", err)
	}
	s := &MessageStore{
		file:      jsonFile[models.Message]{path: filepath.Join(dir, "messages.json")},
		byListing: make(map[string][]int),
		byAlias:   make(map[string][]int),
		now:       time.Now,
	}

	log, err := s.file.load()
	if err != nil {
		return nil, apperr.Storage("failed to load message log", err)
	}
	for i := range log {
		if log[i].Seq <= s.lastSeq {
			log[i].Seq = s.lastSeq + 1
		}
		s.lastSeq = log[i].Seq
		if log[i].ConversationID == "" {
			log[i].ConversationID = messaging.ConversationKey(log[i].SenderID, log[i].ReceiverID, log[i].ListingID)
		}
	}
	s.log = log
	for i := range s.log {
		s.index(i)
	}
	return s, nil
}

// SetClock replaces the time source used to stamp new messages.
func (s *MessageStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MessageStore) index(i int) {
	m := &s.log[i]
	s.byListing[m.ListingID] = append(s.byListing[m.ListingID], i)
	s.byAlias[m.SenderID] = append(s.byAlias[m.SenderID], i)
	if m.ReceiverID != m.SenderID {
		s.byAlias[m.ReceiverID] = append(s.byAlias[m.ReceiverID], i)
	}
}

func (s *MessageStore) Append(ctx context.Context, in models.NewMessage) (*models.Message, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	if err := messaging.ValidateNewMessage(in); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Storage("failed to allocate message id", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.Message{
		ID:             id.String(),
		Seq:            s.lastSeq + 1,
		ConversationID: messaging.ConversationKey(in.SenderID, in.ReceiverID, in.ListingID),
		SenderID:       in.SenderID,
		ReceiverID:     in.ReceiverID,
		ListingID:      in.ListingID,
		Content:        in.Content,
		CreatedAt:      s.now().UTC(),
		Read:           false,
	}

	s.log = append(s.log, msg)
	if err := s.file.save(s.log); err != nil {
		s.log = s.log[:len(s.log)-1]
		return nil, apperr.Storage("failed to save message", err)
	}
	s.lastSeq = msg.Seq
	s.index(len(s.log) - 1)

	out := msg
	return &out, nil
}

func (s *MessageStore) AllForListing(ctx context.Context, listingID string) ([]models.Message, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyAt(s.byListing[listingID]), nil
}

func (s *MessageStore) ForAliases(ctx context.Context, aliases []string) ([]models.Message, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return nil, apperr.Storage("request canceled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int]struct{})
	var idx []int
	for _, alias := range aliases {
		for _, i := range s.byAlias[alias] {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return s.copyAt(idx), nil
}

func (s *MessageStore) copyAt(idx []int) []models.Message {
	out := make([]models.Message, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.log[i])
	}
	return out
}

// MarkRead flips the read flag of every message matching filter and returns
// how many changed. Nothing is written when nothing matches.
func (s *MessageStore) MarkRead(ctx context.Context, filter models.ReadFilter) (int, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return 0, apperr.Storage("request canceled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []int
	for _, i := range s.byListing[filter.ListingID] {
		if filter.Matches(&s.log[i]) {
			s.log[i].Read = true
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}

	if err := s.file.save(s.log); err != nil {
		for _, i := range changed {
			s.log[i].Read = false
		}
		return 0, apperr.Storage("failed to mark messages read", err)
	}
	return len(changed), nil
}

func (s *MessageStore) Count(ctx context.Context) (int, error) {
	if err := ensureNotCanceled(ctx); err != nil {
		return 0, apperr.Storage("request canceled", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log), nil
}
