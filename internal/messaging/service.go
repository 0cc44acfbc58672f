package messaging

import (
	"context"
	"strings"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"
	"agahi-backend/pkg/logger"
)

// Caller-facing reasons.
const (
	msgMissingFields   = "لطفاً تمام فیلدها را پر کنید"
	msgMissingListing  = "شناسه آگهی ارسال نشده"
	msgListingNotFound = "آگهی یافت نشد"
	msgNoCounterpart   = "ابتدا خریدار باید پیامی ارسال کند"
)

// Viewer is the authenticated caller.
type Viewer struct {
	ID    string
	Phone string
}

// Service wires the resolver, the disambiguator and the aggregator over one
// message store.
type Service struct {
	messages      MessageStore
	listings      ListingLookup
	resolver      *Resolver
	disambiguator *Disambiguator
	aggregator    *Aggregator
}

func NewService(messages MessageStore, accounts AccountLookup, listings ListingLookup) *Service {
	resolver := NewResolver(accounts)
	return &Service{
		messages:      messages,
		listings:      listings,
		resolver:      resolver,
		disambiguator: NewDisambiguator(messages, resolver),
		aggregator:    NewAggregator(messages, resolver, listings),
	}
}

func (s *Service) aliases(v Viewer) AliasSet {
	return s.resolver.ForViewer(v.ID, v.Phone)
}

func (s *Service) listing(ctx context.Context, listingID string) (*models.Ad, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, apperr.Validation(msgMissingListing)
	}
	ad, err := s.listings.AdByID(ctx, listingID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(msgListingNotFound)
		}
		return nil, err
	}
	if ad.Phone == "" && ad.UserID == "" {
		return nil, apperr.NotFound(msgListingNotFound)
	}
	return ad, nil
}

// Send appends a message from the viewer about a listing. A buyer's message
// goes to the listing owner; an owner's message goes to the most recently
// active counterpart on the listing.
func (s *Service) Send(ctx context.Context, v Viewer, listingID, content string) (*models.Message, error) {
	if strings.TrimSpace(listingID) == "" || strings.TrimSpace(content) == "" {
		return nil, apperr.Validation(msgMissingFields)
	}
	ad, err := s.listing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	viewer := s.aliases(v)
	receiver, err := s.disambiguator.ReplyTarget(ctx, viewer, ad)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.Append(ctx, models.NewMessage{
		SenderID:   viewer.Primary(),
		ReceiverID: receiver,
		ListingID:  ad.ID,
		Content:    content,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("listing_id", ad.ID).
		Str("sender", msg.SenderID).
		Str("receiver", msg.ReceiverID).
		Int64("seq", msg.Seq).
		Msg("message appended")
	return msg, nil
}

// Thread returns the viewer's exchange about a listing and marks the
// counterpart's messages to the viewer as read.
func (s *Service) Thread(ctx context.Context, v Viewer, listingID string) (*Thread, error) {
	ad, err := s.listing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	thread, err := s.disambiguator.Resolve(ctx, s.aliases(v), ad)
	if err != nil {
		return nil, err
	}

	// an empty listing has nothing to mark and no bound to mark it by
	if thread.MaxSeq == 0 {
		return thread, nil
	}

	marked, err := s.messages.MarkRead(ctx, models.ReadFilter{
		ListingID: ad.ID,
		Receivers: thread.Party,
		Senders:   thread.Counterpart,
		MaxSeq:    thread.MaxSeq,
	})
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		// the response reflects the state after this read
		for i := range thread.Messages {
			m := &thread.Messages[i]
			if thread.Party.Contains(m.ReceiverID) && thread.Counterpart.Contains(m.SenderID) {
				m.Read = true
			}
		}
	}
	return thread, nil
}

func (s *Service) Conversations(ctx context.Context, v Viewer) ([]ConversationSummary, error) {
	return s.aggregator.List(ctx, s.aliases(v))
}

func (s *Service) Threads(ctx context.Context, v Viewer) ([]ConversationSummary, error) {
	return s.aggregator.ListThreads(ctx, s.aliases(v))
}

func (s *Service) UnreadCount(ctx context.Context, v Viewer) (int, error) {
	return s.aggregator.UnreadCount(ctx, s.aliases(v))
}
