package messaging

import (
	"context"
	"sort"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"
)

// ConversationSummary is computed per request and never stored.
type ConversationSummary struct {
	ID               string     `json:"id"`
	ListingID        string     `json:"listingId"`
	ListingTitle     string     `json:"listingTitle"`
	CounterpartAlias string     `json:"otherPartyPhone"`
	CounterpartName  string     `json:"otherPartyName"`
	LastMessage      string     `json:"lastMessage,omitempty"`
	LastMessageAt    *time.Time `json:"lastMessageAt,omitempty"`
	UnreadCount      int        `json:"unreadCount"`

	last *models.Message
}

// Aggregator builds a viewer's conversation list. Grouping uses the literal
// counterpart alias found on each message, so the list still works for
// counterparts without an account.
type Aggregator struct {
	messages MessageStore
	resolver *Resolver
	listings ListingLookup
}

func NewAggregator(messages MessageStore, resolver *Resolver, listings ListingLookup) *Aggregator {
	return &Aggregator{messages: messages, resolver: resolver, listings: listings}
}

// List groups the viewer's messages by (listing, counterpart alias) and
// orders the groups by most recent activity.
func (a *Aggregator) List(ctx context.Context, viewer AliasSet) ([]ConversationSummary, error) {
	msgs, err := a.messages.ForAliases(ctx, viewer)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*ConversationSummary)
	var order []string
	for i := range msgs {
		m := &msgs[i]
		if m.SelfAddressed() {
			continue
		}
		other := m.SenderID
		if viewer.Contains(m.SenderID) {
			other = m.ReceiverID
		}

		key := m.ListingID + "_" + other
		conv, ok := groups[key]
		if !ok {
			conv = &ConversationSummary{ID: key, ListingID: m.ListingID, CounterpartAlias: other}
			groups[key] = conv
			order = append(order, key)
		}
		conv.observe(m, viewer)
	}

	out := make([]ConversationSummary, 0, len(order))
	for _, key := range order {
		conv := groups[key]
		if err := a.label(ctx, conv); err != nil {
			return nil, err
		}
		out = append(out, *conv)
	}
	sortByActivity(out)
	return out, nil
}

// ListThreads groups the viewer's messages by the conversation id recorded
// at write time.
func (a *Aggregator) ListThreads(ctx context.Context, viewer AliasSet) ([]ConversationSummary, error) {
	msgs, err := a.messages.ForAliases(ctx, viewer)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*ConversationSummary)
	var order []string
	for i := range msgs {
		m := &msgs[i]
		if m.SelfAddressed() {
			continue
		}
		key := m.ConversationID
		if key == "" {
			key = ConversationKey(m.SenderID, m.ReceiverID, m.ListingID)
		}
		conv, ok := groups[key]
		if !ok {
			other := m.SenderID
			if viewer.Contains(m.SenderID) {
				other = m.ReceiverID
			}
			conv = &ConversationSummary{ID: key, ListingID: m.ListingID, CounterpartAlias: other}
			groups[key] = conv
			order = append(order, key)
		}
		conv.observe(m, viewer)
	}

	out := make([]ConversationSummary, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sortByActivity(out)
	return out, nil
}

// UnreadCount totals the unread messages addressed to the viewer.
func (a *Aggregator) UnreadCount(ctx context.Context, viewer AliasSet) (int, error) {
	msgs, err := a.messages.ForAliases(ctx, viewer)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range msgs {
		m := &msgs[i]
		if !m.SelfAddressed() && !m.Read && viewer.Contains(m.ReceiverID) {
			count++
		}
	}
	return count, nil
}

func (c *ConversationSummary) observe(m *models.Message, viewer AliasSet) {
	if c.last == nil || c.last.Before(m) {
		c.last = m
		c.LastMessage = m.Content
		at := m.CreatedAt
		c.LastMessageAt = &at
	}
	if !m.Read && viewer.Contains(m.ReceiverID) {
		c.UnreadCount++
	}
}

func (a *Aggregator) label(ctx context.Context, conv *ConversationSummary) error {
	conv.CounterpartName = conv.CounterpartAlias
	_, user, err := a.resolver.Resolve(ctx, conv.CounterpartAlias)
	if err != nil {
		return err
	}
	if user != nil && user.DisplayName() != "" {
		conv.CounterpartName = user.DisplayName()
	}

	conv.ListingTitle = models.DefaultAdTitle
	ad, err := a.listings.AdByID(ctx, conv.ListingID)
	switch {
	case err == nil && ad.Title != "":
		conv.ListingTitle = ad.Title
	case err != nil && !apperr.IsNotFound(err):
		return err
	}
	return nil
}

// sortByActivity orders summaries newest first; summaries without a
// timestamp go last.
func sortByActivity(convs []ConversationSummary) {
	sort.SliceStable(convs, func(i, j int) bool {
		a, b := convs[i].LastMessageAt, convs[j].LastMessageAt
		switch {
		case a == nil || a.IsZero():
			return false
		case b == nil || b.IsZero():
			return true
		}
		return a.After(*b)
	})
}
