package messaging

import (
	"context"
	"sort"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"
)

// Thread is one viewer's exchange with one counterpart about a listing.
type Thread struct {
	ListingID string
	// Party holds the viewer's aliases; when the viewer owns the listing it
	// also holds the listing's owner aliases.
	Party            AliasSet
	Counterpart      AliasSet
	CounterpartAlias string
	IsOwner          bool
	Messages         []models.Message
	// MaxSeq is the highest log position among the listing messages scanned.
	MaxSeq int64
}

// Disambiguator infers who the other party is for a viewer and a listing.
//
// Messages carry no thread id, so an owner contacted by several buyers is
// always paired with the most recently active one; older buyers' threads are
// not reachable from the owner's side until they write again.
type Disambiguator struct {
	messages MessageStore
	resolver *Resolver
}

func NewDisambiguator(messages MessageStore, resolver *Resolver) *Disambiguator {
	return &Disambiguator{messages: messages, resolver: resolver}
}

// Resolve returns the thread between viewer and the counterpart for ad,
// sorted ascending by creation time. An owner with no exchange on the listing
// yet gets a NoCounterpartYet error.
func (d *Disambiguator) Resolve(ctx context.Context, viewer AliasSet, ad *models.Ad) (*Thread, error) {
	owner, err := d.resolver.ForListing(ctx, ad)
	if err != nil {
		return nil, err
	}

	all, err := d.messages.AllForListing(ctx, ad.ID)
	if err != nil {
		return nil, err
	}

	thread := &Thread{ListingID: ad.ID, Party: viewer}
	for i := range all {
		if all[i].Seq > thread.MaxSeq {
			thread.MaxSeq = all[i].Seq
		}
	}

	if viewer.Intersects(owner) {
		thread.IsOwner = true
		thread.Party = viewer.Union(owner)

		alias, ok := latestCounterpart(all, owner)
		if !ok {
			return nil, apperr.NoCounterpartYet(msgNoCounterpart)
		}
		counterpart, _, err := d.resolver.Resolve(ctx, alias)
		if err != nil {
			return nil, err
		}
		thread.CounterpartAlias = alias
		thread.Counterpart = counterpart
	} else {
		thread.Counterpart = owner
		thread.CounterpartAlias = buyerReplyTarget(ad)
	}

	thread.Messages = between(all, thread.Party, thread.Counterpart)
	return thread, nil
}

// latestCounterpart scans the owner's inbound and outbound messages and
// returns the non-owner alias of the most recent one.
func latestCounterpart(all []models.Message, owner AliasSet) (string, bool) {
	var latest *models.Message
	var alias string
	for i := range all {
		m := &all[i]
		if m.SelfAddressed() {
			continue
		}

		var other string
		switch {
		case owner.Contains(m.ReceiverID) && !owner.Contains(m.SenderID):
			other = m.SenderID
		case owner.Contains(m.SenderID) && !owner.Contains(m.ReceiverID):
			other = m.ReceiverID
		default:
			continue
		}

		if latest == nil || latest.Before(m) {
			latest = m
			alias = other
		}
	}
	return alias, latest != nil
}

// between keeps the messages exchanged by a and b in either direction.
func between(all []models.Message, a, b AliasSet) []models.Message {
	out := make([]models.Message, 0)
	for i := range all {
		m := all[i]
		if m.SelfAddressed() {
			continue
		}
		if (a.Contains(m.SenderID) && b.Contains(m.ReceiverID)) ||
			(b.Contains(m.SenderID) && a.Contains(m.ReceiverID)) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Before(&out[j])
	})
	return out
}

// ReplyTarget returns the raw receiver alias for a message the viewer sends
// about ad.
func (d *Disambiguator) ReplyTarget(ctx context.Context, viewer AliasSet, ad *models.Ad) (string, error) {
	owner, err := d.resolver.ForListing(ctx, ad)
	if err != nil {
		return "", err
	}
	if !viewer.Intersects(owner) {
		return buyerReplyTarget(ad), nil
	}

	all, err := d.messages.AllForListing(ctx, ad.ID)
	if err != nil {
		return "", err
	}
	alias, ok := latestCounterpart(all, owner)
	if !ok {
		return "", apperr.NoCounterpartYet(msgNoCounterpart)
	}
	return alias, nil
}

func buyerReplyTarget(ad *models.Ad) string {
	if ad.Phone != "" {
		return ad.Phone
	}
	return ad.UserID
}
