package messaging

import (
	"context"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"
)

// Resolver maps accounts and bare aliases to AliasSets.
type Resolver struct {
	accounts AccountLookup
}

func NewResolver(accounts AccountLookup) *Resolver {
	return &Resolver{accounts: accounts}
}

func (r *Resolver) ForViewer(id, phone string) AliasSet {
	return NewAliasSet(phone, id)
}

// Resolve returns the full AliasSet of the account alias belongs to, trying
// phone first and then id. An unknown alias resolves to a singleton set and a
// nil account.
func (r *Resolver) Resolve(ctx context.Context, alias string) (AliasSet, *models.User, error) {
	if alias == "" {
		return AliasSet{}, nil, nil
	}

	user, err := r.accounts.UserByPhone(ctx, alias)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, nil, err
	}
	if user == nil {
		user, err = r.accounts.UserByID(ctx, alias)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, nil, err
		}
	}
	if user == nil {
		return NewAliasSet(alias), nil, nil
	}
	return NewAliasSet(alias, user.Phone, user.ID), user, nil
}

// ForListing returns the owner's aliases for ad: the listing's contact phone,
// the owner id, and the owner account's phone when the account exists.
func (r *Resolver) ForListing(ctx context.Context, ad *models.Ad) (AliasSet, error) {
	set := NewAliasSet(ad.Phone, ad.UserID)
	if ad.UserID == "" {
		return set, nil
	}
	owner, err := r.accounts.UserByID(ctx, ad.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return set, nil
		}
		return nil, err
	}
	return set.Union(NewAliasSet(owner.Phone)), nil
}
