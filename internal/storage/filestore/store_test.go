package filestore

import (
	"context"
	"testing"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	u, err := store.Users.CreateUser(ctx, "09120000002", "علی")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = store.Users.CreateUser(ctx, "09120000002", "دیگری")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	reopened, err := Open(dir)
	require.NoError(t, err)
	byPhone, err := reopened.Users.UserByPhone(ctx, "09120000002")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)
	byID, err := reopened.Users.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "علی", byID.Name)

	_, err = reopened.Users.UserByPhone(ctx, "09990000000")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	older := &models.Ad{UserID: "u1", Title: "میز", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.Ads.CreateAd(ctx, older))
	newer := &models.Ad{UserID: "u2", Title: "صندلی"}
	require.NoError(t, store.Ads.CreateAd(ctx, newer))

	assert.NotEmpty(t, older.ID)
	assert.NotNil(t, newer.Images)
	assert.Equal(t, newer.CreatedAt, newer.UpdatedAt)

	dup := &models.Ad{ID: older.ID, Title: "x"}
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(store.Ads.CreateAd(ctx, dup)))

	reopened, err := Open(dir)
	require.NoError(t, err)
	all, err := reopened.Ads.ListAds(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "صندلی", all[0].Title)

	mine, err := reopened.Ads.AdsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, older.ID, mine[0].ID)

	_, err = reopened.Ads.AdByID(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}
