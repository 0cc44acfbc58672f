package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMessages(t *testing.T, dir string) *MessageStore {
	t.Helper()
	s, err := OpenMessageStore(dir)
	require.NoError(t, err)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	s.SetClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	})
	return s
}

func TestAppendAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	s := openMessages(t, t.TempDir())

	first, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "سلام"})
	require.NoError(t, err)
	second, err := s.Append(ctx, models.NewMessage{SenderID: "a", ReceiverID: "b", ListingID: "L1", Content: "بله"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, "a_b_L1", first.ConversationID)
	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.True(t, first.CreatedAt.Before(second.CreatedAt))
	assert.False(t, first.Read)
}

func TestAppendRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := openMessages(t, t.TempDir())

	_, err := s.Append(ctx, models.NewMessage{SenderID: "a", ReceiverID: "a", ListingID: "L1", Content: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = s.Append(ctx, models.NewMessage{SenderID: "a", ReceiverID: "b", ListingID: "L1", Content: " "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMessagesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openMessages(t, dir)

	_, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "سلام"})
	require.NoError(t, err)
	_, err = s.Append(ctx, models.NewMessage{SenderID: "c", ReceiverID: "a", ListingID: "L2", Content: "سلام"})
	require.NoError(t, err)

	reopened := openMessages(t, dir)
	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	l2, err := reopened.AllForListing(ctx, "L2")
	require.NoError(t, err)
	require.Len(t, l2, 1)
	assert.Equal(t, "c", l2[0].SenderID)

	next, err := reopened.Append(ctx, models.NewMessage{SenderID: "a", ReceiverID: "c", ListingID: "L2", Content: "بله"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), next.Seq)
}

func TestLoadFillsMissingFields(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := `[
  {"id": "m1", "senderId": "09110000001", "receiverId": "09120000002", "listingId": "L1", "content": "سلام", "createdAt": "2024-01-01T10:00:00Z", "read": false},
  {"id": "m2", "senderId": "09120000002", "receiverId": "09110000001", "listingId": "L1", "content": "بله", "createdAt": "2024-01-01T10:01:00Z", "read": true}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.json"), []byte(legacy), 0o644))

	s := openMessages(t, dir)
	msgs, err := s.AllForListing(ctx, "L1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].Seq)
	assert.Equal(t, int64(2), msgs[1].Seq)
	assert.Equal(t, messaging.ConversationKey("09110000001", "09120000002", "L1"), msgs[0].ConversationID)
	assert.True(t, msgs[1].Read)
}

func TestForAliasesMergesInLogOrder(t *testing.T) {
	ctx := context.Background()
	s := openMessages(t, t.TempDir())

	for _, m := range []models.NewMessage{
		{SenderID: "09110000001", ReceiverID: "09120000002", ListingID: "L1", Content: "1"},
		{SenderID: "09130000000", ReceiverID: "owner-id", ListingID: "L2", Content: "2"},
		{SenderID: "09120000002", ReceiverID: "09110000001", ListingID: "L1", Content: "3"},
		{SenderID: "x", ReceiverID: "y", ListingID: "L3", Content: "4"},
	} {
		_, err := s.Append(ctx, m)
		require.NoError(t, err)
	}

	msgs, err := s.ForAliases(ctx, []string{"09120000002", "owner-id"})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "1", msgs[0].Content)
	assert.Equal(t, "2", msgs[1].Content)
	assert.Equal(t, "3", msgs[2].Content)

	// results are copies
	msgs[0].Content = "changed"
	again, err := s.ForAliases(ctx, []string{"09120000002"})
	require.NoError(t, err)
	assert.Equal(t, "1", again[0].Content)
}

func TestMarkReadIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openMessages(t, dir)

	for _, content := range []string{"سلام", "هستید؟"} {
		_, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: content})
		require.NoError(t, err)
	}
	_, err := s.Append(ctx, models.NewMessage{SenderID: "a", ReceiverID: "b", ListingID: "L1", Content: "بله"})
	require.NoError(t, err)

	filter := models.ReadFilter{ListingID: "L1", Receivers: []string{"a"}, Senders: []string{"b"}}
	n, err := s.MarkRead(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.MarkRead(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	msgs, err := openMessages(t, dir).AllForListing(ctx, "L1")
	require.NoError(t, err)
	assert.True(t, msgs[0].Read)
	assert.True(t, msgs[1].Read)
	assert.False(t, msgs[2].Read)
}

func TestMarkReadRespectsMaxSeq(t *testing.T) {
	ctx := context.Background()
	s := openMessages(t, t.TempDir())

	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "سلام"})
		require.NoError(t, err)
	}

	n, err := s.MarkRead(ctx, models.ReadFilter{ListingID: "L1", Receivers: []string{"a"}, Senders: []string{"b"}, MaxSeq: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	msgs, err := s.AllForListing(ctx, "L1")
	require.NoError(t, err)
	assert.False(t, msgs[2].Read)
}

func TestCanceledContext(t *testing.T) {
	s := openMessages(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "x"})
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	_, err = s.AllForListing(ctx, "L1")
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}

func TestAppendStorageFailureLeavesLogUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openMessages(t, dir)

	_, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "سلام"})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "هستید؟"})
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	n, err := s.MarkRead(ctx, models.ReadFilter{ListingID: "L1", Receivers: []string{"a"}, Senders: []string{"b"}})
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	assert.Equal(t, 0, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	msgs, err := s.AllForListing(ctx, "L1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "سلام", msgs[0].Content)
	assert.False(t, msgs[0].Read)

	byAlias, err := s.ForAliases(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, byAlias, 1)
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openMessages(t, dir)

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Append(ctx, models.NewMessage{SenderID: "b", ReceiverID: "a", ListingID: "L1", Content: "سلام"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	reopened := openMessages(t, dir)
	msgs, err := reopened.AllForListing(ctx, "L1")
	require.NoError(t, err)
	require.Len(t, msgs, writers)

	seen := make(map[string]struct{}, writers)
	for i, m := range msgs {
		assert.Equal(t, int64(i+1), m.Seq)
		seen[m.ID] = struct{}{}
	}
	assert.Len(t, seen, writers)
}
