package messaging

import (
	"testing"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestConversationKeySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"09110000001", "09120000002"},
		{"user_1", "09120000002"},
		{"a", "b"},
		{"same", "same"},
	}
	for _, p := range pairs {
		assert.Equal(t, ConversationKey(p[0], p[1], "L1"), ConversationKey(p[1], p[0], "L1"))
	}
	assert.Equal(t, "09110000001_09120000002_L1", ConversationKey("09120000002", "09110000001", "L1"))
	assert.NotEqual(t, ConversationKey("a", "b", "L1"), ConversationKey("a", "b", "L2"))
}

func TestAliasSet(t *testing.T) {
	s := NewAliasSet("09120000002", "", "u1", "09120000002")
	assert.Equal(t, AliasSet{"09120000002", "u1"}, s)
	assert.Equal(t, "09120000002", s.Primary())
	assert.True(t, s.Contains("u1"))
	assert.False(t, s.Contains(""))

	o := NewAliasSet("u1", "09350000000")
	assert.True(t, s.Intersects(o))
	assert.False(t, s.Intersects(NewAliasSet("x")))
	assert.Equal(t, AliasSet{"09120000002", "u1", "09350000000"}, s.Union(o))

	assert.True(t, NewAliasSet().Empty())
	assert.Equal(t, "", NewAliasSet().Primary())
}

func TestValidateNewMessage(t *testing.T) {
	valid := models.NewMessage{SenderID: "a", ReceiverID: "b", ListingID: "L1", Content: "سلام"}
	assert.NoError(t, ValidateNewMessage(valid))

	cases := map[string]func(m *models.NewMessage){
		"empty content":      func(m *models.NewMessage) { m.Content = "" },
		"whitespace content": func(m *models.NewMessage) { m.Content = "  \n\t" },
		"empty listing":      func(m *models.NewMessage) { m.ListingID = " " },
		"missing sender":     func(m *models.NewMessage) { m.SenderID = "" },
		"missing receiver":   func(m *models.NewMessage) { m.ReceiverID = "" },
		"self addressed":     func(m *models.NewMessage) { m.ReceiverID = m.SenderID },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := valid
			mutate(&m)
			err := ValidateNewMessage(m)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestLatestCounterpart(t *testing.T) {
	owner := NewAliasSet("09120000002", "owner")
	all := []models.Message{
		{Seq: 1, SenderID: "09110000001", ReceiverID: "09120000002"},
		{Seq: 2, SenderID: "09120000002", ReceiverID: "09110000001"},
		{Seq: 3, SenderID: "09110000003", ReceiverID: "owner"},
		{Seq: 4, SenderID: "owner", ReceiverID: "owner"},
	}

	alias, ok := latestCounterpart(all, owner)
	assert.True(t, ok)
	assert.Equal(t, "09110000003", alias)

	// an outbound message counts as activity too
	all = append(all, models.Message{Seq: 5, SenderID: "owner", ReceiverID: "09110000001"})
	alias, ok = latestCounterpart(all, owner)
	assert.True(t, ok)
	assert.Equal(t, "09110000001", alias)

	_, ok = latestCounterpart(all[3:4], owner)
	assert.False(t, ok)
}
