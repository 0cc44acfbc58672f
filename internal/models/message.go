package models

import (
	"time"
)

// Message is immutable once appended, except for Read.
type Message struct {
	ID             string    `json:"id" db:"id"`
	Seq            int64     `json:"seq" db:"seq"`
	ConversationID string    `json:"conversationId" db:"conversation_id"`
	SenderID       string    `json:"senderId" db:"sender_id"`
	ReceiverID     string    `json:"receiverId" db:"receiver_id"`
	ListingID      string    `json:"listingId" db:"ad_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	Read           bool      `json:"read" db:"is_read"`
}

// SelfAddressed messages are invalid and skipped by every read path.
func (m *Message) SelfAddressed() bool {
	return m.SenderID == m.ReceiverID
}

// Before orders messages by creation time, then by log position.
func (m *Message) Before(o *Message) bool {
	if !m.CreatedAt.Equal(o.CreatedAt) {
		return m.CreatedAt.Before(o.CreatedAt)
	}
	return m.Seq < o.Seq
}

type NewMessage struct {
	SenderID   string
	ReceiverID string
	ListingID  string
	Content    string
}

// ReadFilter selects the unread messages of one listing sent by any of
// Senders to any of Receivers. MaxSeq, when non-zero, excludes messages
// appended after the caller's read.
type ReadFilter struct {
	ListingID string
	Receivers []string
	Senders   []string
	MaxSeq    int64
}

func (f ReadFilter) Matches(m *Message) bool {
	if m.Read || m.ListingID != f.ListingID {
		return false
	}
	if f.MaxSeq > 0 && m.Seq > f.MaxSeq {
		return false
	}
	return contains(f.Receivers, m.ReceiverID) && contains(f.Senders, m.SenderID)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type SendMessageRequest struct {
	ListingID string `json:"listingId"`
	Content   string `json:"content"`
}
