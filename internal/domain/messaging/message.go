package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in an inquiry's durable log. IsRead is a single
// boolean meaning "observed by someone other than the sender"; in a
// two-party conversation this is equivalent to "read by the
// counterparty". Messages are never deleted by the core.
type Message struct {
	ID        uuid.UUID
	InquiryID uuid.UUID
	SenderID  uuid.UUID
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

// ConversationSummary is the per-inquiry digest returned by
// ListConversationsFor: the counterparty, the latest message and how
// many messages the viewer has not read yet.
type ConversationSummary struct {
	InquiryID        uuid.UUID
	ProductID        *uuid.UUID
	ProductName      string
	BuyerID          uuid.UUID
	ProducerID       uuid.UUID
	CounterpartyID   uuid.UUID
	CounterpartyName string
	LastMessage      string
	LastMessageAt    *time.Time
	UnreadCount      int64
	CreatedAt        time.Time
}
