package messaging

import (
	"context"

	"github.com/google/uuid"
)

// ConversationRepository is the durable log behind both the live
// websocket path and the REST fallback path. Implementations must make
// AppendAndMarkRead atomic with respect to ListMessages and
// unread-count readers, and order messages by creation time only.
type ConversationRepository interface {
	// FindInquiry returns the inquiry or shared.ErrNotFound.
	FindInquiry(ctx context.Context, id uuid.UUID) (*Inquiry, error)

	// CreateInquiry persists a new inquiry.
	CreateInquiry(ctx context.Context, inquiry *Inquiry) error

	// FindInquiriesByProduct lists inquiries about a product.
	FindInquiriesByProduct(ctx context.Context, productID uuid.UUID) ([]Inquiry, error)

	// FindInquiriesByBuyer lists a buyer's inquiries.
	FindInquiriesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Inquiry, error)

	// AppendMessage inserts a message into an inquiry's log. It does
	// not authorize; callers check Inquiry.IsParty first.
	AppendMessage(ctx context.Context, inquiryID, senderID uuid.UUID, body string) (*Message, error)

	// AppendAndMarkRead appends the sender's message and marks every
	// other sender's message in the inquiry as read, in one
	// transaction. Replying implies the thread was read.
	AppendAndMarkRead(ctx context.Context, inquiryID, senderID uuid.UUID, body string) (*Message, error)

	// ListMessages returns the inquiry's messages ascending by
	// creation time.
	ListMessages(ctx context.Context, inquiryID uuid.UUID) ([]Message, error)

	// MarkRead marks all messages in the inquiry not sent by readerID
	// as read. Idempotent.
	MarkRead(ctx context.Context, inquiryID, readerID uuid.UUID) error

	// ListConversationsFor returns conversation summaries for every
	// inquiry the user is a party to, ordered by last message time
	// descending with message-less conversations last.
	ListConversationsFor(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error)

	// UnreadCountFor returns the total number of unread messages
	// addressed to the user across all their inquiries.
	UnreadCountFor(ctx context.Context, userID uuid.UUID) (int64, error)
}
