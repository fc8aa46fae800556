package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
)

// Inbound event names
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventMarkRead          = "mark_read"
	EventTyping            = "typing"
	EventOnlineStatus      = "online_status"
	EventAuth              = "auth"
)

// Outbound event names
const (
	EventConnectionConfirmed = "connection_confirmed"
	EventError               = "error"
	EventNewMessage          = "new_message"
	EventMessageSent         = "message_sent"
	EventMessagesRead        = "messages_read"
	EventUserTyping          = "user_typing"
	EventUserStatusChange    = "user_status_change"
	EventNotification        = "notification"
	EventAdminNotification   = "admin_notification"
)

// Event is a named payload travelling to a client. Payloads are typed
// records per event name so missing or renamed fields fail at compile
// time rather than at the receiving client.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"data"`
}

// Marshal encodes the event into its wire frame
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Frame is an inbound client frame; Data is decoded per Event name
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound payloads

type AuthPayload struct {
	Token string `json:"token"`
}

type JoinConversationPayload struct {
	InquiryID uuid.UUID `json:"inquiry_id"`
}

type LeaveConversationPayload struct {
	InquiryID uuid.UUID `json:"inquiry_id"`
}

type SendMessagePayload struct {
	InquiryID uuid.UUID `json:"inquiry_id"`
	Message   string    `json:"message"`
}

type MarkReadPayload struct {
	InquiryID uuid.UUID `json:"inquiry_id"`
}

type TypingPayload struct {
	InquiryID uuid.UUID `json:"inquiry_id"`
	IsTyping  bool      `json:"is_typing"`
}

type OnlineStatusPayload struct {
	IsOnline bool `json:"is_online"`
}

// Outbound payloads

type ConnectionConfirmedPayload struct {
	UserID   uuid.UUID     `json:"user_id"`
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessagePayload is the enriched message event broadcast to the
// conversation room, both parties' user topics and the admin topic.
type NewMessagePayload struct {
	ID           uuid.UUID     `json:"id"`
	InquiryID    uuid.UUID     `json:"inquiry_id"`
	SenderID     uuid.UUID     `json:"sender_id"`
	SenderName   string        `json:"sender_name"`
	SenderRole   identity.Role `json:"sender_role"`
	Message      string        `json:"message"`
	IsRead       bool          `json:"is_read"`
	CreatedAt    time.Time     `json:"created_at"`
	ProductName  string        `json:"product_name,omitempty"`
	BuyerName    string        `json:"buyer_name"`
	ProducerName string        `json:"producer_name"`
}

type MessageSentPayload struct {
	MessageID uuid.UUID `json:"message_id"`
	Status    string    `json:"status"`
}

type MessagesReadPayload struct {
	InquiryID  uuid.UUID `json:"inquiry_id"`
	ReadBy     uuid.UUID `json:"read_by"`
	ReadByName string    `json:"read_by_name"`
}

type UserTypingPayload struct {
	InquiryID uuid.UUID `json:"inquiry_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	IsTyping  bool      `json:"is_typing"`
}

type UserStatusChangePayload struct {
	UserID   uuid.UUID  `json:"user_id"`
	Username string     `json:"username"`
	UserName string     `json:"user_name"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// NotificationPayload is an out-of-band event pushed to a user, role
// or the admin room independent of any conversation.
type NotificationPayload struct {
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
