package realtime

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Router errors surfaced to the originating connection as `error`
// events. NotFound and Forbidden carry no side effects.
var (
	ErrNotRegistered = shared.NewDomainError("UNAUTHORIZED", "Connection is not authenticated")
	ErrEmptyMessage  = shared.NewDomainError("INVALID_INPUT", "Message body is required")
)

// Router mediates all live message traffic for conversation topics:
// it validates authorization against the conversation store, persists
// through it, and fans out to live subscribers via the registry.
// Persistence success is the success criterion; fan-out is best
// effort.
type Router struct {
	registry *Registry
	store    messaging.ConversationRepository
	users    identity.UserRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewRouter constructs a message router
func NewRouter(
	registry *Registry,
	store messaging.ConversationRepository,
	users identity.UserRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		registry: registry,
		store:    store,
		users:    users,
		products: products,
		logger:   logger,
	}
}

// JoinConversation subscribes the connection to an inquiry's room.
// The member must be a party to the inquiry or an admin; this check is
// stricter than send-time-only enforcement because room broadcasts
// would otherwise reach arbitrary joiners.
func (rt *Router) JoinConversation(ctx context.Context, conn Conn, inquiryID uuid.UUID) error {
	sender, ok := rt.registry.IdentityOf(conn.ID())
	if !ok {
		return ErrNotRegistered
	}

	inquiry, err := rt.store.FindInquiry(ctx, inquiryID)
	if err != nil {
		return err
	}
	if !inquiry.IsParty(sender.ID) && !sender.IsAdmin() {
		return shared.ErrForbidden
	}

	rt.registry.Join(conn, ConversationTopic(inquiryID))
	return nil
}

// LeaveConversation unsubscribes the connection from an inquiry's room
func (rt *Router) LeaveConversation(conn Conn, inquiryID uuid.UUID) {
	rt.registry.Leave(conn, ConversationTopic(inquiryID))
}

// SendMessage runs the full send pipeline: validate, load, authorize,
// persist (append plus implied read-marking in one transaction), fan
// out the enriched event, and acknowledge privately to the sender.
// There is no idempotence: sending the same body twice creates two
// messages.
func (rt *Router) SendMessage(ctx context.Context, conn Conn, payload SendMessagePayload) error {
	sender, ok := rt.registry.IdentityOf(conn.ID())
	if !ok {
		return ErrNotRegistered
	}
	if strings.TrimSpace(payload.Message) == "" {
		return ErrEmptyMessage
	}

	inquiry, err := rt.store.FindInquiry(ctx, payload.InquiryID)
	if err != nil {
		return err
	}
	if !inquiry.IsParty(sender.ID) {
		return shared.ErrForbidden
	}

	msg, err := rt.store.AppendAndMarkRead(ctx, inquiry.ID, sender.ID, payload.Message)
	if err != nil {
		return err
	}

	rt.PublishMessage(ctx, inquiry, sender, msg)

	rt.registry.SendTo(conn.ID(), Event{
		Name:    EventMessageSent,
		Payload: MessageSentPayload{MessageID: msg.ID, Status: "sent"},
	})

	rt.logger.Info("message sent",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("sender_id", sender.ID.String()),
	)
	return nil
}

// MarkRead marks every counterparty message in the inquiry as read and
// notifies the conversation room only. Idempotent.
func (rt *Router) MarkRead(ctx context.Context, conn Conn, inquiryID uuid.UUID) error {
	sender, ok := rt.registry.IdentityOf(conn.ID())
	if !ok {
		return ErrNotRegistered
	}

	if err := rt.store.MarkRead(ctx, inquiryID, sender.ID); err != nil {
		return err
	}

	rt.PublishRead(inquiryID, sender)
	return nil
}

// PublishMessage fans an already-persisted message out to the
// conversation room, both parties' user topics and the admin topic.
// The REST send path reuses this so live clients see REST-originated
// messages too.
//
// Four independent best-effort broadcasts; order across topics is
// unspecified. A connection in both the room and a user topic receives
// the event more than once, which clients de-duplicate by message id.
func (rt *Router) PublishMessage(ctx context.Context, inquiry *messaging.Inquiry, sender Identity, msg *messaging.Message) {
	event := Event{
		Name:    EventNewMessage,
		Payload: rt.enrichMessage(ctx, inquiry, sender, msg),
	}

	rt.registry.Broadcast(ConversationTopic(inquiry.ID), event)
	rt.registry.Broadcast(UserTopic(inquiry.BuyerID), event)
	rt.registry.Broadcast(UserTopic(inquiry.ProducerID), event)
	rt.registry.Broadcast(AdminTopic(), event)
}

// PublishRead notifies the conversation room that the reader has
// observed the thread
func (rt *Router) PublishRead(inquiryID uuid.UUID, reader Identity) {
	rt.registry.Broadcast(ConversationTopic(inquiryID), Event{
		Name: EventMessagesRead,
		Payload: MessagesReadPayload{
			InquiryID:  inquiryID,
			ReadBy:     reader.ID,
			ReadByName: reader.DisplayName,
		},
	})
}

// Typing relays a typing indicator to the conversation room, excluding
// the sender's own connection. Stateless; never persisted.
func (rt *Router) Typing(conn Conn, payload TypingPayload) {
	sender, ok := rt.registry.IdentityOf(conn.ID())
	if !ok {
		return
	}

	rt.registry.BroadcastExcept(ConversationTopic(payload.InquiryID), Event{
		Name: EventUserTyping,
		Payload: UserTypingPayload{
			InquiryID: payload.InquiryID,
			UserID:    sender.ID,
			UserName:  sender.DisplayName,
			IsTyping:  payload.IsTyping,
		},
	}, conn.ID())
}

// OnlineStatus broadcasts a status change to the sender's role topic
func (rt *Router) OnlineStatus(conn Conn, payload OnlineStatusPayload) {
	sender, ok := rt.registry.IdentityOf(conn.ID())
	if !ok {
		return
	}

	status := UserStatusChangePayload{
		UserID:   sender.ID,
		Username: sender.Username,
		UserName: sender.DisplayName,
		IsOnline: payload.IsOnline,
	}
	if !payload.IsOnline {
		now := time.Now().UTC()
		status.LastSeen = &now
	}

	rt.registry.Broadcast(RoleTopic(sender.Role), Event{
		Name:    EventUserStatusChange,
		Payload: status,
	})
}

// enrichMessage builds the broadcast payload with display names and
// the product name. Lookups are best effort: a failed join degrades to
// an empty field rather than failing the already-persisted send.
func (rt *Router) enrichMessage(ctx context.Context, inquiry *messaging.Inquiry, sender Identity, msg *messaging.Message) NewMessagePayload {
	payload := NewMessagePayload{
		ID:         msg.ID,
		InquiryID:  msg.InquiryID,
		SenderID:   msg.SenderID,
		SenderName: sender.DisplayName,
		SenderRole: sender.Role,
		Message:    msg.Body,
		IsRead:     msg.IsRead,
		CreatedAt:  msg.CreatedAt,
	}

	payload.BuyerName = rt.displayName(ctx, inquiry.BuyerID)
	payload.ProducerName = rt.displayName(ctx, inquiry.ProducerID)

	if inquiry.ProductID != nil {
		product, err := rt.products.FindByID(ctx, *inquiry.ProductID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				rt.logger.Warn("failed to load product for message event",
					zap.String("product_id", inquiry.ProductID.String()),
					zap.Error(err),
				)
			}
		} else {
			payload.ProductName = product.Name
		}
	}
	return payload
}

func (rt *Router) displayName(ctx context.Context, userID uuid.UUID) string {
	user, err := rt.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			rt.logger.Warn("failed to load user for message event",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return ""
	}
	return user.DisplayName()
}
