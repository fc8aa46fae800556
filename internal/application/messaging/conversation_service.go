package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/realtime"
	"go.uber.org/zap"
)

// Publisher pushes persisted conversation changes to live connections
// so websocket clients see REST-originated traffic. Implemented by the
// realtime router.
type Publisher interface {
	PublishMessage(ctx context.Context, inquiry *messaging.Inquiry, sender realtime.Identity, msg *messaging.Message)
	PublishRead(inquiryID uuid.UUID, reader realtime.Identity)
}

// InquiryNotifier tells a producer about a new inquiry
type InquiryNotifier interface {
	NotifyUser(userID uuid.UUID, notification realtime.Notification)
}

// ConversationService is the REST-path counterpart of the realtime
// router: same store, same authorization rules, same fan-out via the
// publisher.
type ConversationService struct {
	store       messaging.ConversationRepository
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	publisher   Publisher
	notifier    InquiryNotifier
	logger      *zap.Logger
}

// NewConversationService creates a conversation service. publisher and
// notifier may be nil when no realtime registry is wired.
func NewConversationService(
	store messaging.ConversationRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	publisher Publisher,
	notifier InquiryNotifier,
	logger *zap.Logger,
) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		store:       store,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateInquiry opens a conversation thread. For product inquiries the
// producer is resolved from the product's owner, never trusted from
// the caller.
func (s *ConversationService) CreateInquiry(ctx context.Context, input CreateInquiryInput) (*messaging.Inquiry, error) {
	var inquiry *messaging.Inquiry
	var err error

	if input.ProductID != nil {
		product, perr := s.productRepo.FindByID(ctx, *input.ProductID)
		if perr != nil {
			return nil, perr
		}
		if product.IsOwnedBy(input.BuyerID) {
			return nil, shared.NewDomainError("FORBIDDEN", "Cannot inquire about your own product")
		}
		inquiry, err = messaging.NewProductInquiry(product.ID, input.BuyerID, product.ProducerID, input.Message, input.QuantityRequested)
	} else {
		producer, perr := s.userRepo.FindByID(ctx, input.ProducerID)
		if perr != nil {
			return nil, perr
		}
		if producer.Role != identity.RoleProducer {
			return nil, shared.NewDomainError("INVALID_INPUT", "Inquiries can only be sent to producers")
		}
		inquiry, err = messaging.NewDirectInquiry(input.BuyerID, producer.ID, input.Message)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateInquiry(ctx, inquiry); err != nil {
		s.logger.Error("Failed to persist inquiry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create inquiry")
	}

	s.logger.Info("Inquiry created",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("buyer_id", inquiry.BuyerID.String()),
		zap.String("producer_id", inquiry.ProducerID.String()))

	if s.notifier != nil {
		inquiryBuyer := inquiry.BuyerID
		s.notifier.NotifyUser(inquiry.ProducerID, realtime.Notification{
			Type:    "new_inquiry",
			Title:   "New inquiry",
			Message: fmt.Sprintf("New inquiry: %s", inquiry.Message),
			UserID:  &inquiryBuyer,
		})
	}

	return inquiry, nil
}

// ListConversations returns the user's conversation summaries
func (s *ConversationService) ListConversations(ctx context.Context, userID uuid.UUID) ([]messaging.ConversationSummary, error) {
	return s.store.ListConversationsFor(ctx, userID)
}

// GetMessages returns the thread and marks it read for the actor, as
// opening a conversation implies reading it. Admins read without
// marking.
func (s *ConversationService) GetMessages(ctx context.Context, inquiryID, actorID uuid.UUID, role identity.Role) ([]messaging.Message, error) {
	inquiry, err := s.store.FindInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !inquiry.IsParty(actorID) && role != identity.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	messages, err := s.store.ListMessages(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if inquiry.IsParty(actorID) {
		if err := s.markRead(ctx, inquiry, actorID); err != nil {
			// The read marker is a side effect of viewing; the fetch
			// itself already succeeded.
			s.logger.Error("Failed to mark conversation read",
				zap.String("inquiry_id", inquiryID.String()), zap.Error(err))
		}
	}

	return messages, nil
}

// SendMessage is the REST send path: same pipeline as the live path,
// minus the private ack frame.
func (s *ConversationService) SendMessage(ctx context.Context, input SendMessageInput) (*messaging.Message, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Message body is required")
	}

	inquiry, err := s.store.FindInquiry(ctx, input.InquiryID)
	if err != nil {
		return nil, err
	}
	if !inquiry.IsParty(input.SenderID) {
		return nil, shared.ErrForbidden
	}

	msg, err := s.store.AppendAndMarkRead(ctx, inquiry.ID, input.SenderID, input.Body)
	if err != nil {
		s.logger.Error("Failed to persist message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to send message")
	}

	if s.publisher != nil {
		if sender, err := s.userRepo.FindByID(ctx, input.SenderID); err == nil {
			s.publisher.PublishMessage(ctx, inquiry, realtime.IdentityFromUser(sender), msg)
		}
	}

	return msg, nil
}

// MarkRead marks the thread read for the actor and notifies the room
func (s *ConversationService) MarkRead(ctx context.Context, inquiryID, actorID uuid.UUID) error {
	inquiry, err := s.store.FindInquiry(ctx, inquiryID)
	if err != nil {
		return err
	}
	if !inquiry.IsParty(actorID) {
		return shared.ErrForbidden
	}
	return s.markRead(ctx, inquiry, actorID)
}

// UnreadCount returns the user's total unread messages
func (s *ConversationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.UnreadCountFor(ctx, userID)
}

// ListProductInquiries returns inquiries about a product, visible to
// its producer only
func (s *ConversationService) ListProductInquiries(ctx context.Context, productID, actorID uuid.UUID) ([]messaging.Inquiry, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}
	return s.store.FindInquiriesByProduct(ctx, productID)
}

// ListBuyerInquiries returns a buyer's own inquiries
func (s *ConversationService) ListBuyerInquiries(ctx context.Context, buyerID uuid.UUID) ([]messaging.Inquiry, error) {
	return s.store.FindInquiriesByBuyer(ctx, buyerID)
}

func (s *ConversationService) markRead(ctx context.Context, inquiry *messaging.Inquiry, actorID uuid.UUID) error {
	if err := s.store.MarkRead(ctx, inquiry.ID, actorID); err != nil {
		return err
	}
	if s.publisher != nil {
		if reader, err := s.userRepo.FindByID(ctx, actorID); err == nil {
			s.publisher.PublishRead(inquiry.ID, realtime.IdentityFromUser(reader))
		}
	}
	return nil
}
