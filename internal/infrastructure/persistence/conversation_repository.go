package persistence

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormConversationRepository implements messaging.ConversationRepository
// using GORM. It is the single writer for inquiries and messages.
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// FindInquiry finds an inquiry by its ID
func (r *GormConversationRepository) FindInquiry(ctx context.Context, id uuid.UUID) (*messaging.Inquiry, error) {
	var model models.InquiryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateInquiry persists a new inquiry
func (r *GormConversationRepository) CreateInquiry(ctx context.Context, inquiry *messaging.Inquiry) error {
	var model models.InquiryModel
	model.FromDomain(inquiry)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindInquiriesByProduct lists inquiries about a product, newest first
func (r *GormConversationRepository) FindInquiriesByProduct(ctx context.Context, productID uuid.UUID) ([]messaging.Inquiry, error) {
	return r.findInquiries(ctx, "product_id = ?", productID)
}

// FindInquiriesByBuyer lists a buyer's inquiries, newest first
func (r *GormConversationRepository) FindInquiriesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]messaging.Inquiry, error) {
	return r.findInquiries(ctx, "buyer_id = ?", buyerID)
}

func (r *GormConversationRepository) findInquiries(ctx context.Context, cond string, arg any) ([]messaging.Inquiry, error) {
	var inquiryModels []models.InquiryModel
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Find(&inquiryModels).Error; err != nil {
		return nil, err
	}

	inquiries := make([]messaging.Inquiry, len(inquiryModels))
	for i, model := range inquiryModels {
		inquiries[i] = *model.ToDomain()
	}
	return inquiries, nil
}

// AppendMessage inserts a message into an inquiry's log
func (r *GormConversationRepository) AppendMessage(ctx context.Context, inquiryID, senderID uuid.UUID, body string) (*messaging.Message, error) {
	return r.append(r.db.WithContext(ctx), inquiryID, senderID, body)
}

// AppendAndMarkRead appends the sender's message and marks every other
// sender's message in the inquiry as read, in one transaction.
func (r *GormConversationRepository) AppendAndMarkRead(ctx context.Context, inquiryID, senderID uuid.UUID, body string) (*messaging.Message, error) {
	var msg *messaging.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		msg, err = r.append(tx, inquiryID, senderID, body)
		if err != nil {
			return err
		}
		return r.markRead(tx, inquiryID, senderID)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *GormConversationRepository) append(tx *gorm.DB, inquiryID, senderID uuid.UUID, body string) (*messaging.Message, error) {
	var count int64
	if err := tx.Model(&models.InquiryModel{}).Where("id = ?", inquiryID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, shared.ErrNotFound
	}

	model := models.MessageModel{
		ID:        uuid.New(),
		InquiryID: inquiryID,
		SenderID:  senderID,
		Body:      body,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&model).Error; err != nil {
		return nil, err
	}
	msg := model.ToDomain()
	return &msg, nil
}

// ListMessages returns the inquiry's messages ascending by creation time
func (r *GormConversationRepository) ListMessages(ctx context.Context, inquiryID uuid.UUID) ([]messaging.Message, error) {
	var messageModels []models.MessageModel
	if err := r.db.WithContext(ctx).
		Where("inquiry_id = ?", inquiryID).
		Order("created_at ASC").
		Find(&messageModels).Error; err != nil {
		return nil, err
	}

	msgs := make([]messaging.Message, len(messageModels))
	for i, model := range messageModels {
		msgs[i] = model.ToDomain()
	}
	return msgs, nil
}

// MarkRead marks all messages in the inquiry not sent by readerID as
// read. Idempotent.
func (r *GormConversationRepository) MarkRead(ctx context.Context, inquiryID, readerID uuid.UUID) error {
	return r.markRead(r.db.WithContext(ctx), inquiryID, readerID)
}

func (r *GormConversationRepository) markRead(tx *gorm.DB, inquiryID, readerID uuid.UUID) error {
	return tx.Model(&models.MessageModel{}).
		Where("inquiry_id = ? AND sender_id <> ? AND is_read = ?", inquiryID, readerID, false).
		Update("is_read", true).Error
}

// summaryRow is the scan target for the conversation overview query
type summaryRow struct {
	ID            uuid.UUID
	ProductID     *uuid.UUID
	BuyerID       uuid.UUID
	ProducerID    uuid.UUID
	CreatedAt     time.Time
	ProductName   *string
	LastMessage   *string
	LastMessageAt *time.Time
	UnreadCount   int64
}

// ListConversationsFor returns conversation summaries for every
// inquiry the user is a party to, ordered by last message time
// descending with message-less conversations last.
func (r *GormConversationRepository) ListConversationsFor(ctx context.Context, userID uuid.UUID) ([]messaging.ConversationSummary, error) {
	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.InquiryModel{}).
		Select(`inquiries.id, inquiries.product_id, inquiries.buyer_id, inquiries.producer_id, inquiries.created_at,
			products.name AS product_name,
			(SELECT body FROM messages WHERE messages.inquiry_id = inquiries.id ORDER BY messages.created_at DESC LIMIT 1) AS last_message,
			(SELECT created_at FROM messages WHERE messages.inquiry_id = inquiries.id ORDER BY messages.created_at DESC LIMIT 1) AS last_message_at,
			(SELECT COUNT(*) FROM messages WHERE messages.inquiry_id = inquiries.id AND messages.sender_id <> ? AND messages.is_read = ?) AS unread_count`,
			userID, false).
		Joins("LEFT JOIN products ON products.id = inquiries.product_id").
		Where("inquiries.buyer_id = ? OR inquiries.producer_id = ?", userID, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counterpartyNames, err := r.counterpartyNames(ctx, userID, rows)
	if err != nil {
		return nil, err
	}

	summaries := make([]messaging.ConversationSummary, len(rows))
	for i, row := range rows {
		counterpartyID := row.ProducerID
		if row.ProducerID == userID {
			counterpartyID = row.BuyerID
		}

		summary := messaging.ConversationSummary{
			InquiryID:        row.ID,
			ProductID:        row.ProductID,
			BuyerID:          row.BuyerID,
			ProducerID:       row.ProducerID,
			CounterpartyID:   counterpartyID,
			CounterpartyName: counterpartyNames[counterpartyID],
			LastMessageAt:    row.LastMessageAt,
			UnreadCount:      row.UnreadCount,
			CreatedAt:        row.CreatedAt,
		}
		if row.ProductName != nil {
			summary.ProductName = *row.ProductName
		}
		if row.LastMessage != nil {
			summary.LastMessage = *row.LastMessage
		}
		summaries[i] = summary
	}

	// Ordering in Go keeps the NULLS LAST semantics portable across
	// postgres and the sqlite test driver.
	sort.SliceStable(summaries, func(a, b int) bool {
		sa, sb := summaries[a], summaries[b]
		switch {
		case sa.LastMessageAt == nil && sb.LastMessageAt == nil:
			return sa.CreatedAt.After(sb.CreatedAt)
		case sa.LastMessageAt == nil:
			return false
		case sb.LastMessageAt == nil:
			return true
		default:
			return sa.LastMessageAt.After(*sb.LastMessageAt)
		}
	})
	return summaries, nil
}

// counterpartyNames resolves display names for the other party of each
// inquiry in one query
func (r *GormConversationRepository) counterpartyNames(ctx context.Context, userID uuid.UUID, rows []summaryRow) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		counterpartyID := row.ProducerID
		if row.ProducerID == userID {
			counterpartyID = row.BuyerID
		}
		if _, ok := seen[counterpartyID]; ok {
			continue
		}
		seen[counterpartyID] = struct{}{}
		ids = append(ids, counterpartyID)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	var userModels []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&userModels).Error; err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(userModels))
	for _, model := range userModels {
		names[model.ID] = model.ToDomain().DisplayName()
	}
	return names, nil
}

// UnreadCountFor returns the total number of unread messages addressed
// to the user across all their inquiries
func (r *GormConversationRepository) UnreadCountFor(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Joins("JOIN inquiries ON inquiries.id = messages.inquiry_id").
		Where("(inquiries.buyer_id = ? OR inquiries.producer_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
