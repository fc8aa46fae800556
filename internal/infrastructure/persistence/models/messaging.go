package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/messaging"
)

// InquiryModel is the persistence model for the Inquiry domain entity.
type InquiryModel struct {
	AggregateModel
	ProductID         *uuid.UUID              `gorm:"type:uuid;index"`
	BuyerID           uuid.UUID               `gorm:"type:uuid;not null;index"`
	ProducerID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	Message           string                  `gorm:"type:text;not null"`
	QuantityRequested int                     `gorm:"not null;default:0"`
	Status            messaging.InquiryStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (InquiryModel) TableName() string {
	return "inquiries"
}

// ToDomain converts the persistence model to a domain Inquiry entity.
func (m *InquiryModel) ToDomain() *messaging.Inquiry {
	return &messaging.Inquiry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProductID:         m.ProductID,
		BuyerID:           m.BuyerID,
		ProducerID:        m.ProducerID,
		Message:           m.Message,
		QuantityRequested: m.QuantityRequested,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Inquiry entity.
func (m *InquiryModel) FromDomain(i *messaging.Inquiry) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.ProductID = i.ProductID
	m.BuyerID = i.BuyerID
	m.ProducerID = i.ProducerID
	m.Message = i.Message
	m.QuantityRequested = i.QuantityRequested
	m.Status = i.Status
}

// MessageModel is the persistence model for conversation messages.
// Messages are immutable rows; only the read flag may change.
type MessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InquiryID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_inquiry_created,priority:1"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Body      string    `gorm:"type:text;not null;column:body"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index:idx_messages_inquiry_created,priority:2"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message.
func (m *MessageModel) ToDomain() messaging.Message {
	return messaging.Message{
		ID:        m.ID,
		InquiryID: m.InquiryID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Message.
func (m *MessageModel) FromDomain(msg messaging.Message) {
	m.ID = msg.ID
	m.InquiryID = msg.InquiryID
	m.SenderID = msg.SenderID
	m.Body = msg.Body
	m.IsRead = msg.IsRead
	m.CreatedAt = msg.CreatedAt
}
