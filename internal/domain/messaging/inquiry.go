package messaging

import (
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// InquiryStatus represents the lifecycle state of an inquiry
type InquiryStatus string

const (
	InquiryStatusPending InquiryStatus = "pending"
	InquiryStatusClosed  InquiryStatus = "closed"
)

// Inquiry is a buyer-initiated conversation thread with a producer,
// optionally tied to a product. When ProductID is set, ProducerID is
// derived from the product's owner at creation; otherwise it is stored
// directly. Either way the authorized parties are exactly the buyer
// and the producer.
type Inquiry struct {
	shared.BaseAggregateRoot
	ProductID         *uuid.UUID
	BuyerID           uuid.UUID
	ProducerID        uuid.UUID
	Message           string
	QuantityRequested int
	Status            InquiryStatus
}

// NewProductInquiry creates an inquiry about a specific product.
// producerID must be the product owner's id, resolved by the caller.
func NewProductInquiry(productID, buyerID, producerID uuid.UUID, message string, quantityRequested int) (*Inquiry, error) {
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inquiry message is required")
	}
	pid := productID
	return &Inquiry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         &pid,
		BuyerID:           buyerID,
		ProducerID:        producerID,
		Message:           strings.TrimSpace(message),
		QuantityRequested: quantityRequested,
		Status:            InquiryStatusPending,
	}, nil
}

// NewDirectInquiry creates a free-form inquiry to a producer with no product
func NewDirectInquiry(buyerID, producerID uuid.UUID, message string) (*Inquiry, error) {
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Inquiry message is required")
	}
	return &Inquiry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		ProducerID:        producerID,
		Message:           strings.TrimSpace(message),
		Status:            InquiryStatusPending,
	}, nil
}

// IsParty reports whether the given user is the inquiry's buyer or
// producer. Admin bypass is a policy decision left to callers so that
// authorization stays auditable at the call site.
func (i *Inquiry) IsParty(userID uuid.UUID) bool {
	return i.BuyerID == userID || i.ProducerID == userID
}

// Counterparty returns the other party of the inquiry relative to the
// given user. ok is false when the user is not a party at all.
func (i *Inquiry) Counterparty(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case i.BuyerID:
		return i.ProducerID, true
	case i.ProducerID:
		return i.BuyerID, true
	}
	return uuid.Nil, false
}
