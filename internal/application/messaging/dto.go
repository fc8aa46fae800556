package messaging

import (
	"github.com/google/uuid"
)

// CreateInquiryInput contains the input for opening an inquiry. When
// ProductID is set the producer is derived from the product's owner
// and ProducerID is ignored.
type CreateInquiryInput struct {
	BuyerID           uuid.UUID
	ProductID         *uuid.UUID
	ProducerID        uuid.UUID
	Message           string
	QuantityRequested int
}

// SendMessageInput contains the input for the REST send path
type SendMessageInput struct {
	InquiryID uuid.UUID
	SenderID  uuid.UUID
	Body      string
}
