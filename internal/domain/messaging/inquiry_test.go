package messaging

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductInquiry(t *testing.T) {
	productID := uuid.New()
	buyerID := uuid.New()
	producerID := uuid.New()

	inquiry, err := NewProductInquiry(productID, buyerID, producerID, "Do you deliver to Abuja?", 50)
	require.NoError(t, err)

	require.NotNil(t, inquiry.ProductID)
	assert.Equal(t, productID, *inquiry.ProductID)
	assert.Equal(t, buyerID, inquiry.BuyerID)
	assert.Equal(t, producerID, inquiry.ProducerID)
	assert.Equal(t, 50, inquiry.QuantityRequested)
	assert.Equal(t, InquiryStatusPending, inquiry.Status)

	_, err = NewProductInquiry(productID, buyerID, producerID, "   ", 1)
	assert.Error(t, err)
}

func TestNewDirectInquiry(t *testing.T) {
	buyerID := uuid.New()
	producerID := uuid.New()

	inquiry, err := NewDirectInquiry(buyerID, producerID, "Can you supply maize in bulk?")
	require.NoError(t, err)

	assert.Nil(t, inquiry.ProductID)
	assert.Equal(t, producerID, inquiry.ProducerID)
}

func TestInquiry_IsParty(t *testing.T) {
	buyerID := uuid.New()
	producerID := uuid.New()

	inquiry, err := NewDirectInquiry(buyerID, producerID, "hello")
	require.NoError(t, err)

	assert.True(t, inquiry.IsParty(buyerID))
	assert.True(t, inquiry.IsParty(producerID))
	assert.False(t, inquiry.IsParty(uuid.New()))
}

func TestInquiry_Counterparty(t *testing.T) {
	buyerID := uuid.New()
	producerID := uuid.New()

	inquiry, err := NewDirectInquiry(buyerID, producerID, "hello")
	require.NoError(t, err)

	other, ok := inquiry.Counterparty(buyerID)
	require.True(t, ok)
	assert.Equal(t, producerID, other)

	other, ok = inquiry.Counterparty(producerID)
	require.True(t, ok)
	assert.Equal(t, buyerID, other)

	_, ok = inquiry.Counterparty(uuid.New())
	assert.False(t, ok)
}
