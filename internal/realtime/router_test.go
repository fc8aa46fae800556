package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	registry *Registry
	store    *mockConversationStore
	users    *mockUserRepository
	products *mockProductRepository
	router   *Router
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		registry: NewRegistry(nil),
		store:    &mockConversationStore{},
		users:    &mockUserRepository{},
		products: &mockProductRepository{},
	}
	f.router = NewRouter(f.registry, f.store, f.users, f.products, nil)
	return f
}

func domainUser(id Identity) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: id.ID},
		},
		Username: id.Username,
		Role:     id.Role,
	}
}

func testInquiry(t *testing.T, productID uuid.UUID, buyer, producer Identity) *messaging.Inquiry {
	t.Helper()
	inquiry, err := messaging.NewProductInquiry(productID, buyer.ID, producer.ID, "Is this available in bulk?", 50)
	require.NoError(t, err)
	return inquiry
}

func TestSendMessageFansOut(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	producer := producerIdentity()
	admin := adminIdentity()

	buyerConn := newFakeConn()
	producerConn := newFakeConn()
	adminConn := newFakeConn()
	f.registry.Register(buyerConn, buyer)
	f.registry.Register(producerConn, producer)
	f.registry.Register(adminConn, admin)

	productID := uuid.New()
	inquiry := testInquiry(t, productID, buyer, producer)
	// Producer has the thread open; buyer relies on the user topic.
	f.registry.Join(producerConn, ConversationTopic(inquiry.ID))

	saved := &messaging.Message{
		ID:        uuid.New(),
		InquiryID: inquiry.ID,
		SenderID:  buyer.ID,
		Body:      "Can you ship 50 bags by Friday?",
		CreatedAt: time.Now(),
	}
	f.store.On("FindInquiry", mock.Anything, inquiry.ID).Return(inquiry, nil)
	f.store.On("AppendAndMarkRead", mock.Anything, inquiry.ID, buyer.ID, saved.Body).Return(saved, nil)
	f.users.On("FindByID", mock.Anything, buyer.ID).Return(domainUser(buyer), nil)
	f.users.On("FindByID", mock.Anything, producer.ID).Return(domainUser(producer), nil)
	f.products.On("FindByID", mock.Anything, productID).Return(&catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: productID}},
		ProducerID:        producer.ID,
		Name:              "Premium Cocoa Beans",
	}, nil)

	err := f.router.SendMessage(context.Background(), buyerConn, SendMessagePayload{
		InquiryID: inquiry.ID,
		Message:   saved.Body,
	})
	require.NoError(t, err)

	// Room plus user topic means the producer sees it twice; clients
	// de-duplicate on message id.
	assert.Equal(t, 2, producerConn.received(EventNewMessage))
	assert.Equal(t, 1, buyerConn.received(EventNewMessage))
	assert.Equal(t, 1, adminConn.received(EventNewMessage))
	assert.Equal(t, 1, buyerConn.received(EventMessageSent))
	assert.Zero(t, producerConn.received(EventMessageSent), "ack is private to the sender")

	var payload NewMessagePayload
	decodePayload(t, producerConn, EventNewMessage, &payload)
	assert.Equal(t, saved.ID, payload.ID)
	assert.Equal(t, inquiry.ID, payload.InquiryID)
	assert.Equal(t, buyer.ID, payload.SenderID)
	assert.Equal(t, buyer.DisplayName, payload.SenderName)
	assert.Equal(t, identity.RoleBuyer, payload.SenderRole)
	assert.Equal(t, saved.Body, payload.Message)
	assert.False(t, payload.IsRead)
	assert.Equal(t, "Premium Cocoa Beans", payload.ProductName)
	assert.Equal(t, buyer.Username, payload.BuyerName)
	assert.Equal(t, producer.Username, payload.ProducerName)

	var ack MessageSentPayload
	decodePayload(t, buyerConn, EventMessageSent, &ack)
	assert.Equal(t, saved.ID, ack.MessageID)
	assert.Equal(t, "sent", ack.Status)

	f.store.AssertExpectations(t)
}

func TestSendMessageEmptyBodyRejected(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	conn := newFakeConn()
	f.registry.Register(conn, buyer)

	err := f.router.SendMessage(context.Background(), conn, SendMessagePayload{
		InquiryID: uuid.New(),
		Message:   "   ",
	})

	assert.ErrorIs(t, err, ErrEmptyMessage)
	f.store.AssertNotCalled(t, "AppendAndMarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageUnknownInquiry(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	conn := newFakeConn()
	f.registry.Register(conn, buyer)

	inquiryID := uuid.New()
	f.store.On("FindInquiry", mock.Anything, inquiryID).Return(nil, shared.ErrNotFound)

	err := f.router.SendMessage(context.Background(), conn, SendMessagePayload{
		InquiryID: inquiryID,
		Message:   "hello",
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSendMessageThirdPartyForbidden(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	producer := producerIdentity()
	intruder := Identity{ID: uuid.New(), Username: "lurker", Role: identity.RoleBuyer}

	conn := newFakeConn()
	f.registry.Register(conn, intruder)

	inquiry := testInquiry(t, uuid.New(), buyer, producer)
	f.store.On("FindInquiry", mock.Anything, inquiry.ID).Return(inquiry, nil)

	err := f.router.SendMessage(context.Background(), conn, SendMessagePayload{
		InquiryID: inquiry.ID,
		Message:   "let me in",
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.store.AssertNotCalled(t, "AppendAndMarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageUnregisteredConn(t *testing.T) {
	f := newRouterFixture()
	conn := newFakeConn()

	err := f.router.SendMessage(context.Background(), conn, SendMessagePayload{
		InquiryID: uuid.New(),
		Message:   "hello",
	})

	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestJoinConversationAuthorization(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	producer := producerIdentity()
	inquiry := testInquiry(t, uuid.New(), buyer, producer)
	f.store.On("FindInquiry", mock.Anything, inquiry.ID).Return(inquiry, nil)

	buyerConn := newFakeConn()
	f.registry.Register(buyerConn, buyer)
	require.NoError(t, f.router.JoinConversation(context.Background(), buyerConn, inquiry.ID))

	adminConn := newFakeConn()
	f.registry.Register(adminConn, adminIdentity())
	require.NoError(t, f.router.JoinConversation(context.Background(), adminConn, inquiry.ID))

	intruderConn := newFakeConn()
	f.registry.Register(intruderConn, Identity{ID: uuid.New(), Username: "lurker", Role: identity.RoleBuyer})
	err := f.router.JoinConversation(context.Background(), intruderConn, inquiry.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	f.registry.Broadcast(ConversationTopic(inquiry.ID), Event{Name: EventNewMessage, Payload: nil})
	assert.Equal(t, 1, buyerConn.received(EventNewMessage))
	assert.Equal(t, 1, adminConn.received(EventNewMessage))
	assert.Zero(t, intruderConn.received(EventNewMessage))

	f.router.LeaveConversation(buyerConn, inquiry.ID)
	f.registry.Broadcast(ConversationTopic(inquiry.ID), Event{Name: EventNewMessage, Payload: nil})
	assert.Equal(t, 1, buyerConn.received(EventNewMessage))
}

func TestMarkReadNotifiesRoomOnly(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	producer := producerIdentity()
	inquiry := testInquiry(t, uuid.New(), buyer, producer)

	readerConn := newFakeConn()
	roomConn := newFakeConn()
	awayConn := newFakeConn()
	f.registry.Register(readerConn, producer)
	f.registry.Register(roomConn, buyer)
	f.registry.Register(awayConn, buyer)
	f.registry.Join(readerConn, ConversationTopic(inquiry.ID))
	f.registry.Join(roomConn, ConversationTopic(inquiry.ID))

	f.store.On("MarkRead", mock.Anything, inquiry.ID, producer.ID).Return(nil)

	require.NoError(t, f.router.MarkRead(context.Background(), readerConn, inquiry.ID))

	assert.Equal(t, 1, roomConn.received(EventMessagesRead))
	assert.Zero(t, awayConn.received(EventMessagesRead), "read receipts go to the room, not user topics")

	var payload MessagesReadPayload
	decodePayload(t, roomConn, EventMessagesRead, &payload)
	assert.Equal(t, inquiry.ID, payload.InquiryID)
	assert.Equal(t, producer.ID, payload.ReadBy)
	assert.Equal(t, producer.DisplayName, payload.ReadByName)
}

func TestTypingExcludesSender(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	producer := producerIdentity()
	inquiryID := uuid.New()

	senderConn := newFakeConn()
	receiverConn := newFakeConn()
	f.registry.Register(senderConn, buyer)
	f.registry.Register(receiverConn, producer)
	f.registry.Join(senderConn, ConversationTopic(inquiryID))
	f.registry.Join(receiverConn, ConversationTopic(inquiryID))

	f.router.Typing(senderConn, TypingPayload{InquiryID: inquiryID, IsTyping: true})

	assert.Zero(t, senderConn.received(EventUserTyping))
	assert.Equal(t, 1, receiverConn.received(EventUserTyping))

	var payload UserTypingPayload
	decodePayload(t, receiverConn, EventUserTyping, &payload)
	assert.Equal(t, buyer.ID, payload.UserID)
	assert.True(t, payload.IsTyping)

	// Unregistered senders are dropped silently.
	f.router.Typing(newFakeConn(), TypingPayload{InquiryID: inquiryID, IsTyping: true})
	assert.Equal(t, 1, receiverConn.received(EventUserTyping))
}

func TestOnlineStatusBroadcastToRole(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	otherBuyer := Identity{ID: uuid.New(), Username: "buyer2", Role: identity.RoleBuyer}
	producer := producerIdentity()

	senderConn := newFakeConn()
	peerConn := newFakeConn()
	producerConn := newFakeConn()
	f.registry.Register(senderConn, buyer)
	f.registry.Register(peerConn, otherBuyer)
	f.registry.Register(producerConn, producer)

	f.router.OnlineStatus(senderConn, OnlineStatusPayload{IsOnline: false})

	assert.Equal(t, 1, peerConn.received(EventUserStatusChange))
	assert.Zero(t, producerConn.received(EventUserStatusChange), "status changes stay within the sender's role")

	var payload UserStatusChangePayload
	decodePayload(t, peerConn, EventUserStatusChange, &payload)
	assert.Equal(t, buyer.ID, payload.UserID)
	assert.False(t, payload.IsOnline)
	require.NotNil(t, payload.LastSeen)
}

func TestSendMessageEnrichmentDegradesGracefully(t *testing.T) {
	f := newRouterFixture()
	buyer := buyerIdentity()
	producer := producerIdentity()

	conn := newFakeConn()
	f.registry.Register(conn, buyer)

	inquiry, err := messaging.NewDirectInquiry(buyer.ID, producer.ID, "Do you take custom orders?")
	require.NoError(t, err)

	saved := &messaging.Message{
		ID:        uuid.New(),
		InquiryID: inquiry.ID,
		SenderID:  buyer.ID,
		Body:      "Do you take custom orders?",
		CreatedAt: time.Now(),
	}
	f.store.On("FindInquiry", mock.Anything, inquiry.ID).Return(inquiry, nil)
	f.store.On("AppendAndMarkRead", mock.Anything, inquiry.ID, buyer.ID, saved.Body).Return(saved, nil)
	// Party lookups fail; the send must still go through.
	f.users.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	require.NoError(t, f.router.SendMessage(context.Background(), conn, SendMessagePayload{
		InquiryID: inquiry.ID,
		Message:   saved.Body,
	}))

	var payload NewMessagePayload
	decodePayload(t, conn, EventNewMessage, &payload)
	assert.Empty(t, payload.ProductName, "direct inquiries carry no product")
	assert.Empty(t, payload.BuyerName)
	assert.Empty(t, payload.ProducerName)
	assert.Equal(t, buyer.DisplayName, payload.SenderName)
	f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
