package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	messagingapp "github.com/marketplace/backend/internal/application/messaging"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// ConversationHandler handles inquiry and conversation endpoints
type ConversationHandler struct {
	BaseHandler
	conversationService *messagingapp.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationService *messagingapp.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// CreateInquiryRequest is the request body for opening an inquiry
type CreateInquiryRequest struct {
	ProductID         *string `json:"product_id" binding:"omitempty,uuid"`
	ProducerID        string  `json:"producer_id" binding:"omitempty,uuid"`
	Message           string  `json:"message" binding:"required,max=4000"`
	QuantityRequested int     `json:"quantity_requested" binding:"omitempty,min=1"`
}

// SendMessageRequest is the request body for sending a message
type SendMessageRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// InquiryResponse is the outward inquiry shape
type InquiryResponse struct {
	ID                uuid.UUID               `json:"id"`
	ProductID         *uuid.UUID              `json:"product_id,omitempty"`
	BuyerID           uuid.UUID               `json:"buyer_id"`
	ProducerID        uuid.UUID               `json:"producer_id"`
	Message           string                  `json:"message"`
	QuantityRequested int                     `json:"quantity_requested,omitempty"`
	Status            messaging.InquiryStatus `json:"status"`
	CreatedAt         time.Time               `json:"created_at"`
}

// MessageResponse is the outward message shape
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	InquiryID uuid.UUID `json:"inquiry_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationResponse is the per-inquiry conversation digest
type ConversationResponse struct {
	InquiryID        uuid.UUID  `json:"inquiry_id"`
	ProductID        *uuid.UUID `json:"product_id,omitempty"`
	ProductName      string     `json:"product_name,omitempty"`
	CounterpartyID   uuid.UUID  `json:"counterparty_id"`
	CounterpartyName string     `json:"counterparty_name"`
	LastMessage      string     `json:"last_message,omitempty"`
	LastMessageAt    *time.Time `json:"last_message_at,omitempty"`
	UnreadCount      int64      `json:"unread_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

func inquiryResponseFrom(inq *messaging.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:                inq.ID,
		ProductID:         inq.ProductID,
		BuyerID:           inq.BuyerID,
		ProducerID:        inq.ProducerID,
		Message:           inq.Message,
		QuantityRequested: inq.QuantityRequested,
		Status:            inq.Status,
		CreatedAt:         inq.CreatedAt,
	}
}

func inquiryResponsesFrom(inquiries []messaging.Inquiry) []InquiryResponse {
	out := make([]InquiryResponse, len(inquiries))
	for i := range inquiries {
		out[i] = inquiryResponseFrom(&inquiries[i])
	}
	return out
}

func messageResponsesFrom(messages []messaging.Message) []MessageResponse {
	out := make([]MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = MessageResponse{
			ID:        m.ID,
			InquiryID: m.InquiryID,
			SenderID:  m.SenderID,
			Message:   m.Body,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}

// CreateInquiry opens an inquiry from the authenticated buyer
func (h *ConversationHandler) CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	productID, ok := parseOptionalUUID(req.ProductID)
	if !ok {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	var producerID uuid.UUID
	if req.ProducerID != "" {
		id, err := uuid.Parse(req.ProducerID)
		if err != nil {
			h.BadRequest(c, "Invalid producer_id")
			return
		}
		producerID = id
	}
	if productID == nil && producerID == uuid.Nil {
		h.BadRequest(c, "Either product_id or producer_id is required")
		return
	}

	inquiry, err := h.conversationService.CreateInquiry(c.Request.Context(), messagingapp.CreateInquiryInput{
		BuyerID:           middleware.CurrentUserID(c),
		ProductID:         productID,
		ProducerID:        producerID,
		Message:           req.Message,
		QuantityRequested: req.QuantityRequested,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inquiryResponseFrom(inquiry))
}

// ListProductInquiries returns inquiries about a product, owner only
func (h *ConversationHandler) ListProductInquiries(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	inquiries, err := h.conversationService.ListProductInquiries(c.Request.Context(), productID, middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inquiryResponsesFrom(inquiries))
}

// ListBuyerInquiries returns a buyer's open inquiries
func (h *ConversationHandler) ListBuyerInquiries(c *gin.Context) {
	buyerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if user.ID != buyerID && user.Role != identity.RoleAdmin {
		h.HandleError(c, shared.ErrForbidden)
		return
	}
	inquiries, err := h.conversationService.ListBuyerInquiries(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inquiryResponsesFrom(inquiries))
}

// ListConversations returns the caller's conversation digests
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	summaries, err := h.conversationService.ListConversations(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ConversationResponse, len(summaries))
	for i, s := range summaries {
		out[i] = ConversationResponse{
			InquiryID:        s.InquiryID,
			ProductID:        s.ProductID,
			ProductName:      s.ProductName,
			CounterpartyID:   s.CounterpartyID,
			CounterpartyName: s.CounterpartyName,
			LastMessage:      s.LastMessage,
			LastMessageAt:    s.LastMessageAt,
			UnreadCount:      s.UnreadCount,
			CreatedAt:        s.CreatedAt,
		}
	}
	h.Success(c, out)
}

// GetMessages returns a conversation's messages in send order and
// marks the counterparty's messages as read for party viewers
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	inquiryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	messages, err := h.conversationService.GetMessages(c.Request.Context(), inquiryID, user.ID, user.Role)
	if err != nil {
		h.handleConversationError(c, err)
		return
	}
	h.Success(c, messageResponsesFrom(messages))
}

// SendMessage appends a message to a conversation
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	inquiryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.conversationService.SendMessage(c.Request.Context(), messagingapp.SendMessageInput{
		InquiryID: inquiryID,
		SenderID:  middleware.CurrentUserID(c),
		Body:      req.Message,
	})
	if err != nil {
		h.handleConversationError(c, err)
		return
	}
	h.Created(c, MessageResponse{
		ID:        message.ID,
		InquiryID: message.InquiryID,
		SenderID:  message.SenderID,
		Message:   message.Body,
		IsRead:    message.IsRead,
		CreatedAt: message.CreatedAt,
	})
}

// MarkRead marks the counterparty's messages as read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	inquiryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.conversationService.MarkRead(c.Request.Context(), inquiryID, middleware.CurrentUserID(c)); err != nil {
		h.handleConversationError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Messages marked as read"})
}

// UnreadCount returns the caller's total unread message count
func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	count, err := h.conversationService.UnreadCount(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread_count": count})
}

// handleConversationError collapses forbidden and missing conversations
// into the same 404 so callers cannot probe for conversation existence.
func (h *ConversationHandler) handleConversationError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code == "FORBIDDEN" || domainErr.Code == "NOT_FOUND" {
			c.JSON(http.StatusNotFound,
				dto.NewErrorResponse(dto.ErrCodeNotFound, "Conversation not found"))
			return
		}
	}
	h.HandleError(c, err)
}
