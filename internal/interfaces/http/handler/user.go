package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/marketplace/backend/internal/application/identity"
)

// UserHandler handles the public user directory endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListProducers returns approved producers
func (h *UserHandler) ListProducers(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	producers, err := h.userService.ListProducers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]UserResponse, len(producers))
	for i, p := range producers {
		out[i] = userResponseFrom(p)
	}
	h.Success(c, out)
}
