package router

import (
	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
)

// AuthRoutes wires authentication and profile endpoints
type AuthRoutes struct {
	handler *handler.AuthHandler
	auth    gin.HandlerFunc
}

// NewAuthRoutes creates the auth route registrar
func NewAuthRoutes(h *handler.AuthHandler, auth gin.HandlerFunc) *AuthRoutes {
	return &AuthRoutes{handler: h, auth: auth}
}

// RegisterRoutes implements RouteRegistrar
func (r *AuthRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/register", r.handler.Register)
	auth.POST("/login", r.handler.Login)
	auth.POST("/logout", r.auth, r.handler.Logout)
	auth.POST("/change-password", r.auth, r.handler.ChangePassword)

	profile := rg.Group("/profile", r.auth)
	profile.GET("", r.handler.GetProfile)
	profile.PUT("", r.handler.UpdateProfile)
}

// CatalogRoutes wires product, category and producer directory endpoints
type CatalogRoutes struct {
	products   *handler.ProductHandler
	categories *handler.CategoryHandler
	users      *handler.UserHandler
	auth       gin.HandlerFunc
	adminOnly  gin.HandlerFunc
}

// NewCatalogRoutes creates the catalog route registrar
func NewCatalogRoutes(
	products *handler.ProductHandler,
	categories *handler.CategoryHandler,
	users *handler.UserHandler,
	auth gin.HandlerFunc,
	adminOnly gin.HandlerFunc,
) *CatalogRoutes {
	return &CatalogRoutes{
		products:   products,
		categories: categories,
		users:      users,
		auth:       auth,
		adminOnly:  adminOnly,
	}
}

// RegisterRoutes implements RouteRegistrar
func (r *CatalogRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", r.products.List)
	products.GET("/:id", r.products.Get)
	products.POST("", r.auth, r.products.Create)
	products.PUT("/:id", r.auth, r.products.Update)
	products.DELETE("/:id", r.auth, r.products.Delete)

	rg.GET("/producer/products", r.auth, r.products.ListOwn)

	categories := rg.Group("/categories")
	categories.GET("", r.categories.List)
	categories.POST("", r.auth, r.adminOnly, r.categories.Create)

	rg.GET("/producers", r.users.ListProducers)
}

// TradeRoutes wires order endpoints
type TradeRoutes struct {
	handler *handler.OrderHandler
	auth    gin.HandlerFunc
}

// NewTradeRoutes creates the trade route registrar
func NewTradeRoutes(h *handler.OrderHandler, auth gin.HandlerFunc) *TradeRoutes {
	return &TradeRoutes{handler: h, auth: auth}
}

// RegisterRoutes implements RouteRegistrar
func (r *TradeRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders", r.auth)
	orders.POST("", r.handler.Create)
	orders.GET("", r.handler.List)
	orders.GET("/:id", r.handler.Get)
	orders.PUT("/:id/status", r.handler.UpdateStatus)

	rg.GET("/producer/orders", r.auth, r.handler.ListProducerOrders)
}

// ShoppingRoutes wires cart and wishlist endpoints
type ShoppingRoutes struct {
	cart     *handler.CartHandler
	wishlist *handler.WishlistHandler
	auth     gin.HandlerFunc
}

// NewShoppingRoutes creates the shopping route registrar
func NewShoppingRoutes(cart *handler.CartHandler, wishlist *handler.WishlistHandler, auth gin.HandlerFunc) *ShoppingRoutes {
	return &ShoppingRoutes{cart: cart, wishlist: wishlist, auth: auth}
}

// RegisterRoutes implements RouteRegistrar
func (r *ShoppingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart", r.auth)
	cart.POST("", r.cart.Add)
	cart.GET("", r.cart.List)
	cart.DELETE("/:id", r.cart.Remove)

	wishlist := rg.Group("/wishlist", r.auth)
	wishlist.POST("", r.wishlist.Add)
	wishlist.GET("", r.wishlist.List)
	wishlist.DELETE("/:id", r.wishlist.Remove)
}

// MessagingRoutes wires inquiry and conversation endpoints
type MessagingRoutes struct {
	handler *handler.ConversationHandler
	auth    gin.HandlerFunc
}

// NewMessagingRoutes creates the messaging route registrar
func NewMessagingRoutes(h *handler.ConversationHandler, auth gin.HandlerFunc) *MessagingRoutes {
	return &MessagingRoutes{handler: h, auth: auth}
}

// RegisterRoutes implements RouteRegistrar
func (r *MessagingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	inquiries := rg.Group("/inquiries", r.auth)
	inquiries.POST("", r.handler.CreateInquiry)
	inquiries.GET("/product/:id", r.handler.ListProductInquiries)
	inquiries.GET("/buyer/:id", r.handler.ListBuyerInquiries)

	conversations := rg.Group("/conversations", r.auth)
	conversations.GET("", r.handler.ListConversations)
	conversations.GET("/:id/messages", r.handler.GetMessages)
	conversations.POST("/:id/messages", r.handler.SendMessage)
	conversations.POST("/:id/mark-read", r.handler.MarkRead)

	rg.GET("/messages/unread-count", r.auth, r.handler.UnreadCount)
}

// AdminRoutes wires the admin-only endpoints
type AdminRoutes struct {
	handler   *handler.AdminHandler
	auth      gin.HandlerFunc
	adminOnly gin.HandlerFunc
}

// NewAdminRoutes creates the admin route registrar
func NewAdminRoutes(h *handler.AdminHandler, auth, adminOnly gin.HandlerFunc) *AdminRoutes {
	return &AdminRoutes{handler: h, auth: auth, adminOnly: adminOnly}
}

// RegisterRoutes implements RouteRegistrar
func (r *AdminRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", r.auth, r.adminOnly)
	admin.GET("/users", r.handler.ListUsers)
	admin.POST("/users/:id/approve", r.handler.ApproveUser)
	admin.GET("/commissions", r.handler.ListCommissions)
	admin.PUT("/commissions/:id/status", r.handler.UpdateCommissionStatus)
	admin.GET("/online-users", r.handler.OnlineUsers)
}
