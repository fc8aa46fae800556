package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	messagingapp "github.com/marketplace/backend/internal/application/messaging"
	shoppingapp "github.com/marketplace/backend/internal/application/shopping"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"github.com/marketplace/backend/internal/realtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

// testEnv wires the full HTTP stack against an in-memory database so
// handler tests exercise routing, middleware, services and persistence
// together.
type testEnv struct {
	t        *testing.T
	engine   *gin.Engine
	db       *gorm.DB
	users    identity.UserRepository
	registry *realtime.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, dto.RegisterValidations())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.CategoryModel{},
		&models.ProductModel{},
		&models.OrderModel{},
		&models.CommissionModel{},
		&models.InquiryModel{},
		&models.MessageModel{},
		&models.CartItemModel{},
		&models.WishlistItemModel{},
	))

	userRepo := persistence.NewGormUserRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	commissionRepo := persistence.NewGormCommissionRepository(db)
	conversationRepo := persistence.NewGormConversationRepository(db)
	cartRepo := persistence.NewGormCartRepository(db)
	wishlistRepo := persistence.NewGormWishlistRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-handlers",
		AccessTokenExpiration: time.Hour,
		Issuer:                "marketplace-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	registry := realtime.NewRegistry(nil)
	rtRouter := realtime.NewRouter(registry, conversationRepo, userRepo, productRepo, nil)
	notifier := realtime.NewNotifier(registry)

	resolver := identityapp.NewResolver(jwtService, blacklist, userRepo, nil)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, notifier, nil)
	userService := identityapp.NewUserService(userRepo, notifier, nil)
	productService := catalogapp.NewProductService(productRepo, userRepo, nil)
	categoryService := catalogapp.NewCategoryService(categoryRepo, nil)
	orderService := tradeapp.NewOrderService(orderRepo, commissionRepo, productRepo, userRepo, notifier, decimal.NewFromInt(10), nil)
	commissionService := tradeapp.NewCommissionService(commissionRepo, nil)
	conversationService := messagingapp.NewConversationService(conversationRepo, productRepo, userRepo, rtRouter, notifier, nil)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo, nil)
	wishlistService := shoppingapp.NewWishlistService(wishlistRepo, productRepo, nil)

	authMW := middleware.Auth(resolver, nil)
	adminOnly := middleware.RequireRoles(identity.RoleAdmin)

	engine := gin.New()
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.NewAuthRoutes(handler.NewAuthHandler(authService), authMW)).
		Register(router.NewCatalogRoutes(
			handler.NewProductHandler(productService),
			handler.NewCategoryHandler(categoryService),
			handler.NewUserHandler(userService),
			authMW, adminOnly,
		)).
		Register(router.NewTradeRoutes(handler.NewOrderHandler(orderService), authMW)).
		Register(router.NewShoppingRoutes(handler.NewCartHandler(cartService), handler.NewWishlistHandler(wishlistService), authMW)).
		Register(router.NewMessagingRoutes(handler.NewConversationHandler(conversationService), authMW)).
		Register(router.NewAdminRoutes(handler.NewAdminHandler(userService, commissionService, registry), authMW, adminOnly)).
		Setup()

	return &testEnv{
		t:        t,
		engine:   engine,
		db:       db,
		users:    userRepo,
		registry: registry,
	}
}

func (e *testEnv) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := decode(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "expected object payload, got %T", resp.Data)
	return data
}

func listOf(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	resp := decode(t, w)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok, "expected list payload, got %T", resp.Data)
	return items
}

// register creates an account through the API and returns its payload.
func (e *testEnv) register(username, role string) map[string]interface{} {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
		"role":     role,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return dataOf(e.t, w)
}

func (e *testEnv) login(username string) string {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": testPassword,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	token, ok := dataOf(e.t, w)["access_token"].(string)
	require.True(e.t, ok)
	require.NotEmpty(e.t, token)
	return token
}

// seedAdmin creates an admin directly in storage, as admins cannot
// self-register, and returns a logged-in token.
func (e *testEnv) seedAdmin(username string) string {
	e.t.Helper()
	admin, err := identity.NewUser(username, username+"@example.com", testPassword, identity.RoleAdmin)
	require.NoError(e.t, err)
	require.NoError(e.t, e.users.Save(context.Background(), admin))
	return e.login(username)
}

// newProducer registers a producer, approves it through the admin API
// and returns a logged-in token.
func (e *testEnv) newProducer(username, adminToken string) string {
	e.t.Helper()
	data := e.register(username, "producer")
	id, ok := data["id"].(string)
	require.True(e.t, ok)
	w := e.request(http.MethodPost, "/api/v1/admin/users/"+id+"/approve", adminToken, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return e.login(username)
}

func (e *testEnv) newBuyer(username string) string {
	e.t.Helper()
	e.register(username, "buyer")
	return e.login(username)
}

// createProduct makes a product through the API and returns its ID.
func (e *testEnv) createProduct(producerToken, name string) string {
	e.t.Helper()
	w := e.request(http.MethodPost, "/api/v1/products", producerToken, gin.H{
		"name":               name,
		"description":        "Fresh from the farm",
		"price":              "12.50",
		"unit":               "kg",
		"min_order_quantity": 2,
		"stock_quantity":     100,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	id, ok := dataOf(e.t, w)["id"].(string)
	require.True(e.t, ok)
	return id
}
