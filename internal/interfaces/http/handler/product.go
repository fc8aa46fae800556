package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest is the request body for listing a product
type CreateProductRequest struct {
	Name             string  `json:"name" binding:"required,min=2,max=200"`
	Description      string  `json:"description" binding:"max=2000"`
	CategoryID       *string `json:"category_id" binding:"omitempty,uuid"`
	Price            string  `json:"price" binding:"required,decimal"`
	Unit             string  `json:"unit" binding:"required,max=50"`
	MinOrderQuantity int     `json:"min_order_quantity" binding:"omitempty,min=1"`
	StockQuantity    int     `json:"stock_quantity" binding:"omitempty,min=0"`
	MainImageURL     string  `json:"main_image_url" binding:"omitempty,url"`
}

// UpdateProductRequest carries the editable product fields
type UpdateProductRequest struct {
	Name             string  `json:"name" binding:"required,min=2,max=200"`
	Description      string  `json:"description" binding:"max=2000"`
	CategoryID       *string `json:"category_id" binding:"omitempty,uuid"`
	Price            string  `json:"price" binding:"required,decimal"`
	MinOrderQuantity int     `json:"min_order_quantity" binding:"omitempty,min=1"`
	StockQuantity    int     `json:"stock_quantity" binding:"omitempty,min=0"`
	MainImageURL     string  `json:"main_image_url" binding:"omitempty,url"`
}

// ProductResponse is the outward product shape
type ProductResponse struct {
	ID               uuid.UUID             `json:"id"`
	ProducerID       uuid.UUID             `json:"producer_id"`
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	CategoryID       *uuid.UUID            `json:"category_id,omitempty"`
	Price            decimal.Decimal       `json:"price"`
	Unit             string                `json:"unit"`
	MinOrderQuantity int                   `json:"min_order_quantity"`
	StockQuantity    int                   `json:"stock_quantity"`
	MainImageURL     string                `json:"main_image_url,omitempty"`
	Status           catalog.ProductStatus `json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func productResponseFrom(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		ProducerID:       p.ProducerID,
		Name:             p.Name,
		Description:      p.Description,
		CategoryID:       p.CategoryID,
		Price:            p.Price,
		Unit:             p.Unit,
		MinOrderQuantity: p.MinOrderQuantity,
		StockQuantity:    p.StockQuantity,
		MainImageURL:     p.MainImageURL,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func productResponsesFrom(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = productResponseFrom(&products[i])
	}
	return out
}

// List returns active products, paginated
func (h *ProductHandler) List(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if category := c.Query("category_id"); category != "" {
		id, err := uuid.Parse(category)
		if err != nil {
			h.BadRequest(c, "Invalid category_id parameter")
			return
		}
		filter.Filters["category_id"] = id
	}

	page, err := h.productService.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, productResponsesFrom(page.Items), page.Total, page.Page, page.PageSize)
}

// Get returns a product by id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, productResponseFrom(product))
}

// Create lists a new product for the authenticated producer
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.BadRequest(c, "Invalid price")
		return
	}
	categoryID, ok := parseOptionalUUID(req.CategoryID)
	if !ok {
		h.BadRequest(c, "Invalid category_id")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), catalogapp.CreateProductInput{
		ProducerID:       middleware.CurrentUserID(c),
		Name:             req.Name,
		Description:      req.Description,
		CategoryID:       categoryID,
		Price:            price,
		Unit:             req.Unit,
		MinOrderQuantity: req.MinOrderQuantity,
		StockQuantity:    req.StockQuantity,
		MainImageURL:     req.MainImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, productResponseFrom(product))
}

// Update edits a product owned by the authenticated producer
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.BadRequest(c, "Invalid price")
		return
	}
	categoryID, ok := parseOptionalUUID(req.CategoryID)
	if !ok {
		h.BadRequest(c, "Invalid category_id")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), catalogapp.UpdateProductInput{
		ProductID:        id,
		ActorID:          middleware.CurrentUserID(c),
		Name:             req.Name,
		Description:      req.Description,
		CategoryID:       categoryID,
		Price:            price,
		MinOrderQuantity: req.MinOrderQuantity,
		StockQuantity:    req.StockQuantity,
		MainImageURL:     req.MainImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, productResponseFrom(product))
}

// Delete removes a product owned by the authenticated producer
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListOwn returns the authenticated producer's products
func (h *ProductHandler) ListOwn(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	products, err := h.productService.ListByProducer(c.Request.Context(), middleware.CurrentUserID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, productResponsesFrom(products))
}

func parseOptionalUUID(s *string) (*uuid.UUID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, false
	}
	return &id, true
}
