package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents a create/update payload. On update the ID
// must match the path parameter.
type ProductRequest struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// StockRequest represents a single stock mutation payload
type StockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// BulkCreateRequest represents a batched product creation payload
type BulkCreateRequest struct {
	Products []ProductRequest `json:"products" validate:"min=1,dive"`
}

// StockUpdateRequest is one entry of a bulk stock update
type StockUpdateRequest struct {
	ID    int64 `json:"id" validate:"required,gt=0"`
	Stock int   `json:"stock" validate:"gte=0"`
}

// BulkStockRequest represents a batched stock update payload
type BulkStockRequest struct {
	Updates []StockUpdateRequest `json:"updates" validate:"min=1,dive"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductResponse represents a product with its category embedded
type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	CategoryID  int64             `json:"category_id"`
	Category    *CategoryResponse `json:"category,omitempty"`
	ImageURL    string            `json:"image_url"`
	Stock       int               `json:"stock"`
	IsAvailable bool              `json:"is_available"`
}

// ProductListResponse represents one page of products
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int               `json:"total"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Mutating routes go behind
// the API key middleware; reads stay public.
func (h *ProductHandler) RegisterRoutes(r chi.Router, apiKeyMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories", h.GetCategories)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			r.Post("/", h.Create)
			r.Post("/bulk", h.CreateBulk)
			r.Put("/stock/bulk", h.UpdateStockBulk)
			r.Put("/{id}", h.Update)
			r.Put("/{id}/stock", h.UpdateStock)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func toProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable(),
	}

	if p.Category != nil {
		resp.Category = &CategoryResponse{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			Description: p.Category.Description,
		}
	}

	return resp
}

func (r ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseListQuery extracts pagination and the optional filter set from
// query parameters.
func parseListQuery(r *http.Request) (repository.ProductFilter, int, int, error) {
	filter := repository.ProductFilter{}
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return filter, 0, 0, errors.New("page must be a positive integer")
		}
		page = parsed
	}

	pageSize := 10
	if raw := query.Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return filter, 0, 0, errors.New("page_size must be a positive integer")
		}
		pageSize = parsed
	}

	if raw := query.Get("category"); raw != "" {
		filter.Category = &raw
	}

	if raw := query.Get("min_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, 0, 0, errors.New("min_price must be a decimal number")
		}
		filter.MinPrice = &parsed
	}

	if raw := query.Get("max_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, 0, 0, errors.New("max_price must be a decimal number")
		}
		filter.MaxPrice = &parsed
	}

	if raw := query.Get("search"); raw != "" {
		filter.Search = &raw
	}

	if raw := query.Get("in_stock"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, 0, 0, errors.New("in_stock must be a boolean")
		}
		filter.InStock = &parsed
	}

	return filter, page, pageSize, nil
}

// List handles filtered, paginated product listing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, page, pageSize, err := parseListQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, total, err := h.catalogService.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	response := ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	for _, product := range products {
		response.Products = append(response.Products, toProductResponse(product))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetByID handles single product lookup
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	if product == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.toDomain()
	if err := h.catalogService.Create(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update handles full product replacement
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID != id {
		middleware.RespondWithError(w, http.StatusBadRequest, "ID mismatch")
		return
	}

	if err := h.catalogService.Update(r.Context(), req.toDomain()); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to update product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStock handles a single stock mutation. Negative stock is rejected
// here; the service and repository assume validated input.
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req StockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Stock validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalogService.UpdateStock(r.Context(), id, req.Stock); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to update stock", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update stock")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateBulk handles batched product creation. Empty batches are rejected
// here and never reach the repository.
func (h *ProductHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Bulk create validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products := make([]*domain.Product, 0, len(req.Products))
	for _, p := range req.Products {
		products = append(products, p.toDomain())
	}

	if err := h.catalogService.CreateBulk(r.Context(), products); err != nil {
		h.logger.Error("Failed to bulk create products", zap.Int("count", len(products)), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to bulk create products")
		return
	}

	h.logger.Info("Products bulk created", zap.Int("count", len(products)))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"created": len(products)})
}

// UpdateStockBulk handles batched stock updates
func (h *ProductHandler) UpdateStockBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkStockRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Bulk stock validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := make([]domain.StockUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, domain.StockUpdate{ProductID: u.ID, Stock: u.Stock})
	}

	if err := h.catalogService.UpdateStockBulk(r.Context(), updates); err != nil {
		h.logger.Error("Failed to bulk update stock", zap.Int("count", len(updates)), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to bulk update stock")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCategories returns the cached category list
func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.GetCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to get categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get categories")
		return
	}

	response := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}
