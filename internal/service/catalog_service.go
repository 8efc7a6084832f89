package service

import (
	"context"
	"fmt"
	"time"

	"catalog-api/internal/cache"
	"catalog-api/internal/domain"
	"catalog-api/internal/notification"
	"catalog-api/internal/repository"
)

const categoryCacheKey = "categories"

// CatalogService defines the interface for product catalog business logic.
// Inputs are assumed validated at the transport boundary: pagination is
// 1-based and positive, stock levels are non-negative, bulk payloads are
// non-empty.
type CatalogService interface {
	List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, stock int) error
	CreateBulk(ctx context.Context, products []*domain.Product) error
	UpdateStockBulk(ctx context.Context, updates []domain.StockUpdate) error
	GetCategories(ctx context.Context) ([]*domain.Category, error)
}

type catalogService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	dispatcher    *notification.Dispatcher
	categoryCache *cache.Sliding[string, []*domain.Category]
}

// NewCatalogService creates a new instance of CatalogService. The service
// owns the category cache: it is created here and lives exactly as long
// as the service does.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	dispatcher *notification.Dispatcher,
	categoryTTL time.Duration,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		dispatcher:    dispatcher,
		categoryCache: cache.NewSliding[string, []*domain.Category](categoryTTL),
	}
}

// List returns one page of products matching the filter plus the total
// match count.
func (s *catalogService) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	return s.productRepo.List(ctx, filter, page, pageSize)
}

// GetByID returns the product with its category embedded, or nil when no
// such product exists.
func (s *catalogService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create stores a new product and announces it to topic subscribers. The
// announcement happens after the insert has committed and cannot fail the
// create.
func (s *catalogService) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.dispatcher.ProductCreated(product)
	return nil
}

// Update overwrites every field of an existing product. Partial updates
// are not supported; the ID never changes.
func (s *catalogService) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()
	return s.productRepo.Update(ctx, product)
}

// Delete removes a product permanently.
func (s *catalogService) Delete(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

// UpdateStock sets a product's stock level and notifies the stock
// subscriber. As with Create, the notification is fired only after the
// write succeeds and its outcome is reported separately.
func (s *catalogService) UpdateStock(ctx context.Context, id int64, stock int) error {
	if err := s.productRepo.UpdateStock(ctx, id, stock); err != nil {
		return err
	}

	s.dispatcher.StockChanged(id, stock)
	return nil
}

// CreateBulk inserts all products in one batch. Assigned IDs are not
// reported back and no per-product notifications are sent.
func (s *catalogService) CreateBulk(ctx context.Context, products []*domain.Product) error {
	now := time.Now()
	for _, product := range products {
		product.CreatedAt = now
		product.UpdatedAt = now
	}

	return s.productRepo.CreateBulk(ctx, products)
}

// UpdateStockBulk applies all stock changes in one batch.
func (s *catalogService) UpdateStockBulk(ctx context.Context, updates []domain.StockUpdate) error {
	return s.productRepo.UpdateStockBulk(ctx, updates)
}

// GetCategories returns the category list through the sliding cache.
// Categories never change through this service, so there is nothing to
// invalidate; the cache is a pure read-through accelerator.
func (s *catalogService) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryCache.GetOrLoad(ctx, categoryCacheKey, func(ctx context.Context) ([]*domain.Category, error) {
		return s.categoryRepo.List(ctx)
	})
}
