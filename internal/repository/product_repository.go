package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catalog-api/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// productColumns is the joined column list every read shares. Product
// columns come first, category columns after, in scan order.
const productColumns = `
	p.id, p.name, p.description, p.price, p.category_id, p.image_url, p.stock, p.created_at, p.updated_at,
	c.id, c.name, c.description, c.created_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, stock int) error
	CreateBulk(ctx context.Context, products []*domain.Product) error
	UpdateStockBulk(ctx context.Context, updates []domain.StockUpdate) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// scanProduct folds one joined row into a product with its category embedded.
func scanProduct(rows interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	product := &domain.Product{}
	category := &domain.Category{}

	err := rows.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.ImageURL,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Category = category
	return product, nil
}

// List retrieves a filtered, paginated page of products joined with their
// categories, plus the total number of rows matching the filter.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	where, args := filter.buildWhere(1)

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM products p
		INNER JOIN categories c ON p.category_id = c.id
		%s
	`, where)

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	limit, offset := paginate(page, pageSize)

	// ORDER BY p.id keeps page boundaries stable across requests.
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		INNER JOIN categories c ON p.category_id = c.id
		%s
		ORDER BY p.id
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// FindByID retrieves a product with its category by ID. Absence is a
// normal outcome: a missing row returns (nil, nil), not an error.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		INNER JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Create inserts a new product and writes the assigned ID back into it.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, category_id, image_url, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.ImageURL,
		product.Stock,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites every mutable field of an existing product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5,
		    image_url = $6, stock = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.ImageURL,
		product.Stock,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product. Hard delete, no tombstone.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateStock sets only the stock level of a product. Bounds are checked
// at the caller boundary before this is reached.
func (r *productRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	query := `UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, stock)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// CreateBulk inserts all products in a single statement inside one
// transaction: a mid-batch failure applies nothing. Assigned IDs are not
// written back; callers that need them must create products one at a time.
func (r *productRepository) CreateBulk(ctx context.Context, products []*domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	valueRows := make([]string, 0, len(products))
	args := make([]interface{}, 0, len(products)*8)

	for i, product := range products {
		base := i * 8
		valueRows = append(valueRows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args,
			product.Name,
			product.Description,
			product.Price,
			product.CategoryID,
			product.ImageURL,
			product.Stock,
			product.CreatedAt,
			product.UpdatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO products (name, description, price, category_id, image_url, stock, created_at, updated_at)
		VALUES %s
	`, strings.Join(valueRows, ", "))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk create products: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk create: %w", err)
	}

	return nil
}

// UpdateStockBulk applies every (id, stock) pair inside one transaction:
// either all updates land or none do.
func (r *productRepository) UpdateStockBulk(ctx context.Context, updates []domain.StockUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1`)
	if err != nil {
		return fmt.Errorf("failed to prepare stock update: %w", err)
	}
	defer stmt.Close()

	for _, update := range updates {
		if _, err := stmt.ExecContext(ctx, update.ProductID, update.Stock); err != nil {
			return fmt.Errorf("failed to update stock for product %d: %w", update.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk stock update: %w", err)
	}

	return nil
}
