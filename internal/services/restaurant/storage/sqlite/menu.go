package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

const productColumns = `p.id, p.category_id, c.name, c.slug, c.display_order, p.name, p.description,
p.price_cents, p.image_url, p.available, p.ingredients, p.created_at, p.updated_at`

// ListCategories returns every category in display order.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, slug, display_order
FROM categories
ORDER BY display_order, name
`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory loads one category.
func (s *Store) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Category{}, err
	}
	var category domain.Category
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, name, slug, display_order FROM categories WHERE id = ?", id,
	).Scan(&category.ID, &category.Name, &category.Slug, &category.DisplayOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// PutCategory inserts the category or updates the row that has its slug.
func (s *Store) PutCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Category{}, err
	}
	if strings.TrimSpace(category.Slug) == "" {
		return domain.Category{}, fmt.Errorf("category slug is required")
	}
	err := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO categories (name, slug, display_order)
VALUES (?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET
    name = excluded.name,
    display_order = excluded.display_order
RETURNING id
`, category.Name, category.Slug, category.DisplayOrder).Scan(&category.ID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("put category: %w", err)
	}
	return category, nil
}

// ListProducts returns products newest first with their categories.
func (s *Store) ListProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var (
		clauses []string
		params  []any
	)
	if query.CategoryID > 0 {
		clauses = append(clauses, "p.category_id = ?")
		params = append(params, query.CategoryID)
	}
	if query.AvailableOnly {
		clauses = append(clauses, "p.available = 1")
	}
	statement := "SELECT " + productColumns + " FROM products p JOIN categories c ON c.id = p.category_id"
	if len(clauses) > 0 {
		statement += " WHERE " + strings.Join(clauses, " AND ")
	}
	statement += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := s.sqlDB.QueryContext(ctx, statement, params...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetProduct loads one product with its category.
func (s *Store) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Product{}, err
	}
	return getProduct(ctx, s.sqlDB, id)
}

func getProduct(ctx context.Context, q queryer, id int64) (domain.Product, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id = ?", id)
	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// CreateProduct inserts a product. Duplicate names return domain.ErrConflict.
func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Product{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO products (
    category_id, name, description, price_cents, image_url, available, ingredients, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		product.CategoryID,
		product.Name,
		product.Description,
		product.PriceCents,
		product.ImageURL,
		product.Available,
		product.Ingredients,
		toMillis(product.CreatedAt),
		toMillis(product.UpdatedAt),
	)
	if err != nil {
		return domain.Product{}, productWriteError("insert product", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Product{}, fmt.Errorf("read product id: %w", err)
	}
	return getProduct(ctx, s.sqlDB, id)
}

// UpdateProduct overwrites every mutable column of product.
func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Product{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE products
SET category_id = ?, name = ?, description = ?, price_cents = ?, image_url = ?,
    available = ?, ingredients = ?, updated_at = ?
WHERE id = ?
`,
		product.CategoryID,
		product.Name,
		product.Description,
		product.PriceCents,
		product.ImageURL,
		product.Available,
		product.Ingredients,
		toMillis(product.UpdatedAt),
		product.ID,
	)
	if err != nil {
		return domain.Product{}, productWriteError("update product", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return getProduct(ctx, s.sqlDB, product.ID)
}

// DeleteProduct removes one product.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func productWriteError(operation string, err error) error {
	switch {
	case isUniqueConstraintError(err):
		return fmt.Errorf("%s: %w", operation, domain.ErrConflict)
	case isForeignKeyConstraintError(err):
		return fmt.Errorf("%s: category: %w", operation, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var (
		product   domain.Product
		createdAt int64
		updatedAt int64
	)
	if err := scan(
		&product.ID,
		&product.CategoryID,
		&product.Category.Name,
		&product.Category.Slug,
		&product.Category.DisplayOrder,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.ImageURL,
		&product.Available,
		&product.Ingredients,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Product{}, err
	}
	product.Category.ID = product.CategoryID
	product.CreatedAt = fromMillis(createdAt)
	product.UpdatedAt = fromMillis(updatedAt)
	return product, nil
}
