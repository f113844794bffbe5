package domain

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category groups menu products.
type Category struct {
	ID           int64
	Name         string
	Slug         string
	DisplayOrder int
}

// Product is one menu entry. Price changes never touch existing line items.
type Product struct {
	ID          int64
	CategoryID  int64
	Category    Category
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Available   bool
	Ingredients string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductQuery narrows a product listing.
type ProductQuery struct {
	CategoryID    int64
	AvailableOnly bool
}

// ProductInput carries product fields. Nil pointers are left unchanged on
// update; on create Name, PriceCents and CategoryID are required and a nil
// Available means true.
type ProductInput struct {
	CategoryID  *int64
	Name        *string
	Description *string
	PriceCents  *int64
	ImageURL    *string
	Available   *bool
	Ingredients *string
}

// Slugify lowercases name, strips accents and joins words with hyphens.
func Slugify(name string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// MenuService manages the catalog.
type MenuService struct {
	store MenuStore
	clock func() time.Time
}

// NewMenuService constructs menu use-cases.
func NewMenuService(store MenuStore, clock func() time.Time) *MenuService {
	if clock == nil {
		clock = time.Now
	}
	return &MenuService{store: store, clock: clock}
}

// ListCategories returns categories in display order.
func (s *MenuService) ListCategories(ctx context.Context) ([]Category, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// EnsureCategory creates the category or updates it in place, keyed by slug.
func (s *MenuService) EnsureCategory(ctx context.Context, name string, displayOrder int) (Category, error) {
	if s == nil || s.store == nil {
		return Category{}, ErrStoreNotConfigured
	}
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return Category{}, apperrors.Validation(apperrors.CodeCategoryInvalid, "name", "category name is required")
	}
	category, err := s.store.PutCategory(ctx, Category{Name: name, Slug: slug, DisplayOrder: displayOrder})
	if err != nil {
		return Category{}, storeError("put category", err)
	}
	return category, nil
}

// ListProducts returns products, newest first.
func (s *MenuService) ListProducts(ctx context.Context, query ProductQuery) ([]Product, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	products, err := s.store.ListProducts(ctx, query)
	if err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

// GetProduct loads one product.
func (s *MenuService) GetProduct(ctx context.Context, id int64) (Product, error) {
	if s == nil || s.store == nil {
		return Product{}, ErrStoreNotConfigured
	}
	if id <= 0 {
		return Product{}, invalidProductID()
	}
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, productStoreError("get product", err)
	}
	return product, nil
}

// CreateProduct validates and stores a new product.
func (s *MenuService) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	if s == nil || s.store == nil {
		return Product{}, ErrStoreNotConfigured
	}
	if input.Name == nil {
		return Product{}, apperrors.Validation(apperrors.CodeProductNameRequired, "name", "product name is required")
	}
	if input.PriceCents == nil {
		return Product{}, apperrors.Validation(apperrors.CodeProductInvalidPrice, "priceInCents", "price must be greater than zero")
	}
	if input.CategoryID == nil {
		return Product{}, apperrors.Validation(apperrors.CodeCategoryInvalid, "categoryId", "category id is required")
	}
	now := s.nowUTC()
	product := Product{Available: true, CreatedAt: now}
	if err := s.applyInput(ctx, &product, input); err != nil {
		return Product{}, err
	}
	product.UpdatedAt = now

	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return Product{}, productStoreError("create product", err)
	}
	log.Printf("product created id=%d name=%q price_cents=%d", created.ID, created.Name, created.PriceCents)
	return created, nil
}

// UpdateProduct applies the non-nil fields of input.
func (s *MenuService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (Product, error) {
	if s == nil || s.store == nil {
		return Product{}, ErrStoreNotConfigured
	}
	if id <= 0 {
		return Product{}, invalidProductID()
	}
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, productStoreError("get product", err)
	}
	if err := s.applyInput(ctx, &product, input); err != nil {
		return Product{}, err
	}
	product.UpdatedAt = s.nowUTC()
	updated, err := s.store.UpdateProduct(ctx, product)
	if err != nil {
		return Product{}, productStoreError("update product", err)
	}
	return updated, nil
}

// DeleteProduct removes a product. Past orders keep their snapshots.
func (s *MenuService) DeleteProduct(ctx context.Context, id int64) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	if id <= 0 {
		return invalidProductID()
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return productStoreError("delete product", err)
	}
	return nil
}

func (s *MenuService) applyInput(ctx context.Context, product *Product, input ProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return apperrors.Validation(apperrors.CodeProductNameRequired, "name", "product name is required")
		}
		product.Name = name
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return apperrors.Validation(apperrors.CodeProductInvalidPrice, "priceInCents", "price must be greater than zero")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.CategoryID != nil {
		if *input.CategoryID <= 0 {
			return apperrors.Validation(apperrors.CodeCategoryInvalid, "categoryId", "category id must be positive")
		}
		category, err := s.store.GetCategory(ctx, *input.CategoryID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return apperrors.NotFound(apperrors.CodeCategoryNotFound, "category not found")
			}
			return storeError("get category", err)
		}
		product.CategoryID = category.ID
		product.Category = category
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Ingredients != nil {
		product.Ingredients = strings.TrimSpace(*input.Ingredients)
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	return nil
}

func (s *MenuService) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func invalidProductID() error {
	return apperrors.Validation(apperrors.CodeProductInvalidID, "id", "product id must be a positive integer")
}

func productStoreError(operation string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.NotFound(apperrors.CodeProductNotFound, "product not found")
	case errors.Is(err, ErrConflict):
		return apperrors.New(apperrors.CodeProductNameConflict, "a product with this name already exists")
	default:
		return storeError(operation, err)
	}
}
