package domain

import (
	"context"
	"testing"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Pratos Principais": "pratos-principais",
		"Porções":           "porcoes",
		"  Sanduíches  ":    "sanduiches",
		"Bebidas & Sucos!":  "bebidas-sucos",
		"":                  "",
	}
	for input, want := range tests {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestMenuProductLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewMenuService(newFakeStore(), nil)
	category, err := svc.EnsureCategory(ctx, "Pratos Principais", 1)
	if err != nil {
		t.Fatalf("ensure category: %v", err)
	}
	again, err := svc.EnsureCategory(ctx, "Pratos Principais", 1)
	if err != nil {
		t.Fatalf("ensure category again: %v", err)
	}
	if again.ID != category.ID {
		t.Fatalf("expected same category id, got %d and %d", category.ID, again.ID)
	}

	product, err := svc.CreateProduct(ctx, ProductInput{
		CategoryID: ptr(category.ID),
		Name:       ptr("Escondidinho de Costela Defumada"),
		PriceCents: ptr(int64(3500)),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !product.Available || product.Category.Slug != "pratos-principais" {
		t.Fatalf("unexpected product: %+v", product)
	}

	_, err = svc.CreateProduct(ctx, ProductInput{
		CategoryID: ptr(category.ID),
		Name:       ptr("Escondidinho de Costela Defumada"),
		PriceCents: ptr(int64(3600)),
	})
	if apperrors.CodeOf(err) != apperrors.CodeProductNameConflict {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeProductNameConflict)
	}

	updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{PriceCents: ptr(int64(3900)), Available: ptr(false)})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.PriceCents != 3900 || updated.Available || updated.Name != product.Name {
		t.Fatalf("unexpected update: %+v", updated)
	}

	available, err := svc.ListProducts(ctx, ProductQuery{AvailableOnly: true})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(available) != 0 {
		t.Fatalf("expected unavailable product to be hidden, got %d", len(available))
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := svc.GetProduct(ctx, product.ID); apperrors.CodeOf(err) != apperrors.CodeProductNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewMenuService(newFakeStore(), nil)
	tests := []struct {
		name  string
		input ProductInput
		code  apperrors.Code
	}{
		{name: "no name", input: ProductInput{PriceCents: ptr(int64(100)), CategoryID: ptr(int64(1))}, code: apperrors.CodeProductNameRequired},
		{name: "blank name", input: ProductInput{Name: ptr(" "), PriceCents: ptr(int64(100)), CategoryID: ptr(int64(1))}, code: apperrors.CodeProductNameRequired},
		{name: "zero price", input: ProductInput{Name: ptr("Suco"), PriceCents: ptr(int64(0)), CategoryID: ptr(int64(1))}, code: apperrors.CodeProductInvalidPrice},
		{name: "no category", input: ProductInput{Name: ptr("Suco"), PriceCents: ptr(int64(100))}, code: apperrors.CodeCategoryInvalid},
		{name: "unknown category", input: ProductInput{Name: ptr("Suco"), PriceCents: ptr(int64(100)), CategoryID: ptr(int64(77))}, code: apperrors.CodeCategoryNotFound},
	}
	for _, tc := range tests {
		if _, err := svc.CreateProduct(ctx, tc.input); apperrors.CodeOf(err) != tc.code {
			t.Fatalf("%s: code = %s, want %s", tc.name, apperrors.CodeOf(err), tc.code)
		}
	}
}
