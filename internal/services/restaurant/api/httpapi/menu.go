package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

type productRequest struct {
	CategoryID   *int64  `json:"categoryId"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	PriceInCents *int64  `json:"priceInCents"`
	ImageURL     *string `json:"imageUrl"`
	Available    *bool   `json:"available"`
	Ingredients  *string `json:"ingredients"`
}

func (req productRequest) input() domain.ProductInput {
	return domain.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceInCents,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
		Ingredients: req.Ingredients,
	}
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.deps.Menu.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryJSON, 0, len(categories))
	for _, category := range categories {
		out = append(out, presentCategory(category))
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	var query domain.ProductQuery
	if raw := strings.TrimSpace(params.Get("available")); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, apperrors.Validation(apperrors.CodeMalformedRequestBody, "available", "available must be true or false"))
			return
		}
		query.AvailableOnly = available
	}
	if raw := strings.TrimSpace(params.Get("categoryId")); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || categoryID <= 0 {
			writeError(w, r, apperrors.Validation(apperrors.CodeCategoryInvalid, "categoryId", "category id must be a positive integer"))
			return
		}
		query.CategoryID = categoryID
	}
	products, err := h.deps.Menu.ListProducts(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]productJSON, 0, len(products))
	for _, product := range products {
		out = append(out, presentProduct(product))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeProductInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.deps.Menu.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": presentProduct(product)})
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.deps.Menu.CreateProduct(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product": presentProduct(product)})
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeProductInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.deps.Menu.UpdateProduct(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": presentProduct(product)})
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeProductInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Menu.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
