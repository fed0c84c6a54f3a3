package handler

import (
	"net/http"

	"github.com/msomdec/auction-house/internal/view"
)

// HandleCategories renders the category index.
// GET /categories
func (h *ListingHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.auction.ListCategories(r.Context())
	if err != nil {
		serviceError(w, r, "list categories", err)
		return
	}
	render(w, r, http.StatusOK, view.CategoriesPage(view.CategoriesData{
		Layout:     layoutFor(w, r, "Categories"),
		Categories: categories,
	}))
}

// HandleCategory renders active listings in one category.
// GET /categories/{name}
func (h *ListingHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	page, err := h.auction.ListActive(r.Context(), name, pageParam(r))
	if err != nil {
		serviceError(w, r, "list category", err)
		return
	}
	h.renderGrid(w, r, "Category: "+name, page, "No active listings in this category.")
}
