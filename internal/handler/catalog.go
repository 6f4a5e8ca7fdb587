package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/catalog"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("categories")
		e.ArrStart()
		for _, c := range categories {
			e.ObjStart()
			e.FieldStart("title")
			e.Str(c.Title)
			e.FieldStart("slug")
			e.Str(c.Slug)
			e.FieldStart("description")
			e.Str(c.Description)
			e.FieldStart("image")
			e.Str(h.imageURL(c.Image))
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	params := catalog.ListParams{
		CategorySlug: q.Get("category"),
		Page:         page,
	}

	if params.CategorySlug != "" {
		if _, err := h.catalog.FindCategoryBySlug(r.Context(), params.CategorySlug); err != nil {
			respondError(w, r, err)
			return
		}
	}

	pageResult, err := h.catalog.ListItems(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for _, item := range pageResult.Items {
			h.encodeItem(e, item, false)
		}
		e.ArrEnd()
		e.FieldStart("total")
		e.Int(pageResult.Total)
		e.FieldStart("page")
		e.Int(pageResult.Page)
		e.FieldStart("per_page")
		e.Int(pageResult.PerPage)
		e.ObjEnd()
	})
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.FindItemBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeItem(e, *item, true)
	})
}

// encodeItem writes one catalog item. The long description is listing noise,
// so it only appears on the detail view.
func (h *Handler) encodeItem(e *jx.Encoder, item catalog.Item, detail bool) {
	e.ObjStart()
	e.FieldStart("title")
	e.Str(item.Title)
	e.FieldStart("slug")
	e.Str(item.Slug)
	e.FieldStart("price")
	e.Str(item.Price.StringFixed(2))
	if item.Label != catalog.LabelNone {
		e.FieldStart("label")
		e.Str(string(item.Label))
	}
	e.FieldStart("stock_no")
	e.Str(item.StockNo)
	e.FieldStart("description_short")
	e.Str(item.DescriptionShort)
	if detail {
		e.FieldStart("description_long")
		e.Str(item.DescriptionLong)
	}
	e.FieldStart("image")
	e.Str(h.imageURL(item.Image))
	e.ObjEnd()
}
