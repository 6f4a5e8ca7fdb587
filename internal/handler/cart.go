package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/cart"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	order, err := h.carts.Summary(r.Context(), id.UserID)
	if err != nil {
		// The summary is the cart view itself; redirecting back here would
		// loop, so a missing order sends the client to the catalog instead.
		if errors.Is(err, cart.ErrNoActiveOrder) {
			w.Header().Set("Location", "/api/items")
			writeError(w, r, http.StatusSeeOther, cart.MsgNoActiveOrder)
			return
		}
		respondError(w, r, err)
		return
	}

	h.writeOrder(w, r, http.StatusOK, order)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	order, err := h.carts.AddToCart(r.Context(), id.UserID, r.PathValue("slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.writeOrder(w, r, http.StatusOK, order)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	order, err := h.carts.RemoveFromCart(r.Context(), id.UserID, r.PathValue("slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.writeOrder(w, r, http.StatusOK, order)
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	body, err := readBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	var code string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "code" {
			return d.Skip()
		}
		var err error
		code, err = d.Str()
		return err
	}); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.carts.ApplyCoupon(r.Context(), id.UserID, code)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.writeOrder(w, r, http.StatusOK, order)
}

// writeOrder encodes the cart view of an order: lines with computed totals,
// the attached coupon, and the notifications collected during the request.
func (h *Handler) writeOrder(w http.ResponseWriter, r *http.Request, status int, order *cart.Order) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("ref_code")
		e.Str(order.RefCode)

		e.FieldStart("lines")
		e.ArrStart()
		for _, l := range order.Lines {
			e.ObjStart()
			e.FieldStart("slug")
			e.Str(l.ItemSlug)
			e.FieldStart("title")
			e.Str(l.ItemTitle)
			e.FieldStart("price")
			e.Str(l.ItemPrice.StringFixed(2))
			e.FieldStart("quantity")
			e.Int(l.Quantity)
			e.FieldStart("line_total")
			e.Str(l.LineTotal().StringFixed(2))
			e.ObjEnd()
		}
		e.ArrEnd()

		if order.Coupon != nil {
			e.FieldStart("coupon")
			e.ObjStart()
			e.FieldStart("code")
			e.Str(order.Coupon.Code)
			e.FieldStart("amount")
			e.Str(order.Coupon.Amount.StringFixed(2))
			e.ObjEnd()
		}

		e.FieldStart("subtotal")
		e.Str(order.Subtotal().StringFixed(2))
		e.FieldStart("total")
		e.Str(order.Total().StringFixed(2))

		encodeMessages(r, e)
		e.ObjEnd()
	})
}
