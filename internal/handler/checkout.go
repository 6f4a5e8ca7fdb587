package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/checkout"
)

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	body, err := readBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	var form checkout.Form
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "street_address":
			form.StreetAddress, err = d.Str()
		case "apartment_address":
			form.ApartmentAddress, err = d.Str()
		case "country":
			form.Country, err = d.Str()
		case "zip":
			form.Zip, err = d.Str()
		case "payment_option":
			form.PaymentOption, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkouts.Submit(r.Context(), id.UserID, form)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("ref_code")
		e.Str(result.Order.RefCode)
		e.FieldStart("total")
		e.Str(result.Order.Total().StringFixed(2))
		e.FieldStart("payment_option")
		e.Str(string(result.Option))
		e.FieldStart("redirect_url")
		e.Str(result.RedirectURL)
		encodeMessages(r, e)
		e.ObjEnd()
	})
}
