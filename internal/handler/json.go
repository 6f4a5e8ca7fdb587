package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/checkout"
	"github.com/xenking/storefront/internal/notify"
)

// maxBodySize caps request bodies; the API only takes small JSON documents.
const maxBodySize = 1 << 16

// writeJSON encodes a response body built by fn and writes it with status.
func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	fn(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// encodeMessages appends the request's collected notifications as a
// "messages" field. Omitted when the request produced none.
func encodeMessages(r *http.Request, e *jx.Encoder) {
	b := notify.FromContext(r.Context())
	if b == nil || len(b.Messages()) == 0 {
		return
	}

	e.FieldStart("messages")
	e.ArrStart()
	for _, m := range b.Messages() {
		e.ObjStart()
		e.FieldStart("level")
		e.Str(string(m.Level))
		e.FieldStart("text")
		e.Str(m.Text)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// writeError writes the error envelope with the request's notifications.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		encodeMessages(r, e)
		e.ObjEnd()
	})
}

// writeFieldErrors reports form validation failures as 422 with a field map.
func writeFieldErrors(w http.ResponseWriter, r *http.Request, fields checkout.FieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(http.StatusUnprocessableEntity)
		e.FieldStart("message")
		e.Str("validation failed")
		e.FieldStart("fields")
		e.ObjStart()
		for name, msg := range fields {
			e.FieldStart(name)
			e.Str(msg)
		}
		e.ObjEnd()
		encodeMessages(r, e)
		e.ObjEnd()
	})
}

// writeNoActiveOrder redirects to the cart view with the notification body.
func writeNoActiveOrder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", "/api/cart")
	writeError(w, r, http.StatusSeeOther, cart.MsgNoActiveOrder)
}

// respondError maps domain errors to their HTTP shapes. Unmapped errors are
// logged and reported as 500 without leaking internals.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, cart.ErrNoActiveOrder):
		writeNoActiveOrder(w, r)
	default:
		var fields checkout.FieldErrors
		if errors.As(err, &fields) {
			writeFieldErrors(w, r, fields)
			return
		}

		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// readBody reads a size-capped request body.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}
