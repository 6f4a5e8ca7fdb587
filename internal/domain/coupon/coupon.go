package coupon

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCoupon is returned when a coupon code is unknown or inactive.
// It is recoverable: callers surface "Invalid coupon code" and leave the
// order untouched.
var ErrInvalidCoupon = errors.New("invalid coupon code")

// Coupon is a named discount amount attachable to an order by code.
// Reference data: attaching a coupon never consumes or expires it.
type Coupon struct {
	Code   string
	Amount decimal.Decimal
	Active bool
}

// Repository provides coupon lookups and writes.
type Repository interface {
	// FindByCode returns the active coupon with exactly this code, or
	// ErrInvalidCoupon when no such coupon exists.
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Upsert(ctx context.Context, c Coupon) error
}
