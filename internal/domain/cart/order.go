package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/coupon"
)

// ErrNoActiveOrder is returned when a cart operation requires an open order
// and the user has none. Recoverable: callers surface "You do not have an
// active order" and redirect to a safe view.
var ErrNoActiveOrder = errors.New("no active order")

// Line is a quantity of one item held in an order.
type Line struct {
	ID        string
	ItemID    string
	ItemSlug  string
	ItemTitle string
	ItemPrice decimal.Decimal
	Quantity  int
	Ordered   bool
}

// LineTotal returns price multiplied by quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.ItemPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the cart/checkout aggregate for one user. An order with
// Ordered=false is the user's open cart; at most one exists per user.
type Order struct {
	ID               string
	UserID           string
	RefCode          string
	Ordered          bool
	OrderedDate      time.Time
	Coupon           *coupon.Coupon
	BillingAddressID string
	Lines            []Line
}

// Subtotal sums line totals across the order.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Total returns the subtotal minus the attached coupon amount, floored at
// zero and rounded to 2 decimal places.
func (o *Order) Total() decimal.Decimal {
	total := o.Subtotal()
	if o.Coupon != nil {
		total = total.Sub(o.Coupon.Amount)
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2)
}

// RemoveResult reports the effect of removing one unit of an item.
type RemoveResult struct {
	// Found is false when the order had no open line for the item.
	Found bool
	// Quantity is the line quantity remaining after the decrement;
	// zero means the line was deleted.
	Quantity int
}

// Repository defines persistence for orders and their lines. Every mutation
// runs in a single transaction; find-or-create paths rely on partial unique
// indexes so concurrent requests cannot create duplicate open rows.
type Repository interface {
	// GetOpenOrder returns the user's open order with its lines, or
	// ErrNoActiveOrder when the user has none.
	GetOpenOrder(ctx context.Context, userID string) (*Order, error)

	// AddItem finds or creates the user's open order and upserts a line for
	// the item, incrementing quantity when the line already exists. It
	// returns the resulting line quantity (1 means the line was created).
	AddItem(ctx context.Context, userID, itemID string) (int, error)

	// RemoveItem decrements the open line for the item by one, deleting the
	// line when the quantity reaches zero.
	RemoveItem(ctx context.Context, orderID, itemID string) (RemoveResult, error)

	// AttachCoupon sets the order's coupon reference, replacing any prior one.
	AttachCoupon(ctx context.Context, orderID, code string) error
}
