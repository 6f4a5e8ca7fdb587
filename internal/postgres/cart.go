package postgres

import (
	"context"
	"math/rand/v2"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/coupon"
)

const (
	getOpenOrderSQL = `SELECT o.id, o.user_id, o.ref_code, o.ordered, o.ordered_date,
			o.coupon_code, c.amount, o.billing_address_id
		FROM orders o
		LEFT JOIN coupons c ON c.code = o.coupon_code
		WHERE o.user_id = $1 AND NOT o.ordered`

	getOrderLinesSQL = `SELECT l.id, l.item_id, i.slug, i.title, i.price, l.quantity, l.ordered
		FROM order_items l
		JOIN items i ON i.id = l.item_id
		WHERE l.order_id = $1
		ORDER BY i.title`

	// Relies on the orders_one_open_per_user partial index: of two
	// concurrent creators one inserts, the other conflicts and falls
	// through to the select below.
	createOpenOrderSQL = `INSERT INTO orders (id, user_id, ref_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) WHERE NOT ordered DO NOTHING`

	getOpenOrderIDSQL = `SELECT id FROM orders WHERE user_id = $1 AND NOT ordered`

	// Same pattern against order_items_one_open_line: a second add of the
	// same item lands on the existing row and increments it.
	upsertLineSQL = `INSERT INTO order_items (id, order_id, user_id, item_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, item_id) WHERE NOT ordered
		DO UPDATE SET quantity = order_items.quantity + 1
		RETURNING quantity`

	decrementLineSQL = `UPDATE order_items
		SET quantity = quantity - 1
		WHERE order_id = $1 AND item_id = $2 AND NOT ordered AND quantity > 1
		RETURNING quantity`

	deleteLineSQL = `DELETE FROM order_items
		WHERE order_id = $1 AND item_id = $2 AND NOT ordered`

	attachCouponSQL = `UPDATE orders SET coupon_code = $2
		WHERE id = $1 AND NOT ordered`
)

var _ cart.Repository = (*OrderRepository)(nil)

// OrderRepository implements cart.Repository. All mutations run in a single
// transaction and lean on the partial unique indexes over open rows, so
// concurrent requests for the same user converge on one order and one line
// per item.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetOpenOrder returns the user's open order with its lines and attached
// coupon, or cart.ErrNoActiveOrder.
func (r *OrderRepository) GetOpenOrder(ctx context.Context, userID string) (*cart.Order, error) {
	var (
		o          cart.Order
		couponCode *string
		couponAmt  *decimal.Decimal
		addressID  *string
	)
	err := r.pool.QueryRow(ctx, getOpenOrderSQL, userID).Scan(
		&o.ID, &o.UserID, &o.RefCode, &o.Ordered, &o.OrderedDate,
		&couponCode, &couponAmt, &addressID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNoActiveOrder
		}
		return nil, errors.Wrap(err, "get open order")
	}

	if couponCode != nil {
		o.Coupon = &coupon.Coupon{Code: *couponCode, Amount: *couponAmt, Active: true}
	}
	if addressID != nil {
		o.BillingAddressID = *addressID
	}

	rows, err := r.pool.Query(ctx, getOrderLinesSQL, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "get order lines")
	}
	o.Lines, err = pgx.CollectRows(rows, scanLine)
	if err != nil {
		return nil, errors.Wrap(err, "scan order lines")
	}

	return &o, nil
}

// AddItem finds or creates the user's open order, then upserts a line for
// the item. It returns the line quantity after the operation.
func (r *OrderRepository) AddItem(ctx context.Context, userID, itemID string) (int, error) {
	var quantity int

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createOpenOrderSQL, uuid.NewString(), userID, newRefCode()); err != nil {
			return errors.Wrap(err, "create open order")
		}

		var orderID string
		if err := tx.QueryRow(ctx, getOpenOrderIDSQL, userID).Scan(&orderID); err != nil {
			return errors.Wrap(err, "select open order")
		}

		err := tx.QueryRow(ctx, upsertLineSQL, uuid.NewString(), orderID, userID, itemID).Scan(&quantity)
		if err != nil {
			return errors.Wrap(err, "upsert order line")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return quantity, nil
}

// RemoveItem decrements the open line by one, deleting it at zero.
func (r *OrderRepository) RemoveItem(ctx context.Context, orderID, itemID string) (cart.RemoveResult, error) {
	var res cart.RemoveResult

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, decrementLineSQL, orderID, itemID).Scan(&res.Quantity)
		if err == nil {
			res.Found = true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return errors.Wrap(err, "decrement order line")
		}

		// No line with quantity > 1; delete a single-unit line if present.
		tag, err := tx.Exec(ctx, deleteLineSQL, orderID, itemID)
		if err != nil {
			return errors.Wrap(err, "delete order line")
		}
		res.Found = tag.RowsAffected() > 0
		res.Quantity = 0
		return nil
	})
	if err != nil {
		return cart.RemoveResult{}, err
	}

	return res, nil
}

// AttachCoupon points the open order at the coupon, replacing any prior one.
func (r *OrderRepository) AttachCoupon(ctx context.Context, orderID, code string) error {
	tag, err := r.pool.Exec(ctx, attachCouponSQL, orderID, code)
	if err != nil {
		return errors.Wrap(err, "attach coupon")
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNoActiveOrder
	}
	return nil
}

func scanLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(&l.ID, &l.ItemID, &l.ItemSlug, &l.ItemTitle, &l.ItemPrice, &l.Quantity, &l.Ordered)
	return l, err
}

const refCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newRefCode returns a 20-character order reference code.
func newRefCode() string {
	b := make([]byte, 20)
	for i := range b {
		b[i] = refCodeAlphabet[rand.IntN(len(refCodeAlphabet))]
	}
	return string(b)
}
