package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/notify"
)

// User-facing notification texts.
const (
	MsgItemAdded       = "This item was added to your cart."
	MsgQuantityUpdated = "This item quantity was updated."
	MsgItemRemoved     = "Item was removed from your cart."
	MsgItemNotInCart   = "This item was not in your cart."
	MsgNoActiveOrder   = "You do not have an active order"
	MsgCouponAdded     = "Successfully added coupon"
	MsgInvalidCoupon   = "Invalid coupon code"
)

// Service implements the cart lifecycle: adding and removing items against
// the user's single open order, and attaching coupons to it.
type Service struct {
	catalog catalog.Repository
	orders  Repository
	coupons coupon.Repository
	sink    notify.Sink
}

// NewService creates a cart Service with the required dependencies.
func NewService(
	catalogRepo catalog.Repository,
	orders Repository,
	coupons coupon.Repository,
	sink notify.Sink,
) *Service {
	return &Service{
		catalog: catalogRepo,
		orders:  orders,
		coupons: coupons,
		sink:    sink,
	}
}

// AddToCart resolves the item by slug and adds one unit of it to the user's
// open order, creating the order when none exists. Repeated adds of the same
// item increment the existing line instead of creating a second one.
func (s *Service) AddToCart(ctx context.Context, userID, slug string) (*Order, error) {
	item, err := s.catalog.FindItemBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "find item %q", slug)
	}

	qty, err := s.orders.AddItem(ctx, userID, item.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "add item %q to cart", slug)
	}

	if qty == 1 {
		s.sink.Notify(ctx, notify.SeveritySuccess, MsgItemAdded)
	} else {
		s.sink.Notify(ctx, notify.SeverityInfo, MsgQuantityUpdated)
	}

	return s.orders.GetOpenOrder(ctx, userID)
}

// RemoveFromCart removes one unit of the item from the user's open order.
// The line is deleted when its quantity reaches zero. An item that is not in
// the cart is reported as a notification, not an error.
func (s *Service) RemoveFromCart(ctx context.Context, userID, slug string) (*Order, error) {
	item, err := s.catalog.FindItemBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "find item %q", slug)
	}

	order, err := s.orders.GetOpenOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveOrder) {
			s.sink.Notify(ctx, notify.SeverityError, MsgNoActiveOrder)
		}
		return nil, err
	}

	res, err := s.orders.RemoveItem(ctx, order.ID, item.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "remove item %q from cart", slug)
	}

	if !res.Found {
		s.sink.Notify(ctx, notify.SeverityInfo, MsgItemNotInCart)
		return order, nil
	}

	s.sink.Notify(ctx, notify.SeverityInfo, MsgItemRemoved)
	return s.orders.GetOpenOrder(ctx, userID)
}

// Summary returns the user's open order with lines and computed totals.
func (s *Service) Summary(ctx context.Context, userID string) (*Order, error) {
	order, err := s.orders.GetOpenOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveOrder) {
			s.sink.Notify(ctx, notify.SeverityInfo, MsgNoActiveOrder)
		}
		return nil, err
	}
	return order, nil
}

// ApplyCoupon looks up the submitted code and attaches the coupon to the
// user's open order, overwriting any previously attached coupon. An unknown
// code leaves the order untouched and is reported as a notification.
// Re-applying the same valid code is a no-op beyond the notification.
func (s *Service) ApplyCoupon(ctx context.Context, userID, code string) (*Order, error) {
	order, err := s.orders.GetOpenOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveOrder) {
			s.sink.Notify(ctx, notify.SeverityError, MsgNoActiveOrder)
		}
		return nil, err
	}

	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, coupon.ErrInvalidCoupon) {
			s.sink.Notify(ctx, notify.SeverityError, MsgInvalidCoupon)
			return order, nil
		}
		return nil, errors.Wrapf(err, "find coupon %q", code)
	}

	if err := s.orders.AttachCoupon(ctx, order.ID, c.Code); err != nil {
		return nil, errors.Wrapf(err, "attach coupon %q", code)
	}

	s.sink.Notify(ctx, notify.SeveritySuccess, MsgCouponAdded)
	return s.orders.GetOpenOrder(ctx, userID)
}
