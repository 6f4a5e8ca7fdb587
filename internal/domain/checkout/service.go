package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/notify"
	"github.com/xenking/storefront/internal/payment"
)

// Result is the outcome of a successful checkout submission: the order now
// carries a billing address and the customer is redirected into the selected
// payment flow. The order stays open until the payment collaborator confirms.
type Result struct {
	Order       *cart.Order
	Option      payment.Option
	RedirectURL string
}

// Service captures a billing address for the user's open order and
// dispatches to the selected payment gateway.
type Service struct {
	orders    cart.Repository
	addresses Repository
	gateways  *payment.Selector
	require   Requirements
	sink      notify.Sink
}

// NewService creates a checkout Service.
func NewService(
	orders cart.Repository,
	addresses Repository,
	gateways *payment.Selector,
	require Requirements,
	sink notify.Sink,
) *Service {
	return &Service{
		orders:    orders,
		addresses: addresses,
		gateways:  gateways,
		require:   require,
		sink:      sink,
	}
}

// Submit validates the checkout form, persists the billing address linked to
// the user's open order, and returns the payment redirect for the selected
// option. On validation failure nothing is persisted and FieldErrors is
// returned. An unrecognized payment option fails before any mutation.
func (s *Service) Submit(ctx context.Context, userID string, form Form) (*Result, error) {
	order, err := s.orders.GetOpenOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, cart.ErrNoActiveOrder) {
			s.sink.Notify(ctx, notify.SeverityError, cart.MsgNoActiveOrder)
		}
		return nil, err
	}

	opt, err := payment.ParseOption(form.PaymentOption)
	if err != nil {
		return nil, err
	}

	addr, fieldErrs := form.Validate(s.require)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	addr.ID = uuid.New().String()
	addr.UserID = userID

	if err := s.addresses.CreateForOrder(ctx, addr, order.ID); err != nil {
		return nil, errors.Wrap(err, "create billing address")
	}

	order, err = s.orders.GetOpenOrder(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "reload order")
	}

	gw, err := s.gateways.ForOption(opt)
	if err != nil {
		return nil, err
	}

	redirect, err := gw.Begin(ctx, order)
	if err != nil {
		return nil, errors.Wrapf(err, "begin %q payment", opt)
	}

	return &Result{
		Order:       order,
		Option:      opt,
		RedirectURL: redirect,
	}, nil
}
