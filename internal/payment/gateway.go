// Package payment selects and invokes the external payment collaborators.
//
// The storefront never speaks a gateway protocol itself: submitting a
// checkout hands the customer a redirect URL into the processor's hosted
// flow. Finalization (marking the order as paid) happens out of band.
package payment

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/cart"
)

// Option is the single-character payment method selector submitted at
// checkout: "S" routes to the card processor, "P" to the wallet provider.
type Option string

const (
	OptionCard   Option = "S"
	OptionWallet Option = "P"
)

// ErrUnknownOption indicates a payment option outside the supported set.
// This is a caller/configuration defect, never recovered into a user-facing
// notification and never silently defaulted to one gateway.
var ErrUnknownOption = errors.New("unknown payment option")

// ParseOption validates a raw payment option value.
func ParseOption(s string) (Option, error) {
	switch Option(s) {
	case OptionCard, OptionWallet:
		return Option(s), nil
	default:
		return "", errors.Wrapf(ErrUnknownOption, "%q", s)
	}
}

// Gateway begins a hosted payment flow for an order and returns the URL the
// customer is redirected to.
type Gateway interface {
	Begin(ctx context.Context, o *cart.Order) (redirectURL string, err error)
}

// RedirectGateway builds hosted-checkout redirect URLs against a configured
// base URL, carrying the order's ref code and total as query parameters.
type RedirectGateway struct {
	baseURL string
}

// NewRedirectGateway creates a gateway for the given hosted-checkout base URL.
func NewRedirectGateway(baseURL string) *RedirectGateway {
	return &RedirectGateway{baseURL: baseURL}
}

// Begin implements Gateway.
func (g *RedirectGateway) Begin(_ context.Context, o *cart.Order) (string, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse gateway base URL %q", g.baseURL)
	}

	q := u.Query()
	q.Set("ref", o.RefCode)
	q.Set("amount", o.Total().StringFixed(2))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Selector dispatches a payment option to its gateway.
type Selector struct {
	card   Gateway
	wallet Gateway
}

// NewSelector creates a Selector over the two supported gateways.
func NewSelector(card, wallet Gateway) *Selector {
	return &Selector{card: card, wallet: wallet}
}

// ForOption returns the gateway for the given option.
func (s *Selector) ForOption(opt Option) (Gateway, error) {
	switch opt {
	case OptionCard:
		return s.card, nil
	case OptionWallet:
		return s.wallet, nil
	default:
		return nil, errors.Wrapf(ErrUnknownOption, "%q", opt)
	}
}
