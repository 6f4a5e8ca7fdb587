package checkout

import (
	"context"
	"sort"
	"strings"
	"time"
)

// AddressType distinguishes billing from shipping addresses.
type AddressType string

const (
	AddressBilling  AddressType = "B"
	AddressShipping AddressType = "S"
)

// BillingAddress is the postal address captured at checkout, linked 1:1 to
// the order it was submitted for. A new row is created on every submission;
// the order's link is replaced, prior rows are kept for audit.
type BillingAddress struct {
	ID               string
	UserID           string
	StreetAddress    string
	ApartmentAddress string
	Country          string
	Zip              string
	AddressType      AddressType
	CreatedAt        time.Time
}

// Repository persists billing addresses. CreateForOrder inserts the address
// and links it to the order in one transaction, so a created-but-unlinked
// address can never be observed.
type Repository interface {
	CreateForOrder(ctx context.Context, addr BillingAddress, orderID string) error
}

// FieldErrors maps field names to validation messages. Recoverable: the
// caller returns them to the form, nothing is persisted.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	names := make([]string, 0, len(e))
	for f := range e {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// Form is the raw checkout submission.
type Form struct {
	StreetAddress    string
	ApartmentAddress string
	Country          string
	Zip              string
	PaymentOption    string
}

// Requirements configures which optional address fields are mandatory.
// Street address is always required.
type Requirements struct {
	Country bool
	Zip     bool
}

// Validate checks the form's address fields and returns the validated
// billing address values, or FieldErrors listing every failing field.
func (f Form) Validate(req Requirements) (BillingAddress, FieldErrors) {
	errs := FieldErrors{}

	if strings.TrimSpace(f.StreetAddress) == "" {
		errs["street_address"] = "This field is required."
	}
	if req.Country && strings.TrimSpace(f.Country) == "" {
		errs["country"] = "This field is required."
	}
	if req.Zip && strings.TrimSpace(f.Zip) == "" {
		errs["zip"] = "This field is required."
	}

	if len(errs) > 0 {
		return BillingAddress{}, errs
	}

	return BillingAddress{
		StreetAddress:    f.StreetAddress,
		ApartmentAddress: f.ApartmentAddress,
		Country:          f.Country,
		Zip:              f.Zip,
		AddressType:      AddressBilling,
	}, nil
}
