package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/checkout"
)

const (
	insertAddressSQL = `INSERT INTO billing_addresses
			(id, user_id, street_address, apartment_address, country, zip, address_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	linkAddressSQL = `UPDATE orders SET billing_address_id = $2
		WHERE id = $1 AND NOT ordered`
)

var _ checkout.Repository = (*AddressRepository)(nil)

// AddressRepository implements checkout.Repository backed by PostgreSQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// CreateForOrder inserts the address and links it to the open order in one
// transaction. Resubmitting checkout replaces the order's link; earlier
// address rows stay for audit.
func (r *AddressRepository) CreateForOrder(ctx context.Context, addr checkout.BillingAddress, orderID string) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertAddressSQL,
			addr.ID, addr.UserID, addr.StreetAddress, addr.ApartmentAddress,
			addr.Country, addr.Zip, string(addr.AddressType),
		)
		if err != nil {
			return errors.Wrap(err, "insert billing address")
		}

		tag, err := tx.Exec(ctx, linkAddressSQL, orderID, addr.ID)
		if err != nil {
			return errors.Wrap(err, "link billing address")
		}
		if tag.RowsAffected() == 0 {
			return cart.ErrNoActiveOrder
		}
		return nil
	})
}
