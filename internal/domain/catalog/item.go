package catalog

import "github.com/shopspring/decimal"

// Label marks an item as newly arrived or on sale.
type Label string

const (
	LabelNone Label = ""
	LabelNew  Label = "new"
	LabelSale Label = "sale"
)

// Item is a purchasable catalog entry. Items referenced by an order line are
// never deleted; retiring an item flips IsActive instead.
type Item struct {
	ID               string
	Title            string
	Price            decimal.Decimal
	CategoryID       string
	Label            Label
	Slug             string
	StockNo          string
	DescriptionShort string
	DescriptionLong  string
	Image            string
	IsActive         bool
}

// ListParams filters and paginates the item listing.
type ListParams struct {
	// CategorySlug restricts the listing to one category when non-empty.
	CategorySlug string
	// Page is 1-based. Values below 1 are treated as 1.
	Page int
	// PerPage caps page size. Zero means DefaultPerPage.
	PerPage int
}

// DefaultPerPage matches the storefront listing page size.
const DefaultPerPage = 10

// Normalize clamps paging values to usable defaults.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// ItemPage is one page of the catalog listing.
type ItemPage struct {
	Items   []Item
	Total   int
	Page    int
	PerPage int
}
