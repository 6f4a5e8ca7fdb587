package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/catalog"
)

const (
	listCategoriesSQL = `SELECT id, title, slug, description, image, is_active
		FROM categories WHERE is_active ORDER BY title`

	getCategoryBySlugSQL = `SELECT id, title, slug, description, image, is_active
		FROM categories WHERE slug = $1 AND is_active`

	itemColumns = `i.id, i.title, i.price, i.category_id, i.label, i.slug,
		i.stock_no, i.description_short, i.description_long, i.image, i.is_active`

	listItemsSQL = `SELECT ` + itemColumns + `
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.is_active AND ($1 = '' OR c.slug = $1)
		ORDER BY i.title
		LIMIT $2 OFFSET $3`

	countItemsSQL = `SELECT count(*)
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.is_active AND ($1 = '' OR c.slug = $1)`

	getItemBySlugSQL = `SELECT ` + itemColumns + `
		FROM items i WHERE i.slug = $1 AND i.is_active`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
// Only active rows are surfaced; inactive items and categories read as absent.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListCategories returns all active categories ordered by title.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return pgx.CollectRows(rows, scanCategory)
}

// FindCategoryBySlug returns the active category with the given slug.
func (r *CatalogRepository) FindCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	rows, err := r.pool.Query(ctx, getCategoryBySlugSQL, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "get category %q", slug)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get category %q", slug)
	}
	return &c, nil
}

// ListItems returns one page of active items, optionally filtered by
// category slug.
func (r *CatalogRepository) ListItems(ctx context.Context, params catalog.ListParams) (catalog.ItemPage, error) {
	params = params.Normalize()
	offset := (params.Page - 1) * params.PerPage

	rows, err := r.pool.Query(ctx, listItemsSQL, params.CategorySlug, params.PerPage, offset)
	if err != nil {
		return catalog.ItemPage{}, errors.Wrap(err, "list items")
	}

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return catalog.ItemPage{}, errors.Wrap(err, "scan items")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countItemsSQL, params.CategorySlug).Scan(&total); err != nil {
		return catalog.ItemPage{}, errors.Wrap(err, "count items")
	}

	return catalog.ItemPage{
		Items:   items,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

// FindItemBySlug returns the active item with the given slug, or
// catalog.ErrNotFound when absent or inactive.
func (r *CatalogRepository) FindItemBySlug(ctx context.Context, slug string) (*catalog.Item, error) {
	rows, err := r.pool.Query(ctx, getItemBySlugSQL, slug)
	if err != nil {
		return nil, errors.Wrapf(err, "get item %q", slug)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get item %q", slug)
	}
	return &item, nil
}

// UpsertCategory inserts or updates a category. Used by seeding.
func (r *CatalogRepository) UpsertCategory(ctx context.Context, c catalog.Category) error {
	const q = `INSERT INTO categories (id, title, slug, description, image, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, slug = EXCLUDED.slug,
			description = EXCLUDED.description, image = EXCLUDED.image,
			is_active = EXCLUDED.is_active`
	if _, err := r.pool.Exec(ctx, q, c.ID, c.Title, c.Slug, c.Description, c.Image, c.IsActive); err != nil {
		return errors.Wrapf(err, "upsert category %q", c.Slug)
	}
	return nil
}

// UpsertItem inserts or updates an item. Used by seeding.
func (r *CatalogRepository) UpsertItem(ctx context.Context, item catalog.Item) error {
	const q = `INSERT INTO items (id, title, price, category_id, label, slug,
			stock_no, description_short, description_long, image, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, price = EXCLUDED.price,
			category_id = EXCLUDED.category_id, label = EXCLUDED.label,
			slug = EXCLUDED.slug, stock_no = EXCLUDED.stock_no,
			description_short = EXCLUDED.description_short,
			description_long = EXCLUDED.description_long,
			image = EXCLUDED.image, is_active = EXCLUDED.is_active`
	_, err := r.pool.Exec(ctx, q,
		item.ID, item.Title, item.Price, item.CategoryID, string(item.Label), item.Slug,
		item.StockNo, item.DescriptionShort, item.DescriptionLong, item.Image, item.IsActive,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert item %q", item.Slug)
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Image, &c.IsActive)
	return c, err
}

func scanItem(row pgx.CollectableRow) (catalog.Item, error) {
	var (
		item  catalog.Item
		label string
	)
	err := row.Scan(
		&item.ID, &item.Title, &item.Price, &item.CategoryID, &label, &item.Slug,
		&item.StockNo, &item.DescriptionShort, &item.DescriptionLong, &item.Image, &item.IsActive,
	)
	item.Label = catalog.Label(label)
	return item, err
}
