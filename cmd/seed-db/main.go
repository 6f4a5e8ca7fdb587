// Command seed-db loads the catalog, a few starter coupons, and a default
// API key into the database. Safe to re-run: everything is upserted.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/postgres"
)

type categoryJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type itemJSON struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	Category         string          `json:"category"`
	Label            string          `json:"label"`
	Slug             string          `json:"slug"`
	StockNo          string          `json:"stock_no"`
	DescriptionShort string          `json:"description_short"`
	DescriptionLong  string          `json:"description_long"`
	Image            string          `json:"image"`
}

type catalogJSON struct {
	Categories []categoryJSON `json:"categories"`
	Items      []itemJSON     `json:"items"`
}

func main() {
	var (
		databaseURL  string
		catalogFile  string
		apiKey       string
		apiKeyUser   string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or STORE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyUser, "api-key-user", "seed-user", "user ID the seeded API key acts for")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STORE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or STORE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, apiKey, apiKeyUser, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, apiKey, apiKeyUser, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, postgres.NewCatalogRepository(pool), catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedCoupons(ctx, postgres.NewCouponRepository(pool)); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	if err := seedAPIKey(ctx, postgres.NewAPIKeyRepository(pool), apiKey, apiKeyUser, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedCatalog(ctx context.Context, repo *postgres.CatalogRepository, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var c catalogJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("upserting categories", slog.Int("count", len(c.Categories)))

	categoryIDs := make(map[string]string, len(c.Categories))
	for _, cat := range c.Categories {
		parsed, err := catalog.NewCategory(cat.ID, cat.Title, cat.Slug, cat.Description, cat.Image)
		if err != nil {
			return errors.Wrapf(err, "category %s", cat.ID)
		}
		if err := repo.UpsertCategory(ctx, parsed); err != nil {
			return err
		}
		categoryIDs[cat.Slug] = cat.ID

		slog.Info("upserted category", slog.String("slug", cat.Slug))
	}

	slog.Info("upserting items", slog.Int("count", len(c.Items)))

	for _, it := range c.Items {
		categoryID, ok := categoryIDs[it.Category]
		if !ok {
			return errors.Errorf("item %s references unknown category %q", it.ID, it.Category)
		}
		if _, err := catalog.ParseTitle(it.Title); err != nil {
			return errors.Wrapf(err, "item %s", it.ID)
		}
		if _, err := catalog.ParseSlug(it.Slug); err != nil {
			return errors.Wrapf(err, "item %s", it.ID)
		}

		if err := repo.UpsertItem(ctx, catalog.Item{
			ID:               it.ID,
			Title:            it.Title,
			Price:            it.Price,
			CategoryID:       categoryID,
			Label:            catalog.Label(it.Label),
			Slug:             it.Slug,
			StockNo:          it.StockNo,
			DescriptionShort: it.DescriptionShort,
			DescriptionLong:  it.DescriptionLong,
			Image:            it.Image,
			IsActive:         true,
		}); err != nil {
			return err
		}

		slog.Info("upserted item", slog.String("slug", it.Slug))
	}

	return nil
}

func seedCoupons(ctx context.Context, repo *postgres.CouponRepository) error {
	slog.Info("seeding starter coupons")

	coupons := []coupon.Coupon{
		{Code: "WELCOME10", Amount: decimal.NewFromInt(10), Active: true},
		{Code: "SUMMER15", Amount: decimal.NewFromInt(15), Active: true},
	}

	for _, c := range coupons {
		if err := repo.Upsert(ctx, c); err != nil {
			return err
		}

		slog.Info("upserted coupon", slog.String("code", c.Code))
	}

	return nil
}

func seedAPIKey(ctx context.Context, repo *postgres.APIKeyRepository, apiKey, userID, pepper string) error {
	slog.Info("seeding default API key", slog.String("user_id", userID))

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if err := repo.Insert(ctx, auth.APIKeyInfo{
		ID:      "default",
		KeyHash: keyHash,
		Name:    "Default test key",
		UserID:  userID,
		Scopes:  []string{"cart", "checkout"},
	}); err != nil {
		return errors.Wrap(err, "insert default API key")
	}

	return nil
}
