package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/postgres"
)

// startPostgres runs a throwaway PostgreSQL container and returns its
// connection string.
func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("storefront"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("get connection string: %w", err)
	}

	return container, connStr, nil
}

// newTestPool starts a container, applies migrations, and returns a pool with
// the decimal codec registered.
func newTestPool(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	container, connStr, err := startPostgres(ctx)
	if err != nil {
		return nil, nil, err
	}

	pool, err := postgres.NewPool(ctx, connStr)
	if err != nil {
		return container, nil, err
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return container, nil, err
	}

	return container, pool, nil
}

func fakeSlug() string {
	return strings.ToLower("x-" + uuid.NewString())
}

func fakeCategory() catalog.Category {
	return catalog.Category{
		ID:          gofakeit.UUID(),
		Title:       gofakeit.ProductName(),
		Slug:        fakeSlug(),
		Description: gofakeit.Sentence(6),
		Image:       "/categories/" + gofakeit.Word() + ".jpg",
		IsActive:    true,
	}
}

func fakeItem(categoryID string) catalog.Item {
	return catalog.Item{
		ID:               gofakeit.UUID(),
		Title:            gofakeit.ProductName(),
		Price:            decimal.NewFromFloat(gofakeit.Price(5, 300)).Round(2),
		CategoryID:       categoryID,
		Label:            catalog.LabelNone,
		Slug:             fakeSlug(),
		StockNo:          gofakeit.DigitN(6),
		DescriptionShort: gofakeit.Sentence(4),
		DescriptionLong:  gofakeit.Sentence(12),
		Image:            "/items/" + gofakeit.Word() + ".jpg",
		IsActive:         true,
	}
}
