// Command coupon-ingest loads promo codes from large gzipped dump files into
// the coupons table. A code counts as genuine only when it appears in at
// least two of the dumps; single-file codes are treated as noise.
//
// The dumps are far too large to hold in memory, so ingestion runs in two
// streaming passes: pass 1 builds a bloom filter per file, pass 2 re-streams
// each file and collects codes that hit another file's filter.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/postgres"
)

const (
	bloomCapacity = 120_000_000
	bloomFPR      = 0.001
	numFiles      = 3
	progressEvery = 10_000_000
	minCodeLen    = 8
	maxCodeLen    = 10
)

// codeAmounts assigns discount amounts to known promo codes. Everything else
// that passes the two-file check gets defaultAmount.
var codeAmounts = map[string]decimal.Decimal{
	"BIRTHDAY": decimal.NewFromInt(25),
	"FIFTYOFF": decimal.NewFromInt(50),
	"OVER9000": decimal.NewFromInt(9),
	"HAPPYHRS": decimal.NewFromInt(18),
	"GNULINUX": decimal.NewFromInt(15),
}

var defaultAmount = decimal.NewFromInt(5)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing couponbase*.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("coupon ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("coupon ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	ing, err := newIngester(dataDir)
	if err != nil {
		return err
	}

	slog.Info("pass 1: building bloom filters", slog.Int("files", len(ing.files)))
	if err := ing.buildFilters(ctx); err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	slog.Info("pass 2: collecting shared codes")
	codes, err := ing.collectShared(ctx)
	if err != nil {
		return errors.Wrap(err, "collect shared codes")
	}
	slog.Info("shared codes found", slog.Int("count", len(codes)))

	if len(codes) == 0 {
		slog.Info("nothing to insert")
		return nil
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	return writeCoupons(ctx, postgres.NewCouponRepository(pool), codes)
}

// ingester runs the two-pass pipeline over a fixed set of dump files.
type ingester struct {
	files   []string
	filters []*bloom.BloomFilter
}

func newIngester(dataDir string) (*ingester, error) {
	files := make([]string, 0, numFiles)
	for i := 1; i <= numFiles; i++ {
		path := filepath.Join(dataDir, fmt.Sprintf("couponbase%d.gz", i))
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "check file %s", path)
		}
		files = append(files, path)
	}

	return &ingester{
		files:   files,
		filters: make([]*bloom.BloomFilter, len(files)),
	}, nil
}

// buildFilters streams every file once and fills a bloom filter per file.
func (ing *ingester) buildFilters(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range ing.files {
		g.Go(func() error {
			filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

			n, err := scanGzip(ctx, ing.files[i], func(code string) {
				filter.AddString(code)
			})
			if err != nil {
				return errors.Wrapf(err, "filter pass over %s", ing.files[i])
			}

			slog.Info("filter built", slog.String("file", ing.files[i]), slog.Uint64("codes", n))
			ing.filters[i] = filter
			return nil
		})
	}

	return g.Wait()
}

// collectShared re-streams every file, testing each code against the other
// files' filters, and returns the codes seen in at least two files. Presence
// is tracked as a per-file bitmask so the merge is a cheap OR.
func (ing *ingester) collectShared(ctx context.Context) ([]string, error) {
	perFile := make([]map[string]uint8, len(ing.files))

	g, ctx := errgroup.WithContext(ctx)
	for i := range ing.files {
		g.Go(func() error {
			seen := make(map[string]uint8)
			bit := uint8(1) << i

			n, err := scanGzip(ctx, ing.files[i], func(code string) {
				for j, f := range ing.filters {
					if j == i {
						continue
					}
					if f.TestString(code) {
						seen[code] |= bit
						break
					}
				}
			})
			if err != nil {
				return errors.Wrapf(err, "candidate pass over %s", ing.files[i])
			}

			slog.Info("candidates collected",
				slog.String("file", ing.files[i]),
				slog.Uint64("codes", n),
				slog.Int("candidates", len(seen)),
			)
			perFile[i] = seen
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]uint8)
	for _, seen := range perFile {
		for code, mask := range seen {
			merged[code] |= mask
		}
	}

	var shared []string
	for code, mask := range merged {
		if bits.OnesCount8(mask) >= 2 {
			shared = append(shared, code)
		}
	}
	return shared, nil
}

// scanGzip streams a gzipped file line by line, calling fn for every line of
// plausible code length, and returns the number of accepted lines.
func scanGzip(ctx context.Context, path string, fn func(code string)) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return 0, errors.Wrapf(err, "gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	var n uint64
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		code := scanner.Text()
		if len(code) < minCodeLen || len(code) > maxCodeLen {
			continue
		}

		fn(code)
		n++
		if n%progressEvery == 0 {
			slog.Info("scan progress", slog.String("file", path), slog.Uint64("codes", n))
		}
	}
	if err := scanner.Err(); err != nil {
		return n, errors.Wrapf(err, "scan %s", path)
	}

	return n, nil
}

// writeCoupons upserts all shared coupon codes with their assigned amounts.
func writeCoupons(ctx context.Context, repo *postgres.CouponRepository, codes []string) error {
	slog.Info("writing coupons", slog.Int("count", len(codes)))

	for i, code := range codes {
		amount, ok := codeAmounts[code]
		if !ok {
			amount = defaultAmount
		}

		if err := repo.Upsert(ctx, coupon.Coupon{
			Code:   code,
			Amount: amount,
			Active: true,
		}); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", code)
		}

		if (i+1)%1000 == 0 {
			slog.Info("write progress", slog.Int("written", i+1))
		}
	}

	return nil
}
