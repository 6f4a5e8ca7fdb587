package postgres_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/postgres"
)

type apiKeyRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      *postgres.APIKeyRepository
	container testcontainers.Container
}

func TestAPIKeyRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed suite in short mode")
	}
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("github.com/testcontainers/testcontainers-go.(*Reaper).connect.func1"))

	suite.Run(t, new(apiKeyRepositorySuite))
}

func (s *apiKeyRepositorySuite) SetupSuite() {
	ctx := s.T().Context()

	var err error
	s.container, s.pool, err = newTestPool(ctx)
	s.Require().NoError(err)

	s.repo = postgres.NewAPIKeyRepository(s.pool)
}

func (s *apiKeyRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(s.T().Context()))
	}
}

func (s *apiKeyRepositorySuite) TestFindByHash() {
	t := s.T()
	ctx := t.Context()

	mac := hmac.New(sha256.New, []byte("pepper"))
	mac.Write([]byte("some-api-key"))
	hash := hex.EncodeToString(mac.Sum(nil))

	info := auth.APIKeyInfo{
		ID:      gofakeit.UUID(),
		KeyHash: hash,
		Name:    "test key",
		UserID:  gofakeit.UUID(),
		Scopes:  []string{"cart", "checkout"},
	}
	require.NoError(t, s.repo.Insert(ctx, info))

	got, err := s.repo.FindByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, info.UserID, got.UserID)
	assert.Equal(t, info.Scopes, got.Scopes)

	_, err = s.repo.FindByHash(ctx, "deadbeef")
	require.ErrorIs(t, err, postgres.ErrKeyNotFound)
}
