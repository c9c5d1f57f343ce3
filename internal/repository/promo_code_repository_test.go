package repository_test

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartpromo/internal/domain"
	"github.com/nikolayk812/cartpromo/internal/port"
	"github.com/nikolayk812/cartpromo/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"
)

type promoCodeRepositorySuite struct {
	suite.Suite

	repo      port.PromoCodeRepository
	pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

func TestPromoCodeRepositorySuite(t *testing.T) {
	suite.Run(t, new(promoCodeRepositorySuite))
}

func (suite *promoCodeRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error
	suite.container, suite.pool, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.repo = repository.NewPromoCode(suite.pool)
}

func (suite *promoCodeRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}

	suite.NoError(testcontainers.TerminateContainer(suite.container))
}

func (suite *promoCodeRepositorySuite) TestCreatePromoCode() {
	defer suite.deleteAll()

	tenantID := gofakeit.UUID()
	duplicate := randomPromoCode()

	tests := []struct {
		name      string
		tenantID  string
		promo     domain.PromoCode
		wantError error
	}{
		{
			name:     "create percent code: ok",
			tenantID: tenantID,
			promo:    duplicate,
		},
		{
			name:     "create fixed code with limits: ok",
			tenantID: tenantID,
			promo: func() domain.PromoCode {
				p := randomPromoCode()
				p.DiscountType = domain.DiscountFixed
				p.DiscountValue = decimal.RequireFromString("15.00")
				p.UsageLimit = ptr(3)
				p.MinPurchaseAmount = ptr(decimal.RequireFromString("100.00"))
				until := p.ValidFrom.Add(30 * 24 * time.Hour)
				p.ValidUntil = &until
				return p
			}(),
		},
		{
			name:     "create same code in another tenant: ok",
			tenantID: gofakeit.UUID(),
			promo:    duplicate,
		},
		{
			name:     "create duplicate code ignoring case: error",
			tenantID: tenantID,
			promo: func() domain.PromoCode {
				p := duplicate
				p.Code = strings.ToLower(p.Code)
				return p
			}(),
			wantError: domain.ErrBadRequest,
		},
		{
			name:      "create with empty tenant ID: error",
			tenantID:  "",
			promo:     randomPromoCode(),
			wantError: domain.ErrTenantIDEmpty,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			created, err := suite.repo.CreatePromoCode(ctx, tt.tenantID, tt.promo)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assertPromoCode(t, tt.promo, created)
			assert.Equal(t, tt.tenantID, created.TenantID)

			got, err := suite.repo.GetPromoCode(ctx, tt.tenantID, created.ID)
			require.NoError(t, err)
			assertPromoCode(t, tt.promo, got)
		})
	}
}

func (suite *promoCodeRepositorySuite) TestGetPromoCodeByCode() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tenantID := gofakeit.UUID()
	promo := randomPromoCode()
	promo.Code = "Summer25"

	created, err := suite.repo.CreatePromoCode(ctx, tenantID, promo)
	require.NoError(t, err)

	for _, code := range []string{"Summer25", "SUMMER25", "summer25"} {
		got, err := suite.repo.GetPromoCodeByCode(ctx, tenantID, code)
		require.NoError(t, err, code)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Summer25", got.Code)
	}

	_, err = suite.repo.GetPromoCodeByCode(ctx, gofakeit.UUID(), "SUMMER25")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = suite.repo.GetPromoCodeByCode(ctx, tenantID, "WINTER25")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *promoCodeRepositorySuite) TestListPromoCodes() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tenantID := gofakeit.UUID()
	now := time.Now().UTC()

	current := randomPromoCode()

	future := randomPromoCode()
	future.ValidFrom = now.Add(24 * time.Hour)

	expired := randomPromoCode()
	expired.ValidFrom = now.Add(-48 * time.Hour)
	expired.ValidUntil = ptr(now.Add(-24 * time.Hour))

	inactive := randomPromoCode()
	inactive.IsActive = false

	ids := map[string]int64{}
	for name, p := range map[string]domain.PromoCode{
		"current":  current,
		"future":   future,
		"expired":  expired,
		"inactive": inactive,
	} {
		created, err := suite.repo.CreatePromoCode(ctx, tenantID, p)
		require.NoError(t, err)
		ids[name] = created.ID
	}

	// noise from another tenant
	_, err := suite.repo.CreatePromoCode(ctx, gofakeit.UUID(), randomPromoCode())
	require.NoError(t, err)

	active, err := suite.repo.ListActivePromoCodes(ctx, tenantID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{ids["current"], ids["future"], ids["expired"]}, promoIDs(active))

	valid, err := suite.repo.ListValidPromoCodes(ctx, tenantID, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids["current"]}, promoIDs(valid))

	empty, err := suite.repo.ListActivePromoCodes(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func (suite *promoCodeRepositorySuite) TestDeactivatePromoCode() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tenantID := gofakeit.UUID()
	created, err := suite.repo.CreatePromoCode(ctx, tenantID, randomPromoCode())
	require.NoError(t, err)

	found, err := suite.repo.DeactivatePromoCode(ctx, gofakeit.UUID(), created.ID)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = suite.repo.DeactivatePromoCode(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := suite.repo.GetPromoCode(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, ok, err := suite.repo.RedeemPromoCode(ctx, tenantID, created.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func (suite *promoCodeRepositorySuite) TestRedeemPromoCode() {
	defer suite.deleteAll()

	now := time.Now().UTC()

	tests := []struct {
		name      string
		promo     func() domain.PromoCode
		at        time.Time
		wantOK    bool
		wantCount int
	}{
		{
			name:      "redeem unlimited code: ok",
			promo:     randomPromoCode,
			at:        now,
			wantOK:    true,
			wantCount: 1,
		},
		{
			name: "redeem exhausted code: rejected",
			promo: func() domain.PromoCode {
				p := randomPromoCode()
				p.UsageLimit = ptr(0)
				return p
			},
			at: now,
		},
		{
			name: "redeem before window: rejected",
			promo: func() domain.PromoCode {
				p := randomPromoCode()
				p.ValidFrom = now.Add(time.Hour)
				return p
			},
			at: now,
		},
		{
			name: "redeem at window end: ok",
			promo: func() domain.PromoCode {
				p := randomPromoCode()
				p.ValidUntil = ptr(now.Truncate(time.Second))
				return p
			},
			at:        now.Truncate(time.Second),
			wantOK:    true,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			tenantID := gofakeit.UUID()
			created, err := suite.repo.CreatePromoCode(ctx, tenantID, tt.promo())
			require.NoError(t, err)

			redeemed, ok, err := suite.repo.RedeemPromoCode(ctx, tenantID, created.ID, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantCount, redeemed.UsageCount)
			}

			got, err := suite.repo.GetPromoCode(ctx, tenantID, created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got.UsageCount)
		})
	}
}

func (suite *promoCodeRepositorySuite) TestRedeemPromoCode_Concurrent() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		usageLimit  int
		workers     int
		wantSuccess int64
	}{
		{
			name:        "single use code under contention: one winner",
			usageLimit:  1,
			workers:     10,
			wantSuccess: 1,
		},
		{
			name:        "limited code under contention: limit winners",
			usageLimit:  3,
			workers:     12,
			wantSuccess: 3,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			tenantID := gofakeit.UUID()
			promo := randomPromoCode()
			promo.UsageLimit = ptr(tt.usageLimit)

			created, err := suite.repo.CreatePromoCode(ctx, tenantID, promo)
			require.NoError(t, err)

			var (
				g         errgroup.Group
				successes atomic.Int64
			)
			for range tt.workers {
				g.Go(func() error {
					_, ok, err := suite.repo.RedeemPromoCode(ctx, tenantID, created.ID, time.Now())
					if ok {
						successes.Add(1)
					}
					return err
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, tt.wantSuccess, successes.Load())

			got, err := suite.repo.GetPromoCode(ctx, tenantID, created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.usageLimit, got.UsageCount)
		})
	}
}

func (suite *promoCodeRepositorySuite) deleteAll() {
	suite.NoError(truncateAll(suite.T().Context(), suite.pool))
}

func randomPromoCode() domain.PromoCode {
	return domain.PromoCode{
		Code:          strings.ToUpper(gofakeit.LetterN(8)),
		DiscountType:  domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(int64(gofakeit.IntRange(1, 50))),
		ValidFrom:     time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond),
		IsActive:      true,
	}
}

func promoIDs(promos []domain.PromoCode) []int64 {
	ids := make([]int64, 0, len(promos))
	for _, p := range promos {
		ids = append(ids, p.ID)
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
