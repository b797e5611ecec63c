package repository

import (
	"context"
	"testing"
	"time"

	"farmFresh/entities"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func carrots() entities.Product {
	return entities.Product{
		Id:       "1",
		Name:     "Fresh Organic Carrots",
		Category: entities.CategoryVegetable,
		Price:    decimal.RequireFromString("2.99"),
		Unit:     "bunch",
		FarmName: "Green Valley Farm",
		Organic:  true,
		Quantity: 100,
		InStock:  true,
	}
}

func TestCartRepo_RoundTrip(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	repo, err := NewCartRepository(ctx, rdb, time.Hour, zap.NewNop())
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)
	assert.False(t, cart.IsOpen)

	cart.AddItem(carrots())
	cart.AddItem(carrots())
	cart.Toggle()
	require.NoError(t, repo.SetCart(ctx, "c1", cart))

	got, err := repo.GetCart(ctx, "c1")
	require.NoError(t, err)
	if diff := cmp.Diff(cart, got); diff != "" {
		t.Errorf("cart mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "5.98", got.TotalPrice().StringFixed(2))

	require.NoError(t, repo.DeleteCart(ctx, "c1"))
	got, err = repo.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCartRepo_Expires(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	repo, err := NewCartRepository(ctx, rdb, 24*time.Hour, zap.NewNop())
	require.NoError(t, err)

	cart := entities.Cart{}
	cart.AddItem(carrots())
	require.NoError(t, repo.SetCart(ctx, "c1", cart))
	assert.Equal(t, 24*time.Hour, mr.TTL(cartKeyPrefix+"c1"))

	mr.FastForward(25 * time.Hour)
	got, err := repo.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCartRepo_CorruptValue(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	repo, err := NewCartRepository(ctx, rdb, time.Hour, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, mr.Set(cartKeyPrefix+"bad", "{not json"))
	got, err := repo.GetCart(ctx, "bad")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
	assert.False(t, got.IsOpen)

	got.AddItem(entities.Product{Id: "4", Name: "Broccoli"})
	require.NoError(t, repo.SetCart(ctx, "bad", got))
	got, err = repo.GetCart(ctx, "bad")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestNewCartRepository_Unreachable(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	_, err := NewCartRepository(context.Background(), rdb, time.Hour, zap.NewNop())
	assert.Error(t, err)

	_, err = NewCartRepository(context.Background(), nil, time.Hour, zap.NewNop())
	assert.Error(t, err)
}

func TestSessionRepo_RoundTrip(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	repo, err := NewSessionRepository(ctx, rdb, 30*time.Minute, zap.NewNop())
	require.NoError(t, err)

	user := entities.User{Id: "2", Name: "Jane Farmer", Email: "farmer@example.com", Role: entities.RoleFarmer}
	id, err := repo.CreateSession(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.True(t, mr.Exists(sessionKeyPrefix+id))
	assert.Equal(t, 30*time.Minute, mr.TTL(sessionKeyPrefix+id))

	got, exists, err := repo.GetSession(ctx, id)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, user, got)

	require.NoError(t, repo.RefreshSession(ctx, id, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+id))

	require.NoError(t, repo.DeleteSession(ctx, id))
	_, exists, err = repo.GetSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSessionRepo_MissingAndCorrupt(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	repo, err := NewSessionRepository(ctx, rdb, time.Minute, zap.NewNop())
	require.NoError(t, err)

	_, exists, err := repo.GetSession(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)

	_, exists, err = repo.GetSession(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, mr.Set(sessionKeyPrefix+"bad", "[]"))
	_, exists, err = repo.GetSession(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFarmerRepo(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	repo, err := NewFarmerRepository(ctx, rdb, 24*time.Hour, zap.NewNop())
	require.NoError(t, err)

	prods, err := repo.GetProducts(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, prods)

	want := []entities.Product{carrots()}
	require.NoError(t, repo.SetProducts(ctx, "2", want))
	prods, err = repo.GetProducts(ctx, "2")
	require.NoError(t, err)
	if diff := cmp.Diff(want, prods); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}

	_, exists, err := repo.GetSoilAnalysis(ctx, "2")
	require.NoError(t, err)
	assert.False(t, exists)

	analysis := entities.SoilAnalysis{
		Soil: entities.SoilData{Id: "soil-1", FarmerId: "2", SoilType: entities.SoilLoam, PH: 6.5,
			Date: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		Recommendations: []entities.CropRecommendation{{Name: "Corn", Suitability: entities.SuitabilityHigh}},
	}
	require.NoError(t, repo.SetSoilAnalysis(ctx, "2", analysis))
	got, exists, err := repo.GetSoilAnalysis(ctx, "2")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "Corn", got.Recommendations[0].Name)
	assert.True(t, analysis.Soil.Date.Equal(got.Soil.Date))

	mr.FastForward(25 * time.Hour)
	prods, err = repo.GetProducts(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, prods)
}
