package repository

import (
	"context"
	"database/sql"
	"testing"

	"farmFresh/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryRepo_Aggregates(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:TestCategoryRepo_Aggregates?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	pr, err := NewProductRepository(db, zap.NewNop())
	require.NoError(t, err)
	cr, err := NewCategoryRepository(db, zap.NewNop())
	require.NoError(t, err)

	// Empty table first.
	_, err = db.Exec(createProductsTable)
	require.NoError(t, err)
	_, _, exists, err := cr.PriceBounds(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
	av, err := cr.Availability(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.Availability{}, av)

	require.NoError(t, pr.Migrate(ctx))

	cats, err := cr.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.CategoryCount{
		{Category: entities.CategoryVegetable, Count: 6},
		{Category: entities.CategoryGrain, Count: 3},
		{Category: entities.CategoryFruit, Count: 3},
	}, cats)

	lo, hi, exists, err := cr.PriceBounds(ctx)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "1.50", decimal.RequireFromString(lo).StringFixed(2))
	assert.Equal(t, "5.99", decimal.RequireFromString(hi).StringFixed(2))

	av, err = cr.Availability(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.Availability{InStock: 12, OutOfStock: 0}, av)
}
