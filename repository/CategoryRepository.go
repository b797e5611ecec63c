package repository

import (
	"context"
	"database/sql"
	"errors"

	"farmFresh/entities"
	"farmFresh/models"

	"go.uber.org/zap"
)

// CategoryRepository answers aggregate questions about the catalog table.
type CategoryRepository interface {
	CategoryCounts(ctx context.Context) (cats []entities.CategoryCount, err error)
	PriceBounds(ctx context.Context) (lowest string, highest string, exists bool, err error)
	Availability(ctx context.Context) (av entities.Availability, err error)
}

type CategoryRepo struct {
	db  *sql.DB
	log *zap.Logger
}

func NewCategoryRepository(conn *sql.DB, log *zap.Logger) (CategoryRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &CategoryRepo{
		db:  conn,
		log: log,
	}, nil
}

// CategoryCounts lists the categories present in the catalog, in the order
// they first appear.
func (c *CategoryRepo) CategoryCounts(ctx context.Context) (cats []entities.CategoryCount, err error) {
	rows, e := c.db.QueryContext(ctx,
		"SELECT Category, COUNT(*) FROM Products GROUP BY Category ORDER BY MIN(Position)")
	if e != nil {
		c.log.Error("CategoryCounts[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer rows.Close()

	cats = []entities.CategoryCount{}
	for rows.Next() {
		var cat entities.CategoryCount
		var name string
		if err = rows.Scan(&name, &cat.Count); err != nil {
			c.log.Error("CategoryCounts[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		cat.Category = entities.Category(name)
		cats = append(cats, cat)
	}
	if err = rows.Err(); err != nil {
		c.log.Error("CategoryCounts[3]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (c *CategoryRepo) PriceBounds(ctx context.Context) (lowest string, highest string, exists bool, err error) {
	var lo, hi sql.NullString
	err = c.db.QueryRowContext(ctx, "SELECT MIN(Price), MAX(Price) FROM Products").Scan(&lo, &hi)
	if err != nil {
		c.log.Error("PriceBounds", zap.Error(err))
		err = models.ErrServerError
		return
	}
	if !lo.Valid || !hi.Valid {
		return
	}
	return lo.String, hi.String, true, nil
}

func (c *CategoryRepo) Availability(ctx context.Context) (av entities.Availability, err error) {
	var inStock, outOfStock sql.NullInt64
	err = c.db.QueryRowContext(ctx,
		"SELECT SUM(CASE WHEN InStock THEN 1 ELSE 0 END), SUM(CASE WHEN InStock THEN 0 ELSE 1 END) FROM Products").
		Scan(&inStock, &outOfStock)
	if err != nil {
		c.log.Error("Availability", zap.Error(err))
		err = models.ErrServerError
		return
	}
	av.InStock = int(inStock.Int64)
	av.OutOfStock = int(outOfStock.Int64)
	return
}
