package services

import (
	"context"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const AllCategories = "all"

type CategoryService struct {
	cr  repository.CategoryRepository
	log *zap.Logger
}

func NewCategoryService(catRepo repository.CategoryRepository, log *zap.Logger) CategoryService {
	return CategoryService{
		cr:  catRepo,
		log: log,
	}
}

// Categories returns the filter choices shown above the catalog: "all"
// followed by every category present, in catalog order.
func (cas *CategoryService) Categories(ctx context.Context) (cats []string, err error) {
	counts, err := cas.cr.CategoryCounts(ctx)
	if err != nil {
		return
	}
	cats = make([]string, 0, len(counts)+1)
	cats = append(cats, AllCategories)
	for _, c := range counts {
		cats = append(cats, string(c.Category))
	}
	return
}

func (cas *CategoryService) FilterMetadata(ctx context.Context) (meta entities.FilterMetadata, err error) {
	meta.Categories, err = cas.cr.CategoryCounts(ctx)
	if err != nil {
		return
	}
	meta.Availability, err = cas.cr.Availability(ctx)
	if err != nil {
		return
	}

	lo, hi, exists, err := cas.cr.PriceBounds(ctx)
	if err != nil || !exists {
		return
	}
	if meta.PriceRange.Min, err = decimal.NewFromString(lo); err != nil {
		cas.log.Error("FilterMetadata: min price", zap.String("value", lo), zap.Error(err))
		err = models.ErrServerError
		return
	}
	if meta.PriceRange.Max, err = decimal.NewFromString(hi); err != nil {
		cas.log.Error("FilterMetadata: max price", zap.String("value", hi), zap.Error(err))
		err = models.ErrServerError
	}
	return
}
