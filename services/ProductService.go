package services

import (
	"context"
	"strings"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/repository"

	"go.uber.org/zap"
)

// ProductService is the read-only catalog.
type ProductService struct {
	pr  repository.ProductRepository
	log *zap.Logger
}

func NewProductService(pRepo repository.ProductRepository, log *zap.Logger) ProductService {
	return ProductService{
		pr:  pRepo,
		log: log,
	}
}

func (ps *ProductService) GetProductById(ctx context.Context, prodId string) (pEnt entities.Product, err error) {
	pModel, exists, err := ps.pr.GetProductById(ctx, prodId)
	if err != nil {
		return
	}
	if !exists {
		err = models.ErrNotFoundError
		return
	}
	pEnt, err = ps.toEntity(pModel)
	return
}

// ListProducts returns the catalog products matching filter in catalog
// order. An empty category or "all" matches every category.
func (ps *ProductService) ListProducts(ctx context.Context, filter entities.ProductFilter) (prods []entities.Product, err error) {
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	rows, err := ps.pr.ListProducts(ctx, filter)
	if err != nil {
		return
	}
	prods = make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		var p entities.Product
		if p, err = ps.toEntity(row); err != nil {
			return
		}
		prods = append(prods, p)
	}
	return
}

func (ps *ProductService) toEntity(pModel models.Product_db) (entities.Product, error) {
	p, err := repository.ToEntity(pModel)
	if err != nil {
		ps.log.Error("catalog row", zap.String("id", pModel.Id), zap.Error(err))
		return entities.Product{}, models.ErrServerError
	}
	return p, nil
}
