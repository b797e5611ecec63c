package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"
	"farmFresh/repository"

	"go.uber.org/zap"
)

const defaultFarmName = "Your Farm"

// FarmerService manages a farmer's own listings. They live next to the
// catalog and are never merged into it.
type FarmerService struct {
	fr  repository.FarmerRepository
	cs  CropService
	n   notify.Notifier
	log *zap.Logger
	now func() time.Time
}

func NewFarmerService(farmerRepo repository.FarmerRepository, cropService CropService, n notify.Notifier, log *zap.Logger) FarmerService {
	return FarmerService{
		fr:  farmerRepo,
		cs:  cropService,
		n:   n,
		log: log,
		now: time.Now,
	}
}

func (fs *FarmerService) ListProducts(ctx context.Context, farmerId string) (prods []entities.Product, err error) {
	return fs.fr.GetProducts(ctx, farmerId)
}

// Dashboard gathers the listings and the latest soil analysis of a farmer.
// An empty farmerId yields an empty dashboard.
func (fs *FarmerService) Dashboard(ctx context.Context, farmerId string) (dash entities.FarmerDashboard, err error) {
	dash.Products = []entities.Product{}
	if farmerId == "" {
		return
	}
	if dash.Products, err = fs.fr.GetProducts(ctx, farmerId); err != nil {
		return
	}
	analysis, exists, err := fs.cs.LatestAnalysis(ctx, farmerId)
	if err != nil {
		return
	}
	if exists {
		dash.Analysis = &analysis
	}
	return
}

// SaveProduct creates a listing, or replaces the listing editingId in place
// when editingId is set.
func (fs *FarmerService) SaveProduct(ctx context.Context, farmerId string, form models.ProductForm, editingId string) (pEnt entities.Product, err error) {
	editingId = strings.TrimSpace(editingId)
	if editingId == "" && strings.TrimSpace(form.FarmName) == "" {
		form.FarmName = defaultFarmName
	}
	pEnt, err = validateProductForm(form)
	if err != nil {
		return
	}
	prods, err := fs.fr.GetProducts(ctx, farmerId)
	if err != nil {
		return
	}

	var msg string
	if editingId != "" {
		i := indexOfProduct(prods, editingId)
		if i < 0 {
			fs.log.Info("SaveProduct: no such listing", zap.String("farmer", farmerId), zap.String("product", editingId))
			err = models.ErrNotFoundError
			return
		}
		pEnt.Id = prods[i].Id
		pEnt.FarmerId = prods[i].FarmerId
		prods[i] = pEnt
		msg = "Product updated successfully"
	} else {
		pEnt.Id = fs.newProductId(prods)
		pEnt.FarmerId = farmerId
		prods = append(prods, pEnt)
		msg = "Product added successfully"
	}

	if err = fs.fr.SetProducts(ctx, farmerId, prods); err != nil {
		return
	}
	fs.n.Notify(ctx, notify.Success(msg))
	return
}

func (fs *FarmerService) DeleteProduct(ctx context.Context, farmerId string, productId string) (err error) {
	prods, err := fs.fr.GetProducts(ctx, farmerId)
	if err != nil {
		return
	}
	i := indexOfProduct(prods, productId)
	if i < 0 {
		fs.log.Info("DeleteProduct: no such listing", zap.String("farmer", farmerId), zap.String("product", productId))
		err = models.ErrNotFoundError
		return
	}
	prods = append(prods[:i], prods[i+1:]...)
	if err = fs.fr.SetProducts(ctx, farmerId, prods); err != nil {
		return
	}
	fs.n.Notify(ctx, notify.Success("Product deleted successfully"))
	return
}

// newProductId derives the id from the clock, stepping forward a
// millisecond at a time on collision.
func (fs *FarmerService) newProductId(prods []entities.Product) string {
	ms := fs.now().UnixMilli()
	for {
		id := "product-" + strconv.FormatInt(ms, 10)
		if indexOfProduct(prods, id) < 0 {
			return id
		}
		ms++
	}
}

func indexOfProduct(prods []entities.Product, id string) int {
	for i := range prods {
		if prods[i].Id == id {
			return i
		}
	}
	return -1
}
