package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"farmFresh/entities"
	"farmFresh/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	farmerProductsPrefix = "farmFreshFarmer:products:"
	farmerSoilPrefix     = "farmFreshFarmer:soil:"
)

// FarmerRepository keeps the dashboard state of each farmer. The data
// expires with the TTL and is never merged into the catalog.
type FarmerRepository interface {
	GetProducts(ctx context.Context, farmerId string) (prods []entities.Product, err error)
	SetProducts(ctx context.Context, farmerId string, prods []entities.Product) (err error)
	GetSoilAnalysis(ctx context.Context, farmerId string) (analysis entities.SoilAnalysis, exists bool, err error)
	SetSoilAnalysis(ctx context.Context, farmerId string, analysis entities.SoilAnalysis) (err error)
}

type FarmerRepo struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewFarmerRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration, log *zap.Logger) (FarmerRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &FarmerRepo{
		rdb: redis_conn,
		ttl: ttl,
		log: log,
	}, nil
}

func (f *FarmerRepo) GetProducts(ctx context.Context, farmerId string) (prods []entities.Product, err error) {
	prods = []entities.Product{}
	_, err = f.getJSON(ctx, farmerProductsPrefix+farmerId, &prods)
	if prods == nil {
		prods = []entities.Product{}
	}
	return
}

func (f *FarmerRepo) SetProducts(ctx context.Context, farmerId string, prods []entities.Product) (err error) {
	return f.setJSON(ctx, farmerProductsPrefix+farmerId, prods)
}

func (f *FarmerRepo) GetSoilAnalysis(ctx context.Context, farmerId string) (analysis entities.SoilAnalysis, exists bool, err error) {
	exists, err = f.getJSON(ctx, farmerSoilPrefix+farmerId, &analysis)
	return
}

func (f *FarmerRepo) SetSoilAnalysis(ctx context.Context, farmerId string, analysis entities.SoilAnalysis) (err error) {
	return f.setJSON(ctx, farmerSoilPrefix+farmerId, analysis)
}

func (f *FarmerRepo) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	val, err := f.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		f.log.Error("FarmerRepo: redis get", zap.String("key", key), zap.Error(err))
		return false, models.ErrServerError
	}
	if err = json.Unmarshal(val, dst); err != nil {
		f.log.Error("FarmerRepo: unmarshal", zap.String("key", key), zap.Error(err))
		return false, models.ErrServerError
	}
	return true, nil
}

func (f *FarmerRepo) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		f.log.Error("FarmerRepo: marshal", zap.String("key", key), zap.Error(err))
		return models.ErrServerError
	}
	if err = f.rdb.Set(ctx, key, data, f.ttl).Err(); err != nil {
		f.log.Error("FarmerRepo: redis set", zap.String("key", key), zap.Error(err))
		return models.ErrServerError
	}
	return nil
}
