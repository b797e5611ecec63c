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

const cartKeyPrefix = "farmFreshCart:"

type CartRepository interface {
	SetCart(ctx context.Context, cartSessionId string, cart entities.Cart) (err error)
	GetCart(ctx context.Context, cartSessionId string) (res entities.Cart, err error)
	DeleteCart(ctx context.Context, cartSessionId string) (err error)
}

type CartRepo struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewCartRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration, log *zap.Logger) (CartRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &CartRepo{
		rdb: redis_conn,
		ttl: ttl,
		log: log,
	}, nil
}

func (c *CartRepo) SetCart(ctx context.Context, cartSessionId string, cart entities.Cart) (err error) {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		c.log.Error("SetCart: marshal", zap.String("cart", cartSessionId), zap.Error(err))
		err = models.ErrServerError
		return
	}
	err = c.rdb.Set(ctx, cartKeyPrefix+cartSessionId, jsonData, c.ttl).Err()
	if err != nil {
		c.log.Error("SetCart: redis", zap.String("cart", cartSessionId), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

// GetCart returns the stored cart. A missing, expired or undecodable key
// yields an empty, closed cart.
func (c *CartRepo) GetCart(ctx context.Context, cartSessionId string) (res entities.Cart, err error) {
	res = entities.Cart{Items: []entities.CartItem{}}
	val, e := c.rdb.Get(ctx, cartKeyPrefix+cartSessionId).Bytes()
	if e != nil {
		if errors.Is(e, redis.Nil) {
			return
		}
		c.log.Error("GetCart: redis", zap.String("cart", cartSessionId), zap.Error(e))
		err = models.ErrServerError
		return
	}
	// A snapshot that does not decode is treated as an empty cart.
	if e = json.Unmarshal(val, &res); e != nil {
		c.log.Warn("GetCart: corrupt snapshot", zap.String("cart", cartSessionId), zap.Error(e))
		res = entities.Cart{Items: []entities.CartItem{}}
		return
	}
	if res.Items == nil {
		res.Items = []entities.CartItem{}
	}
	return
}

func (c *CartRepo) DeleteCart(ctx context.Context, cartSessionId string) (err error) {
	err = c.rdb.Del(ctx, cartKeyPrefix+cartSessionId).Err()
	if err != nil {
		c.log.Error("DeleteCart: redis", zap.String("cart", cartSessionId), zap.Error(err))
		err = models.ErrServerError
	}
	return
}
