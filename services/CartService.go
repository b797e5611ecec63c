package services

import (
	"context"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"
	"farmFresh/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService struct {
	pr  repository.ProductRepository
	cr  repository.CartRepository
	n   notify.Notifier
	log *zap.Logger
}

func NewCartService(productRepo repository.ProductRepository, cartRepo repository.CartRepository, n notify.Notifier, log *zap.Logger) CartService {
	return CartService{
		pr:  productRepo,
		cr:  cartRepo,
		n:   n,
		log: log,
	}
}

// CreateCartSession stores an empty cart under a new id.
func (cs *CartService) CreateCartSession(ctx context.Context) (cartSessionId string, err error) {
	cartSessionId = uuid.NewString()
	err = cs.cr.SetCart(ctx, cartSessionId, entities.Cart{Items: []entities.CartItem{}})
	if err != nil {
		cartSessionId = ""
	}
	return
}

func (cs *CartService) GetCart(ctx context.Context, cartSessionId string) (resp entities.CartResponse, err error) {
	cart, err := cs.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	resp = cart.Response()
	return
}

// AddItem adds one unit of the catalog product to the cart.
func (cs *CartService) AddItem(ctx context.Context, cartSessionId string, productId string) (resp entities.CartResponse, err error) {
	pModel, ex, err := cs.pr.GetProductById(ctx, productId)
	if err != nil {
		return
	}
	if !ex {
		cs.log.Info("AddItem: product does not exist", zap.String("product", productId))
		err = models.ErrNotFoundError
		return
	}
	product, err := repository.ToEntity(pModel)
	if err != nil {
		cs.log.Error("AddItem", zap.Error(err))
		err = models.ErrServerError
		return
	}

	resp, err = cs.apply(ctx, cartSessionId, func(c *entities.Cart) bool {
		c.AddItem(product)
		return true
	})
	if err != nil {
		return
	}
	cs.n.Notify(ctx, notify.Success("Added "+product.Name+" to cart"))
	return
}

// RemoveItem drops the line. An unknown id leaves the cart unchanged and is
// reported through resp.Changed.
func (cs *CartService) RemoveItem(ctx context.Context, cartSessionId string, productId string) (resp entities.CartResponse, err error) {
	resp, err = cs.apply(ctx, cartSessionId, func(c *entities.Cart) bool {
		return c.RemoveItem(productId)
	})
	if err != nil {
		return
	}
	if !resp.Changed {
		cs.log.Info("RemoveItem: no such line", zap.String("cart", cartSessionId), zap.String("product", productId))
	}
	cs.n.Notify(ctx, notify.Info("Item removed from cart"))
	return
}

func (cs *CartService) UpdateQuantity(ctx context.Context, cartSessionId string, productId string, quantity int) (resp entities.CartResponse, err error) {
	resp, err = cs.apply(ctx, cartSessionId, func(c *entities.Cart) bool {
		return c.UpdateQuantity(productId, quantity)
	})
	if err == nil && !resp.Changed {
		cs.log.Info("UpdateQuantity: no such line", zap.String("cart", cartSessionId), zap.String("product", productId))
	}
	return
}

func (cs *CartService) Toggle(ctx context.Context, cartSessionId string) (resp entities.CartResponse, err error) {
	return cs.apply(ctx, cartSessionId, func(c *entities.Cart) bool {
		c.Toggle()
		return true
	})
}

func (cs *CartService) Clear(ctx context.Context, cartSessionId string) (resp entities.CartResponse, err error) {
	resp, err = cs.apply(ctx, cartSessionId, func(c *entities.Cart) bool {
		c.Clear()
		return true
	})
	if err != nil {
		return
	}
	cs.n.Notify(ctx, notify.Info("Cart cleared"))
	return
}

// apply runs one engine operation as load, mutate, save. The cart is only
// written back when the operation changed it.
func (cs *CartService) apply(ctx context.Context, cartSessionId string, op func(*entities.Cart) bool) (resp entities.CartResponse, err error) {
	cart, err := cs.cr.GetCart(ctx, cartSessionId)
	if err != nil {
		return
	}
	changed := op(&cart)
	if changed {
		if err = cs.cr.SetCart(ctx, cartSessionId, cart); err != nil {
			return
		}
	}
	resp = cart.Response()
	resp.Changed = changed
	return
}
