package handlers

import (
	"errors"
	"net/http"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// cartId returns the cart id from the cookie. When create is set and the
// visitor has no cart yet, a new cart is stored and its cookie is set.
func (h *Handler) cartId(w http.ResponseWriter, r *http.Request, create bool) (cartSessionId string, err error) {
	c, err := r.Cookie(h.cookie.CartName)
	if err == nil && c.Value != "" {
		return c.Value, nil
	}
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		h.log.Error("Cookie", zap.Error(err))
		return "", models.ErrServerError
	}
	if !create {
		return "", nil
	}
	cartSessionId, err = h.cs.CreateCartSession(r.Context())
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CartName,
		Value:    cartSessionId,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.CartTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return cartSessionId, nil
}

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, resp entities.CartResponse) {
	resp.Notifications = notify.Collected(r.Context())
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := h.cartId(w, r, false)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if id == "" {
		h.writeCart(w, r, entities.Cart{}.Response())
		return
	}
	resp, err := h.cs.GetCart(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, resp)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	req := entities.CartRequest{}
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ProductId == "" {
		h.writeError(w, r, models.Invalid("productId", "Product id is required"))
		return
	}
	id, err := h.cartId(w, r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.cs.AddItem(r.Context(), id, req.ProductId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, resp)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	req := models.QuantityRequest{}
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.cartId(w, r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.cs.UpdateQuantity(r.Context(), id, mux.Vars(r)["id"], req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, resp)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.cartId(w, r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.cs.RemoveItem(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, resp)
}

func (h *Handler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	id, err := h.cartId(w, r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.cs.Toggle(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, resp)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id, err := h.cartId(w, r, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.cs.Clear(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, resp)
}
