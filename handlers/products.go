package handlers

import (
	"net/http"
	"strconv"

	"farmFresh/entities"
	"farmFresh/models"

	"github.com/gorilla/mux"
)

func boolParam(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, models.Invalid(name, name+" must be true or false")
	}
	return &v, nil
}

func productFilter(r *http.Request) (filter entities.ProductFilter, err error) {
	q := r.URL.Query()
	filter.Category = q.Get("category")
	filter.Query = q.Get("q")
	if filter.Organic, err = boolParam(r, "organic"); err != nil {
		return
	}
	filter.InStock, err = boolParam(r, "inStock")
	return
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	prods, err := h.ps.ListProducts(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prods)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	prod, err := h.ps.GetProductById(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prod)
}

type filtersResponse struct {
	Options []string `json:"options"`
	entities.FilterMetadata
}

func (h *Handler) ProductFilters(w http.ResponseWriter, r *http.Request) {
	cats, err := h.cas.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	meta, err := h.cas.FilterMetadata(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, filtersResponse{Options: cats, FilterMetadata: meta})
}
