package handlers

import (
	"net/http"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"

	"github.com/gorilla/mux"
)

type productResponse struct {
	Product       entities.Product        `json:"product"`
	Notifications []entities.Notification `json:"notifications,omitempty"`
}

type analysisResponse struct {
	entities.SoilAnalysis
	Notifications []entities.Notification `json:"notifications,omitempty"`
}

func (h *Handler) FarmerProducts(w http.ResponseWriter, r *http.Request) {
	prods, err := h.fs.ListProducts(r.Context(), CurrentUser(r.Context()).Id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prods)
}

func (h *Handler) saveFarmerProduct(w http.ResponseWriter, r *http.Request, editingId string, status int) {
	form := models.ProductForm{}
	if err := h.decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	prod, err := h.fs.SaveProduct(r.Context(), CurrentUser(r.Context()).Id, form, editingId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, status, productResponse{Product: prod, Notifications: notify.Collected(r.Context())})
}

func (h *Handler) CreateFarmerProduct(w http.ResponseWriter, r *http.Request) {
	h.saveFarmerProduct(w, r, "", http.StatusCreated)
}

func (h *Handler) UpdateFarmerProduct(w http.ResponseWriter, r *http.Request) {
	h.saveFarmerProduct(w, r, mux.Vars(r)["id"], http.StatusOK)
}

func (h *Handler) DeleteFarmerProduct(w http.ResponseWriter, r *http.Request) {
	err := h.fs.DeleteProduct(r.Context(), CurrentUser(r.Context()).Id, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"notifications": notify.Collected(r.Context())})
}

func (h *Handler) GetSoilAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, exists, err := h.crs.LatestAnalysis(r.Context(), CurrentUser(r.Context()).Id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !exists {
		h.writeError(w, r, models.ErrNotFoundError)
		return
	}
	h.writeJSON(w, http.StatusOK, analysisResponse{SoilAnalysis: analysis})
}

func (h *Handler) AnalyzeSoil(w http.ResponseWriter, r *http.Request) {
	form := models.SoilForm{}
	if err := h.decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	analysis, err := h.crs.AnalyzeSoil(r.Context(), CurrentUser(r.Context()).Id, form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, analysisResponse{SoilAnalysis: analysis, Notifications: notify.Collected(r.Context())})
}
