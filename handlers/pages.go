package handlers

import (
	"net/http"

	"farmFresh/entities"
	"farmFresh/services"

	"go.uber.org/zap"
)

// Page views are the data a page shows, not its markup.

type homePage struct {
	Page             string             `json:"page"`
	User             *entities.User     `json:"user"`
	Categories       []string           `json:"categories"`
	SelectedCategory string             `json:"selectedCategory"`
	Products         []entities.Product `json:"products"`
}

type farmerPage struct {
	Page      string                   `json:"page"`
	User      *entities.User           `json:"user"`
	Dashboard entities.FarmerDashboard `json:"dashboard"`
}

type simplePage struct {
	Page string         `json:"page"`
	User *entities.User `json:"user,omitempty"`
	Path string         `json:"path,omitempty"`
}

// GuardMiddleware applies the navigation guard to page routes.
func (h *Handler) GuardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := services.Decide(h.policy, CurrentUser(r.Context()), r.URL.Path)
		switch d.Outcome {
		case services.Redirect:
			h.log.Debug("guard redirect", zap.String("path", r.URL.Path), zap.String("location", d.Location))
			http.Redirect(w, r, d.Location, http.StatusSeeOther)
		case services.NotFound:
			h.NotFoundPage(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("category")
	if selected == "" {
		selected = services.AllCategories
	}
	cats, err := h.cas.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	prods, err := h.ps.ListProducts(r.Context(), entities.ProductFilter{Category: selected})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, homePage{
		Page:             "home",
		User:             CurrentUser(r.Context()),
		Categories:       cats,
		SelectedCategory: selected,
		Products:         prods,
	})
}

// FarmersPage shows the farmer dashboard. Anonymous visitors let through by
// the permissive policy get an empty dashboard.
func (h *Handler) FarmersPage(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	var farmerId string
	if user != nil {
		farmerId = user.Id
	}
	dash, err := h.fs.Dashboard(r.Context(), farmerId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, farmerPage{Page: "farmers", User: user, Dashboard: dash})
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, simplePage{Page: "login"})
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, simplePage{Page: "signup"})
}

func (h *Handler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, simplePage{Page: "not-found", Path: r.URL.Path})
}
