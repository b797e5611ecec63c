package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the service.
func NewRouter(ha *Handler) *mux.Router {
	// Page paths with a trailing slash are guarded like their canonical form
	// and then redirected to it.
	router := mux.NewRouter().StrictSlash(true)
	router.Use(ha.ErrorHandleMiddleware, ha.RequestLogMiddleware, ha.NotifyMiddleware, ha.SessionMiddleware)
	router.NotFoundHandler = ha.ErrorHandleMiddleware(ha.RequestLogMiddleware(http.HandlerFunc(ha.NotFoundPage)))

	router.HandleFunc("/healthz", ha.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", ha.ListProducts).Methods("GET")
	api.HandleFunc("/products/filters", ha.ProductFilters).Methods("GET")
	api.HandleFunc("/products/{id}", ha.GetProduct).Methods("GET")

	api.HandleFunc("/cart", ha.GetCart).Methods("GET")
	api.HandleFunc("/cart", ha.ClearCart).Methods("DELETE")
	api.HandleFunc("/cart/items", ha.AddToCart).Methods("POST")
	api.HandleFunc("/cart/items/{id}", ha.UpdateCartItem).Methods("PATCH")
	api.HandleFunc("/cart/items/{id}", ha.RemoveCartItem).Methods("DELETE")
	api.HandleFunc("/cart/toggle", ha.ToggleCart).Methods("POST")

	api.HandleFunc("/auth/login", ha.Login).Methods("POST")
	api.HandleFunc("/auth/signup", ha.Signup).Methods("POST")
	api.HandleFunc("/auth/logout", ha.Logout).Methods("POST")
	api.HandleFunc("/auth/me", ha.Me).Methods("GET")
	subAuth := api.PathPrefix("/auth").Subrouter()
	subAuth.Use(ha.AuthMiddleware)
	subAuth.HandleFunc("/refresh", ha.Refresh).Methods("POST")

	farmer := api.PathPrefix("/farmer").Subrouter()
	farmer.Use(ha.FarmerAuthMiddleware)
	farmer.HandleFunc("/products", ha.FarmerProducts).Methods("GET")
	farmer.HandleFunc("/products", ha.CreateFarmerProduct).Methods("POST")
	farmer.HandleFunc("/products/{id}", ha.UpdateFarmerProduct).Methods("PUT")
	farmer.HandleFunc("/products/{id}", ha.DeleteFarmerProduct).Methods("DELETE")
	farmer.HandleFunc("/soil", ha.GetSoilAnalysis).Methods("GET")
	farmer.HandleFunc("/soil", ha.AnalyzeSoil).Methods("POST")

	pages := router.NewRoute().Subrouter()
	pages.Use(ha.GuardMiddleware)
	pages.HandleFunc("/", ha.HomePage).Methods("GET")
	pages.HandleFunc("/farmers", ha.FarmersPage).Methods("GET")
	pages.HandleFunc("/login", ha.LoginPage).Methods("GET")
	pages.HandleFunc("/signup", ha.SignupPage).Methods("GET")

	return router
}
