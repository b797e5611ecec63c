package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"
	"farmFresh/services"

	"go.uber.org/zap"
)

type Handler struct {
	us     services.UserService
	ps     services.ProductService
	cs     services.CartService
	cas    services.CategoryService
	fs     services.FarmerService
	crs    services.CropService
	policy services.GuardPolicy
	cookie CookieConfig
	health map[string]func(context.Context) error
	log    *zap.Logger
}

type CookieConfig struct {
	SessionName string
	SessionTTL  time.Duration
	CartName    string
	CartTTL     time.Duration
}

type HandlerParams struct {
	UsrService    services.UserService
	PrdService    services.ProductService
	CrtService    services.CartService
	CatsService   services.CategoryService
	FarmerService services.FarmerService
	CropService   services.CropService
	Policy        services.GuardPolicy
	Cookies       CookieConfig
	// HealthChecks are run by /healthz, keyed by dependency name.
	HealthChecks map[string]func(context.Context) error
	Log          *zap.Logger
}

func NewHandler(params HandlerParams) *Handler {
	cookies := params.Cookies
	if cookies.SessionName == "" {
		cookies.SessionName = "sessionId"
	}
	if cookies.CartName == "" {
		cookies.CartName = "cartSessionId"
	}
	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		us:     params.UsrService,
		ps:     params.PrdService,
		cs:     params.CrtService,
		cas:    params.CatsService,
		fs:     params.FarmerService,
		crs:    params.CropService,
		policy: params.Policy,
		cookie: cookies,
		health: params.HealthChecks,
		log:    log,
	}
}

type errorResponse struct {
	Error         string                  `json:"error"`
	Field         string                  `json:"field,omitempty"`
	Notifications []entities.Notification `json:"notifications,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.log.Error("Marshal", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		h.log.Debug("Unmarshal", zap.Error(err))
		return models.ErrBadRequest
	}
	return nil
}

// writeError answers with the status mapped from err and the notifications
// raised while handling the request.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	WriteErrorResponse(w, err, notify.Collected(r.Context())...)
}

func WriteErrorResponse(w http.ResponseWriter, err error, notes ...entities.Notification) {
	var status int
	switch {
	case errors.Is(err, models.ErrServerError):
		status = http.StatusInternalServerError
	case errors.Is(err, models.ErrUnautorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFoundError):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrNotAllowed):
		status = http.StatusNotAcceptable
	default:
		status = http.StatusInternalServerError
		err = models.ErrServerError
	}

	resp := errorResponse{Error: err.Error(), Notifications: notes}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Message
		resp.Field = verr.Field
	}
	jsonData, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	code := http.StatusOK
	for name, check := range h.health {
		if err := check(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	h.writeJSON(w, code, status)
}
