package handlers

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"

	"go.uber.org/zap"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

// CurrentUser returns the user rehydrated by SessionMiddleware, or nil for
// anonymous requests.
func CurrentUser(ctx context.Context) *entities.User {
	u, _ := ctx.Value(userKey).(*entities.User)
	return u
}

func sessionId(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("panic occured",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stacktrace", debug.Stack()))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (h *Handler) RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)))
	})
}

// NotifyMiddleware gives every request its own notification collector.
func (h *Handler) NotifyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(notify.Collect(r.Context())))
	})
}

// SessionMiddleware rehydrates the session user from the session cookie. A
// missing, expired or unreadable session leaves the request anonymous.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(h.cookie.SessionName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, exists, err := h.us.CurrentUser(r.Context(), c.Value)
		if err != nil {
			h.log.Warn("session rehydration failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, c.Value)
		if exists {
			ctx = context.WithValue(ctx, userKey, &user)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			WriteErrorResponse(w, models.ErrUnautorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) FarmerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil {
			WriteErrorResponse(w, models.ErrUnautorized)
			return
		}
		if user.Role != entities.RoleFarmer {
			h.log.Info("farmer route refused", zap.String("user", user.Id), zap.String("role", string(user.Role)))
			WriteErrorResponse(w, models.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
