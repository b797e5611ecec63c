package handlers

import (
	"net/http"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"
)

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.SessionName,
		Value:    sessionId,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.SessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{}
	if err := h.decodeJSON(w, r, &creds); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, sid, err := h.us.Login(r.Context(), creds, sessionId(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, sid)
	resp.Notifications = notify.Collected(r.Context())
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	req := models.SignupRequest{}
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, sid, err := h.us.Signup(r.Context(), req, sessionId(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, sid)
	resp.Notifications = notify.Collected(r.Context())
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.us.Logout(r.Context(), sessionId(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, map[string]string{"redirect": redirect})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sid := sessionId(r.Context())
	if err := h.us.Refresh(r.Context(), sid); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, sid)
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Authenticated bool           `json:"isAuthenticated"`
	User          *entities.User `json:"user"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	h.writeJSON(w, http.StatusOK, meResponse{Authenticated: user != nil, User: user})
}
