package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/middleware"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/store"
)

type AuthHandler struct {
	userStore     *store.UserStore
	sessionStore  *store.SessionStore
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, sessionStore: ss, secureCookies: secureCookies, logger: logger}
}

type loginRequest struct {
	UserID idValue `json:"userId"`
	PIN    string  `json:"pin"`
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID <= 0 || req.PIN == "" {
		writeErrorJSON(w, http.StatusBadRequest, "User ID and PIN are required")
		return
	}

	user, err := h.userStore.GetByID(int64(req.UserID))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if user == nil {
		writeErrorJSON(w, http.StatusNotFound, "user not found")
		return
	}

	hash, err := h.userStore.GetPINHash(user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if !auth.CheckPIN(hash, req.PIN) {
		h.logger.Warn("login failed", "user_id", user.ID, "remote", middleware.RealIP(r))
		writeErrorJSON(w, http.StatusUnauthorized, "Invalid PIN")
		return
	}

	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(store.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// Session reports whether the request carries a valid session. It never
// fails; any problem reads as unauthenticated.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	sess, err := h.sessionStore.GetByToken(cookie.Value)
	if err != nil {
		h.logger.Error("session lookup", "error", err)
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	user, err := h.userStore.GetByID(sess.UserID)
	if err != nil {
		h.logger.Error("session user lookup", "error", err)
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessionStore.DeleteByToken(cookie.Value); err != nil {
			h.logger.Error("delete session", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
