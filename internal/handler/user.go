package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/store"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type UserHandler struct {
	userStore *store.UserStore
	hub       *websocket.Hub
	validate  *requestValidator
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, hub *websocket.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{userStore: us, hub: hub, validate: newRequestValidator(), logger: logger}
}

func (h *UserHandler) publish(action string, id int64, r *http.Request) {
	if h.hub != nil {
		h.hub.Publish(websocket.NewEvent(websocket.EntityUser, action, id, auth.UserID(r.Context())))
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	PIN         string `json:"pin" validate:"required"`
	AvatarColor string `json:"avatarColor" validate:"omitempty,hexcolor"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.AvatarColor = strings.TrimSpace(req.AvatarColor)

	if req.Name == "" || req.PIN == "" {
		writeErrorJSON(w, http.StatusBadRequest, "Name and PIN are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPIN(req.PIN)
	if errors.Is(err, auth.ErrInvalidPIN) || errors.Is(err, auth.ErrPINTooLong) {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.userStore.Create(req.Name, hash, req.AvatarColor)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user created", "user_id", user.ID)
	h.publish(websocket.ActionCreated, user.ID, r)
	writeJSON(w, http.StatusCreated, user)
}

// Delete removes the user named by the path id. Their chores stay and
// become unassigned.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid id")
		return
	}
	if h.delete(w, r, id) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteByQuery is Delete with the id in the query string.
func (h *UserHandler) DeleteByQuery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") == "" {
		writeErrorJSON(w, http.StatusBadRequest, "User ID is required")
		return
	}
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid id")
		return
	}
	if h.delete(w, r, id) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, id int64) bool {
	existing, err := h.userStore.GetByID(id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return false
	}
	if existing == nil {
		writeErrorJSON(w, http.StatusNotFound, "user not found")
		return false
	}

	if err := h.userStore.Delete(id); err != nil {
		respondError(w, r, h.logger, err)
		return false
	}

	h.logger.Info("user deleted", "user_id", id)
	h.publish(websocket.ActionDeleted, id, r)
	return true
}
