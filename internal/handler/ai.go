package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/choreboard/internal/ai"
	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/planner"
	"github.com/dukerupert/choreboard/internal/websocket"
)

type AIHandler struct {
	planner *planner.Service
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewAIHandler(p *planner.Service, hub *websocket.Hub, logger *slog.Logger) *AIHandler {
	return &AIHandler{planner: p, hub: hub, logger: logger}
}

func (h *AIHandler) publish(action string, ids []int64, r *http.Request) {
	if h.hub == nil {
		return
	}
	ev := websocket.NewEvent(websocket.EntityChore, action, 0, auth.UserID(r.Context()))
	ev.IDs = ids
	h.hub.Publish(ev)
}

type prioritizeRequest struct {
	Chores []ai.ChoreFacts `json:"chores"`
}

// Prioritize reorders the posted chores and rewrites their priorities.
func (h *AIHandler) Prioritize(w http.ResponseWriter, r *http.Request) {
	var req prioritizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := h.planner.Reorder(r.Context(), req.Chores)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if len(res.OrderedIDs) > 0 {
		h.publish(websocket.ActionReprioritized, res.OrderedIDs, r)
	}
	writeJSON(w, http.StatusOK, res)
}

// Reassign rebalances open chores across the household.
func (h *AIHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	res, err := h.planner.Rebalance(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if len(res.AppliedIDs) > 0 {
		h.publish(websocket.ActionReassigned, res.AppliedIDs, r)
	}
	writeJSON(w, http.StatusOK, res)
}

type tipsRequest struct {
	Chore *ai.ChoreFacts `json:"chore"`
}

// Tips returns model-written advice for one chore.
func (h *AIHandler) Tips(w http.ResponseWriter, r *http.Request) {
	var req tipsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Chore == nil {
		writeErrorJSON(w, http.StatusBadRequest, "Chore data is required")
		return
	}

	tips, err := h.planner.Tips(r.Context(), *req.Chore)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tips": tips})
}
