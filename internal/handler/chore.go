package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/category"
	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/store"
	"github.com/dukerupert/choreboard/internal/websocket"
)

const (
	categoryTag   = "oneof=cleaning cooking maintenance shopping other"
	difficultyTag = "oneof=easy medium hard"
	recurrenceTag = "oneof=daily weekly monthly"
	priorityTag   = "min=1,max=5"
)

type ChoreHandler struct {
	choreStore *store.ChoreStore
	userStore  *store.UserStore
	hub        *websocket.Hub
	validate   *requestValidator
	logger     *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, us *store.UserStore, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{choreStore: cs, userStore: us, hub: hub, validate: newRequestValidator(), logger: logger}
}

func (h *ChoreHandler) publish(action string, id int64, r *http.Request) {
	if h.hub != nil {
		h.hub.Publish(websocket.NewEvent(websocket.EntityChore, action, id, auth.UserID(r.Context())))
	}
}

type createChoreRequest struct {
	Title             string  `json:"title" validate:"required,max=200"`
	Description       string  `json:"description" validate:"max=2000"`
	DueDate           string  `json:"dueDate"`
	Priority          int     `json:"priority" validate:"omitempty,min=1,max=5"`
	Category          string  `json:"category" validate:"omitempty,oneof=cleaning cooking maintenance shopping other"`
	EstimatedMinutes  *int    `json:"estimatedMinutes" validate:"omitempty,gt=0"`
	IsRecurring       bool    `json:"isRecurring"`
	RecurrencePattern string  `json:"recurrencePattern" validate:"omitempty,oneof=daily weekly monthly"`
	AssignedTo        idValue `json:"assignedTo"`
	RoomLocation      string  `json:"roomLocation" validate:"max=100"`
	Difficulty        string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Notes             string  `json:"notes" validate:"max=2000"`
	Completed         bool    `json:"completed"`
}

// List returns chores, optionally filtered by assignee (?userId=) and
// completion (?completed=true|false).
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter model.ChoreFilter
	q := r.URL.Query()

	if v := q.Get("userId"); v != "" {
		id, err := parseID(v)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.AssignedTo = &id
	}
	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}

	chores, err := h.choreStore.List(filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createChoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeErrorJSON(w, http.StatusBadRequest, "Title is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	c := model.Chore{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		Category:          req.Category,
		EstimatedMinutes:  req.EstimatedMinutes,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		RoomLocation:      strings.TrimSpace(req.RoomLocation),
		Difficulty:        req.Difficulty,
		Notes:             req.Notes,
		Completed:         req.Completed,
	}
	if c.Category == "" {
		c.Category = category.Infer(c.Title)
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		c.DueDate = &due
	}
	if req.AssignedTo > 0 {
		id := int64(req.AssignedTo)
		if !h.userExists(w, r, id) {
			return
		}
		c.AssignedTo = &id
	}

	chore, err := h.choreStore.Create(c)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.publish(websocket.ActionCreated, chore.ID, r)
	writeJSON(w, http.StatusCreated, chore)
}

type updateChoreRequest struct {
	ID                idValue           `json:"id"`
	Title             optional[string]  `json:"title"`
	Description       optional[string]  `json:"description"`
	DueDate           optional[string]  `json:"dueDate"`
	Priority          optional[int]     `json:"priority"`
	Category          optional[string]  `json:"category"`
	EstimatedMinutes  optional[int]     `json:"estimatedMinutes"`
	IsRecurring       optional[bool]    `json:"isRecurring"`
	RecurrencePattern optional[string]  `json:"recurrencePattern"`
	AssignedTo        optional[idValue] `json:"assignedTo"`
	RoomLocation      optional[string]  `json:"roomLocation"`
	Difficulty        optional[string]  `json:"difficulty"`
	Notes             optional[string]  `json:"notes"`
	Completed         optional[bool]    `json:"completed"`
	CompletedAt       optional[string]  `json:"completedAt"`
}

// Update applies a partial update to the chore named by the path id, or by
// the body id on the collection route. Absent fields are left alone and a
// null dueDate or assignedTo clears it.
func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateChoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var id int64
	if r.PathValue("id") != "" {
		var err error
		if id, err = parseIDParam(r); err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "invalid id")
			return
		}
	} else {
		id = int64(req.ID)
		if id <= 0 {
			writeErrorJSON(w, http.StatusBadRequest, "Chore ID is required")
			return
		}
	}

	u, ok := h.buildUpdate(w, r, req)
	if !ok {
		return
	}

	chore, err := h.choreStore.Update(id, u)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if chore == nil {
		writeErrorJSON(w, http.StatusNotFound, "chore not found")
		return
	}

	h.publish(websocket.ActionUpdated, chore.ID, r)
	writeJSON(w, http.StatusOK, chore)
}

// buildUpdate validates req and converts it to a store update. On failure it
// writes the response and returns false.
func (h *ChoreHandler) buildUpdate(w http.ResponseWriter, r *http.Request, req updateChoreRequest) (model.ChoreUpdate, bool) {
	var u model.ChoreUpdate
	fail := func(msg string) (model.ChoreUpdate, bool) {
		writeErrorJSON(w, http.StatusBadRequest, msg)
		return model.ChoreUpdate{}, false
	}
	check := func(field string, value any, tag string) bool {
		if err := h.validate.Var(field, value, tag); err != nil {
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
			return false
		}
		return true
	}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if req.Title.Null || title == "" {
			return fail("Title is required")
		}
		if !check("title", title, "max=200") {
			return model.ChoreUpdate{}, false
		}
		u.Title = &title
	}
	if req.Description.Set {
		u.Description = &req.Description.Value
	}
	if req.DueDate.Set {
		if req.DueDate.Null || strings.TrimSpace(req.DueDate.Value) == "" {
			u.ClearDueDate = true
		} else {
			due, err := parseDueDate(req.DueDate.Value)
			if err != nil {
				return fail(err.Error())
			}
			u.DueDate = &due
		}
	}
	if req.Priority.Set && !req.Priority.Null {
		if !check("priority", req.Priority.Value, priorityTag) {
			return model.ChoreUpdate{}, false
		}
		u.Priority = &req.Priority.Value
	}
	if req.Category.Set && !req.Category.Null {
		if !check("category", req.Category.Value, categoryTag) {
			return model.ChoreUpdate{}, false
		}
		u.Category = &req.Category.Value
	}
	if req.EstimatedMinutes.Set {
		if req.EstimatedMinutes.Null {
			u.ClearEstimate = true
		} else {
			if !check("estimatedMinutes", req.EstimatedMinutes.Value, "gt=0") {
				return model.ChoreUpdate{}, false
			}
			u.EstimatedMinutes = &req.EstimatedMinutes.Value
		}
	}
	if req.IsRecurring.Set && !req.IsRecurring.Null {
		u.IsRecurring = &req.IsRecurring.Value
	}
	if req.RecurrencePattern.Set {
		pattern := req.RecurrencePattern.Value
		if pattern != "" && !check("recurrencePattern", pattern, recurrenceTag) {
			return model.ChoreUpdate{}, false
		}
		u.RecurrencePattern = &pattern
	}
	if req.AssignedTo.Set {
		if req.AssignedTo.Null || req.AssignedTo.Value <= 0 {
			u.ClearAssignee = true
		} else {
			userID := int64(req.AssignedTo.Value)
			if !h.userExists(w, r, userID) {
				return model.ChoreUpdate{}, false
			}
			u.AssignedTo = &userID
		}
	}
	if req.RoomLocation.Set {
		room := strings.TrimSpace(req.RoomLocation.Value)
		u.RoomLocation = &room
	}
	if req.Difficulty.Set && !req.Difficulty.Null {
		if !check("difficulty", req.Difficulty.Value, difficultyTag) {
			return model.ChoreUpdate{}, false
		}
		u.Difficulty = &req.Difficulty.Value
	}
	if req.Notes.Set {
		u.Notes = &req.Notes.Value
	}
	if req.Completed.Set && !req.Completed.Null {
		u.Completed = &req.Completed.Value
		if req.Completed.Value && req.CompletedAt.Set && !req.CompletedAt.Null {
			at, err := time.Parse(time.RFC3339, req.CompletedAt.Value)
			if err != nil {
				return fail("completedAt must be RFC 3339")
			}
			at = at.UTC()
			u.CompletedAt = &at
		}
	}
	return u, true
}

// Delete removes the chore named by the path id.
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
func (h *ChoreHandler) DeleteByQuery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") == "" {
		writeErrorJSON(w, http.StatusBadRequest, "Chore ID is required")
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

func (h *ChoreHandler) delete(w http.ResponseWriter, r *http.Request, id int64) bool {
	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return false
	}
	if existing == nil {
		writeErrorJSON(w, http.StatusNotFound, "chore not found")
		return false
	}

	if err := h.choreStore.Delete(id); err != nil {
		respondError(w, r, h.logger, err)
		return false
	}

	h.publish(websocket.ActionDeleted, id, r)
	return true
}

// userExists writes a 400 and returns false when no user has id.
func (h *ChoreHandler) userExists(w http.ResponseWriter, r *http.Request, id int64) bool {
	user, err := h.userStore.GetByID(id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return false
	}
	if user == nil {
		writeErrorJSON(w, http.StatusBadRequest, "assigned user not found")
		return false
	}
	return true
}
