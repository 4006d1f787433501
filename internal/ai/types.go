package ai

import "time"

// ChoreFacts is the subset of a chore the prompts are built from. Clients
// also send the assignee's name as "assignedTo"; no prompt reads it, so it
// is not decoded.
type ChoreFacts struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	Priority         int        `json:"priority"`
	Category         string     `json:"category"`
	EstimatedMinutes *int       `json:"estimatedMinutes,omitempty"`
	RoomLocation     string     `json:"roomLocation,omitempty"`
	Difficulty       string     `json:"difficulty"`
}

// DifficultyBreakdown counts chores per difficulty level.
type DifficultyBreakdown struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Workload summarizes one user's incomplete chores.
type Workload struct {
	UserID              int64               `json:"userId"`
	UserName            string              `json:"userName"`
	ChoreCount          int                 `json:"choreCount"`
	TotalMinutes        int                 `json:"totalMinutes"`
	DifficultyBreakdown DifficultyBreakdown `json:"difficultyBreakdown"`
}

// Suggestion is one reassignment proposed by the model.
type Suggestion struct {
	ChoreID         int64  `json:"choreId"`
	SuggestedUserID int64  `json:"suggestedUserId"`
	Reason          string `json:"reason"`
}

// DefaultEstimateMinutes stands in for a chore with no time estimate.
const DefaultEstimateMinutes = 30

func estimateOrDefault(m *int) int {
	if m == nil || *m <= 0 {
		return DefaultEstimateMinutes
	}
	return *m
}
