package model

import "time"

const (
	CategoryCleaning    = "cleaning"
	CategoryCooking     = "cooking"
	CategoryMaintenance = "maintenance"
	CategoryShopping    = "shopping"
	CategoryOther       = "other"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

type Chore struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	DueDate           *time.Time `json:"dueDate"`
	Priority          int        `json:"priority"`
	Category          string     `json:"category"`
	EstimatedMinutes  *int       `json:"estimatedMinutes"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurrencePattern string     `json:"recurrencePattern"`
	AssignedTo        *int64     `json:"assignedTo"`
	RoomLocation      string     `json:"roomLocation"`
	Difficulty        string     `json:"difficulty"`
	Notes             string     `json:"notes"`
	Completed         bool       `json:"completed"`
	CompletedAt       *time.Time `json:"completedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ChoreFilter narrows a chore listing. Nil fields are not filtered on.
type ChoreFilter struct {
	AssignedTo *int64
	Completed  *bool
}

// ChoreUpdate is a partial update. Only non-nil fields are written.
// ClearAssignee, ClearDueDate and ClearEstimate null out their columns.
type ChoreUpdate struct {
	Title             *string
	Description       *string
	DueDate           *time.Time
	ClearDueDate      bool
	Priority          *int
	Category          *string
	EstimatedMinutes  *int
	ClearEstimate     bool
	IsRecurring       *bool
	RecurrencePattern *string
	AssignedTo        *int64
	ClearAssignee     bool
	RoomLocation      *string
	Difficulty        *string
	Notes             *string
	Completed         *bool
	CompletedAt       *time.Time
}
