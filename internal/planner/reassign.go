package planner

import (
	"fmt"
	"log/slog"

	"github.com/dukerupert/choreboard/internal/ai"
)

// AssigneeWriter persists a single chore assignment.
type AssigneeWriter interface {
	SetAssignee(choreID, userID int64) error
}

// Applier writes reassignment suggestions one at a time.
type Applier struct {
	store  AssigneeWriter
	logger *slog.Logger
}

func NewApplier(store AssigneeWriter, logger *slog.Logger) *Applier {
	return &Applier{store: store, logger: logger}
}

// Apply writes each suggestion whose user is in users and whose chore is in
// chores, and skips the rest. It returns the ids of the chores it wrote.
// Writes are independent: a store error stops the batch and earlier writes
// stay applied.
func (a *Applier) Apply(suggestions []ai.Suggestion, users, chores map[int64]bool) (applied []int64, skipped int, err error) {
	for _, s := range suggestions {
		if !users[s.SuggestedUserID] || !chores[s.ChoreID] {
			a.logger.Warn("skipping reassignment",
				"chore_id", s.ChoreID,
				"user_id", s.SuggestedUserID,
				"known_user", users[s.SuggestedUserID],
				"known_chore", chores[s.ChoreID],
			)
			skipped++
			continue
		}
		if err := a.store.SetAssignee(s.ChoreID, s.SuggestedUserID); err != nil {
			return applied, skipped, fmt.Errorf("apply reassignment: %w", err)
		}
		applied = append(applied, s.ChoreID)
	}
	return applied, skipped, nil
}
