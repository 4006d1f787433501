package planner

import (
	"github.com/dukerupert/choreboard/internal/ai"
	"github.com/dukerupert/choreboard/internal/model"
)

// ComputeWorkloads summarizes the incomplete chores assigned to each user,
// in user order. Chores without an estimate count as 30 minutes.
func ComputeWorkloads(users []model.User, chores []model.Chore) []ai.Workload {
	index := make(map[int64]int, len(users))
	workloads := make([]ai.Workload, len(users))
	for i, u := range users {
		index[u.ID] = i
		workloads[i] = ai.Workload{UserID: u.ID, UserName: u.Name}
	}

	for _, c := range chores {
		if c.Completed || c.AssignedTo == nil {
			continue
		}
		i, ok := index[*c.AssignedTo]
		if !ok {
			continue
		}
		w := &workloads[i]
		w.ChoreCount++
		if c.EstimatedMinutes != nil && *c.EstimatedMinutes > 0 {
			w.TotalMinutes += *c.EstimatedMinutes
		} else {
			w.TotalMinutes += ai.DefaultEstimateMinutes
		}
		switch c.Difficulty {
		case model.DifficultyEasy:
			w.DifficultyBreakdown.Easy++
		case model.DifficultyMedium:
			w.DifficultyBreakdown.Medium++
		case model.DifficultyHard:
			w.DifficultyBreakdown.Hard++
		}
	}
	return workloads
}

// Unassigned returns the incomplete chores with no assignee.
func Unassigned(chores []model.Chore) []ai.ChoreFacts {
	var out []ai.ChoreFacts
	for _, c := range chores {
		if c.Completed || c.AssignedTo != nil {
			continue
		}
		out = append(out, FactsFromChore(c))
	}
	return out
}

// FactsFromChore copies the prompt-relevant fields of c.
func FactsFromChore(c model.Chore) ai.ChoreFacts {
	return ai.ChoreFacts{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		DueDate:          c.DueDate,
		Priority:         c.Priority,
		Category:         c.Category,
		EstimatedMinutes: c.EstimatedMinutes,
		RoomLocation:     c.RoomLocation,
		Difficulty:       c.Difficulty,
	}
}
