package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BuildTipsPrompt asks for a few short tips on completing one chore.
func BuildTipsPrompt(c ChoreFacts) string {
	description := c.Description
	if description == "" {
		description = "No description"
	}
	room := c.RoomLocation
	if room == "" {
		room = "Not specified"
	}
	estimate := "Not specified"
	if c.EstimatedMinutes != nil && *c.EstimatedMinutes > 0 {
		estimate = fmt.Sprintf("%d minutes", *c.EstimatedMinutes)
	}

	var b strings.Builder
	b.WriteString("You are a helpful household assistant. Given this chore:\n")
	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Room: %s\n", room)
	fmt.Fprintf(&b, "Difficulty: %s\n", c.Difficulty)
	fmt.Fprintf(&b, "Category: %s\n", c.Category)
	fmt.Fprintf(&b, "Estimated time: %s\n\n", estimate)
	b.WriteString("Provide 2-3 brief, practical tips to complete this chore efficiently. Be concise and actionable.")
	return b.String()
}

type promptChore struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	DueDate          string `json:"dueDate"`
	Priority         int    `json:"priority"`
	Category         string `json:"category"`
	Room             string `json:"room"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// BuildPrioritizationPrompt asks the model to return the chore ids in the
// order they should be done.
func BuildPrioritizationPrompt(chores []ChoreFacts) (string, error) {
	list := make([]promptChore, 0, len(chores))
	for _, c := range chores {
		due := "no due date"
		if c.DueDate != nil {
			due = c.DueDate.UTC().Format("2006-01-02")
		}
		room := c.RoomLocation
		if room == "" {
			room = "unspecified"
		}
		list = append(list, promptChore{
			ID:               c.ID,
			Title:            c.Title,
			DueDate:          due,
			Priority:         c.Priority,
			Category:         c.Category,
			Room:             room,
			EstimatedMinutes: estimateOrDefault(c.EstimatedMinutes),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return "", fmt.Errorf("encode chores: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are organizing household chores. Given these chores:\n")
	b.WriteString(strings.TrimRight(buf.String(), "\n"))
	b.WriteString("\n\nReorder them in the most logical sequence considering:\n")
	b.WriteString("- Urgency (due dates - earlier is more urgent)\n")
	b.WriteString("- Priority level (1 is highest, 5 is lowest)\n")
	b.WriteString("- Dependencies (e.g., shopping before cooking)\n")
	b.WriteString("- Efficiency (group by room/type when possible)\n\n")
	b.WriteString("Return ONLY a JSON array of chore IDs in optimal order, nothing else. Example: [3, 1, 5, 2, 4]")
	return b.String(), nil
}

// BuildRebalancePrompt describes each user's workload plus any unassigned
// chores and asks for reassignment suggestions.
func BuildRebalancePrompt(workloads []Workload, unassigned []ChoreFacts) string {
	var b strings.Builder
	b.WriteString("You are balancing household chores among family members.\n\n")
	b.WriteString("Current workload by person:\n")
	for i, w := range workloads {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s: %d chores, ~%d mins total (Easy: %d, Medium: %d, Hard: %d)",
			w.UserName, w.ChoreCount, w.TotalMinutes,
			w.DifficultyBreakdown.Easy, w.DifficultyBreakdown.Medium, w.DifficultyBreakdown.Hard)
	}
	b.WriteString("\n\n")

	if len(unassigned) > 0 {
		b.WriteString("Unassigned chores that need assignment:\n")
		for i, c := range unassigned {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- ID %d: \"%s\" (%s, ~%d mins)", c.ID, c.Title, c.Difficulty, estimateOrDefault(c.EstimatedMinutes))
		}
	} else {
		b.WriteString("All chores are assigned.")
	}

	b.WriteString("\n\nSuggest reassignments to balance the workload fairly. Consider difficulty and time.\n")
	b.WriteString("Return ONLY a JSON array of suggestions. Example:\n")
	b.WriteString(`[{"choreId": 5, "suggestedUserId": 2, "reason": "User 2 has fewer hard chores"}]`)
	b.WriteString("\n\nIf workload is already balanced, return an empty array: []")
	return b.String()
}
