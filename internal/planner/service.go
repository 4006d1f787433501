package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/choreboard/internal/ai"
	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
)

// ChoreStore is the persistence the planner reads and writes chores through.
type ChoreStore interface {
	ListIncomplete() ([]model.Chore, error)
	SetPriority(id int64, priority int) error
	SetAssignee(choreID, userID int64) error
}

// UserLister lists household members.
type UserLister interface {
	List() ([]model.User, error)
}

// ReorderResult is the outcome of a reorder.
type ReorderResult struct {
	OrderedIDs []int64 `json:"orderedIds"`
	Message    string  `json:"message"`
}

// RebalanceResult is the outcome of a rebalance.
type RebalanceResult struct {
	Suggestions []ai.Suggestion `json:"suggestions"`
	Workloads   []ai.Workload   `json:"workloads"`
	Applied     int             `json:"applied"`
	Skipped     int             `json:"skipped"`
	Message     string          `json:"message"`

	// AppliedIDs are the chores actually reassigned.
	AppliedIDs []int64 `json:"appliedIds"`
}

// Service runs the AI-assisted planning operations.
type Service struct {
	gen     ai.Generator
	chores  ChoreStore
	users   UserLister
	applier *Applier
	logger  *slog.Logger
}

func NewService(gen ai.Generator, chores ChoreStore, users UserLister, logger *slog.Logger) *Service {
	return &Service{
		gen:     gen,
		chores:  chores,
		users:   users,
		applier: NewApplier(chores, logger),
		logger:  logger,
	}
}

// Reorder asks the model for the best order of chores and rewrites each
// chore's priority from its position. A reply with no usable ordering keeps
// the input order.
func (s *Service) Reorder(ctx context.Context, chores []ai.ChoreFacts) (ReorderResult, error) {
	if chores == nil {
		return ReorderResult{}, &ValidationError{Message: "Chores array is required"}
	}
	if len(chores) == 0 {
		return ReorderResult{OrderedIDs: []int64{}, Message: "No chores to prioritize"}, nil
	}

	prompt, err := ai.BuildPrioritizationPrompt(chores)
	if err != nil {
		return ReorderResult{}, fmt.Errorf("build prioritization prompt: %w", err)
	}

	text, err := s.generate(ctx, "reorder", prompt)
	if err != nil {
		return ReorderResult{}, err
	}

	input := make([]int64, len(chores))
	for i, c := range chores {
		input[i] = c.ID
	}
	parsed, fellBack := ai.ParseOrdering(text, input)
	if fellBack {
		metrics.AIOrderingFallbacksTotal.Inc()
		s.logger.Warn("no ordering in model reply, keeping input order", "chores", len(chores))
	}
	ordered := NormalizeOrdering(parsed, input)

	for _, a := range MapPriorities(ordered) {
		if err := s.chores.SetPriority(a.ChoreID, a.Priority); err != nil {
			return ReorderResult{}, fmt.Errorf("update priorities: %w", err)
		}
		metrics.PriorityUpdatesTotal.Inc()
	}

	metrics.AIRequestsTotal.WithLabelValues("reorder", "ok").Inc()
	s.logger.Info("chores reordered", "chores", len(ordered), "fell_back", fellBack)
	return ReorderResult{OrderedIDs: ordered, Message: "Chores prioritized successfully"}, nil
}

// Rebalance summarizes each user's workload, asks the model for
// reassignments and applies the ones that name a known user and an
// incomplete chore.
func (s *Service) Rebalance(ctx context.Context) (RebalanceResult, error) {
	users, err := s.users.List()
	if err != nil {
		return RebalanceResult{}, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return RebalanceResult{}, ErrNoUsers
	}

	chores, err := s.chores.ListIncomplete()
	if err != nil {
		return RebalanceResult{}, fmt.Errorf("list incomplete chores: %w", err)
	}

	workloads := ComputeWorkloads(users, chores)
	prompt := ai.BuildRebalancePrompt(workloads, Unassigned(chores))

	text, err := s.generate(ctx, "rebalance", prompt)
	if err != nil {
		return RebalanceResult{}, err
	}

	suggestions, err := ai.ParseSuggestions(text)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("rebalance", "malformed").Inc()
		s.logger.Warn("unreadable reassignment reply", "error", err)
		return RebalanceResult{}, fmt.Errorf("parse suggestions: %w", err)
	}

	knownUsers := make(map[int64]bool, len(users))
	for _, u := range users {
		knownUsers[u.ID] = true
	}
	openChores := make(map[int64]bool, len(chores))
	for _, c := range chores {
		openChores[c.ID] = true
	}

	appliedIDs, skipped, err := s.applier.Apply(suggestions, knownUsers, openChores)
	applied := len(appliedIDs)
	metrics.ReassignmentsTotal.WithLabelValues("applied").Add(float64(applied))
	metrics.ReassignmentsTotal.WithLabelValues("skipped").Add(float64(skipped))
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("rebalance", "error").Inc()
		return RebalanceResult{}, err
	}
	metrics.AIRequestsTotal.WithLabelValues("rebalance", "ok").Inc()

	message := "Workload is already balanced"
	if len(suggestions) > 0 {
		message = fmt.Sprintf("Applied %d reassignment(s)", applied)
	}

	s.logger.Info("chores rebalanced", "suggestions", len(suggestions), "applied", applied, "skipped", skipped)
	return RebalanceResult{
		Suggestions: suggestions,
		Workloads:   workloads,
		Applied:     applied,
		Skipped:     skipped,
		Message:     message,
		AppliedIDs:  appliedIDs,
	}, nil
}

// Tips asks the model for short advice on completing one chore.
func (s *Service) Tips(ctx context.Context, chore ai.ChoreFacts) (string, error) {
	if strings.TrimSpace(chore.Title) == "" {
		return "", &ValidationError{Message: "Chore data is required"}
	}
	text, err := s.generate(ctx, "tips", ai.BuildTipsPrompt(chore))
	if err != nil {
		return "", err
	}
	metrics.AIRequestsTotal.WithLabelValues("tips", "ok").Inc()
	return text, nil
}

func (s *Service) generate(ctx context.Context, op, prompt string) (string, error) {
	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	metrics.AIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
		s.logger.Error("model call failed", "operation", op, "error", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return text, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ai.ErrServiceNotRunning):
		return "not_running"
	case errors.Is(err, ai.ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, ai.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
