package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var dueDate, completedAt sql.NullTime
	var estimated, assignedTo sql.NullInt64

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &dueDate, &c.Priority, &c.Category,
		&estimated, &c.IsRecurring, &c.RecurrencePattern, &assignedTo,
		&c.RoomLocation, &c.Difficulty, &c.Notes, &c.Completed, &completedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		c.DueDate = &dueDate.Time
	}
	if estimated.Valid {
		m := int(estimated.Int64)
		c.EstimatedMinutes = &m
	}
	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}

const choreCols = `id, title, description, due_date, priority, category, estimated_minutes, is_recurring, recurrence_pattern, assigned_to, room_location, difficulty, notes, completed, completed_at, created_at, updated_at`

// Incomplete chores first, most urgent first, dated chores before undated.
const choreOrder = ` ORDER BY completed ASC, priority ASC, due_date IS NULL, due_date ASC, id ASC`

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// Create inserts c. Zero-valued priority, category and difficulty take their
// defaults, and a completed chore without a completion time is stamped now.
func (s *ChoreStore) Create(c model.Chore) (*model.Chore, error) {
	if c.Priority == 0 {
		c.Priority = model.DefaultPriority
	}
	if c.Category == "" {
		c.Category = model.CategoryOther
	}
	if c.Difficulty == "" {
		c.Difficulty = model.DifficultyMedium
	}
	if c.Completed && c.CompletedAt == nil {
		now := time.Now().UTC()
		c.CompletedAt = &now
	}
	if !c.Completed {
		c.CompletedAt = nil
	}

	result, err := s.db.Exec(
		`INSERT INTO chores (title, description, due_date, priority, category, estimated_minutes, is_recurring, recurrence_pattern, assigned_to, room_location, difficulty, notes, completed, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Description, nullTime(c.DueDate), c.Priority, c.Category,
		nullInt(c.EstimatedMinutes), c.IsRecurring, c.RecurrencePattern, nullInt64(c.AssignedTo),
		c.RoomLocation, c.Difficulty, c.Notes, c.Completed, nullTime(c.CompletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) List(f model.ChoreFilter) ([]model.Chore, error) {
	var where []string
	var args []any
	if f.AssignedTo != nil {
		where = append(where, "assigned_to = ?")
		args = append(args, *f.AssignedTo)
	}
	if f.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, *f.Completed)
	}

	query := `SELECT ` + choreCols + ` FROM chores`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += choreOrder

	return s.query(query, args...)
}

// ListIncomplete returns every chore not yet completed.
func (s *ChoreStore) ListIncomplete() ([]model.Chore, error) {
	return s.query(`SELECT ` + choreCols + ` FROM chores WHERE completed = 0` + choreOrder)
}

// ListCompletedRecurring returns completed chores that repeat.
func (s *ChoreStore) ListCompletedRecurring() ([]model.Chore, error) {
	return s.query(`SELECT ` + choreCols + ` FROM chores WHERE completed = 1 AND is_recurring = 1` + choreOrder)
}

func (s *ChoreStore) query(query string, args ...any) ([]model.Chore, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// Update applies a partial update and returns the updated chore, or nil if no
// chore has that id.
func (s *ChoreStore) Update(id int64, u model.ChoreUpdate) (*model.Chore, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Description != nil {
		set("description", *u.Description)
	}
	if u.ClearDueDate {
		set("due_date", nil)
	} else if u.DueDate != nil {
		set("due_date", nullTime(u.DueDate))
	}
	if u.Priority != nil {
		set("priority", *u.Priority)
	}
	if u.Category != nil {
		set("category", *u.Category)
	}
	if u.ClearEstimate {
		set("estimated_minutes", nil)
	} else if u.EstimatedMinutes != nil {
		set("estimated_minutes", *u.EstimatedMinutes)
	}
	if u.IsRecurring != nil {
		set("is_recurring", *u.IsRecurring)
	}
	if u.RecurrencePattern != nil {
		set("recurrence_pattern", *u.RecurrencePattern)
	}
	if u.ClearAssignee {
		set("assigned_to", nil)
	} else if u.AssignedTo != nil {
		set("assigned_to", *u.AssignedTo)
	}
	if u.RoomLocation != nil {
		set("room_location", *u.RoomLocation)
	}
	if u.Difficulty != nil {
		set("difficulty", *u.Difficulty)
	}
	if u.Notes != nil {
		set("notes", *u.Notes)
	}
	if u.Completed != nil {
		set("completed", *u.Completed)
		switch {
		case !*u.Completed:
			set("completed_at", nil)
		case u.CompletedAt != nil:
			set("completed_at", nullTime(u.CompletedAt))
		default:
			set("completed_at", nullTime(ptrNow()))
		}
	}

	if len(sets) == 0 {
		return s.GetByID(id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	_, err := s.db.Exec(`UPDATE chores SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// SetPriority writes a single priority. Updating a missing id is a no-op.
func (s *ChoreStore) SetPriority(id int64, priority int) error {
	priority = min(max(priority, model.MinPriority), model.MaxPriority)
	_, err := s.db.Exec(
		`UPDATE chores SET priority = ?, updated_at = ? WHERE id = ?`,
		priority, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set priority for chore %d: %w", id, err)
	}
	return nil
}

// SetAssignee points a chore at a user. Updating a missing id is a no-op.
func (s *ChoreStore) SetAssignee(id, userID int64) error {
	_, err := s.db.Exec(
		`UPDATE chores SET assigned_to = ?, updated_at = ? WHERE id = ?`,
		userID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set assignee for chore %d: %w", id, err)
	}
	return nil
}

// Reopen marks a chore incomplete again with a new due date.
func (s *ChoreStore) Reopen(id int64, due time.Time) error {
	_, err := s.db.Exec(
		`UPDATE chores SET completed = 0, completed_at = NULL, due_date = ?, updated_at = ? WHERE id = ?`,
		due.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("reopen chore %d: %w", id, err)
	}
	return nil
}

func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

func ptrNow() *time.Time {
	now := time.Now().UTC()
	return &now
}
