package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GasiorMateusz/dietplanner/internal/interpret"
	"github.com/GasiorMateusz/dietplanner/internal/plan"

	"github.com/google/uuid"
)

// Conversation is one planning session: an append-only turn log plus the
// startup parameters that determine the plan shape hint.
type Conversation struct {
	ID        string
	UserID    string
	Mode      interpret.Shape
	PlanDays  int
	CreatedAt time.Time
}

// Repository provides access to conversation and turn persistence.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create starts a new conversation. planDays > 1 puts it in multi-day mode.
func (r *Repository) Create(ctx context.Context, userID string, planDays int) (*Conversation, error) {
	if planDays < 1 {
		planDays = 1
	}
	mode := interpret.ShapeSingleDay
	if planDays > 1 {
		mode = interpret.ShapeMultiDay
	}
	c := &Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      mode,
		PlanDays:  planDays,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, mode, plan_days, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, modeToString(c.Mode), c.PlanDays, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return c, nil
}

// Get retrieves a conversation by ID. Returns nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, mode, plan_days, created_at FROM conversations WHERE id = ?`, id)

	var c Conversation
	var mode string
	if err := row.Scan(&c.ID, &c.UserID, &mode, &c.PlanDays, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	c.Mode = modeFromString(mode)
	return &c, nil
}

// LatestForUser returns the user's most recent conversation, or nil.
func (r *Repository) LatestForUser(ctx context.Context, userID string) (*Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, mode, plan_days, created_at FROM conversations
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`, userID)

	var c Conversation
	var mode string
	if err := row.Scan(&c.ID, &c.UserID, &mode, &c.PlanDays, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest conversation: %w", err)
	}
	c.Mode = modeFromString(mode)
	return &c, nil
}

// AppendTurn appends one turn to the conversation's log. Turns are never
// updated or deleted afterwards.
func (r *Repository) AppendTurn(ctx context.Context, conversationID string, turn plan.ChatTurn) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_turns (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, string(turn.Role), turn.Content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// Turns returns the conversation's turn log in insertion order.
func (r *Repository) Turns(ctx context.Context, conversationID string) ([]plan.ChatTurn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content FROM chat_turns WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	defer rows.Close()

	var turns []plan.ChatTurn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, plan.ChatTurn{Role: plan.Role(role), Content: content})
	}
	return turns, rows.Err()
}

func modeToString(s interpret.Shape) string {
	if s == interpret.ShapeMultiDay {
		return "multi_day"
	}
	return "single_day"
}

func modeFromString(s string) interpret.Shape {
	if s == "multi_day" {
		return interpret.ShapeMultiDay
	}
	return interpret.ShapeSingleDay
}
