package planstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GasiorMateusz/dietplanner/internal/plan"
)

// AcceptedPlan is a stored, accepted plan. PlanData holds the wire-format
// JSON of either a DayPlan or a MultiDayPlan.
type AcceptedPlan struct {
	ID             int64
	UserID         string
	ConversationID string
	PlanData       []byte
	CreatedAt      time.Time
}

// Repository is a database-backed repository for accepted plans.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveDayPlan serializes and stores an accepted single-day plan, returning
// the stored plan's ID.
func (r *Repository) SaveDayPlan(ctx context.Context, userID, conversationID string, p plan.DayPlan) (int64, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal day plan: %w", err)
	}
	return r.save(ctx, userID, conversationID, data)
}

// SaveMultiDayPlan serializes and stores an accepted multi-day plan,
// returning the stored plan's ID.
func (r *Repository) SaveMultiDayPlan(ctx context.Context, userID, conversationID string, p plan.MultiDayPlan) (int64, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal multi-day plan: %w", err)
	}
	return r.save(ctx, userID, conversationID, data)
}

func (r *Repository) save(ctx context.Context, userID, conversationID string, data []byte) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, conversation_id, plan_data, created_at) VALUES (?, ?, ?, ?)`,
		userID, conversationID, data, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save plan: %w", err)
	}
	return result.LastInsertId()
}

// ListRecentByUserID retrieves the N most recent accepted plans for a user.
func (r *Repository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]AcceptedPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, conversation_id, plan_data, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []AcceptedPlan
	for rows.Next() {
		var p AcceptedPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.ConversationID, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
