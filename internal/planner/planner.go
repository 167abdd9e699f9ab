package planner

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"text/template"
	"time"

	"github.com/GasiorMateusz/dietplanner/internal/conversation"
	"github.com/GasiorMateusz/dietplanner/internal/interpret"
	"github.com/GasiorMateusz/dietplanner/internal/llm"
	"github.com/GasiorMateusz/dietplanner/internal/metrics"
	"github.com/GasiorMateusz/dietplanner/internal/plan"
	"github.com/GasiorMateusz/dietplanner/internal/planstore"
	"github.com/GasiorMateusz/dietplanner/internal/shared"
)

//go:embed advisor_prompt.md
var advisorPrompt string

const agentName = "Advisor"

// Reply is what the chat surface renders for one assistant turn.
type Reply struct {
	// Display is the sanitized chat-bubble text; never empty.
	Display string
	// Commentary is the assistant's dedicated commentary field, when present.
	Commentary    string
	HasCommentary bool
	// HasPlan reports whether a current plan resolves after this turn.
	HasPlan bool
}

// Planner drives planning conversations: it sends the turn log to the LLM,
// records the assistant's reply, and resolves/accepts the current plan.
type Planner struct {
	textGen      llm.TextGenerator
	convRepo     *conversation.Repository
	planRepo     *planstore.Repository
	metricsStore *metrics.Store
}

// NewPlanner creates a new Planner instance.
func NewPlanner(
	textGen llm.TextGenerator,
	convRepo *conversation.Repository,
	planRepo *planstore.Repository,
	metricsStore *metrics.Store,
) *Planner {
	return &Planner{
		textGen:      textGen,
		convRepo:     convRepo,
		planRepo:     planRepo,
		metricsStore: metricsStore,
	}
}

// StartConversation creates a fresh conversation for the user. planDays > 1
// selects multi-day mode.
func (p *Planner) StartConversation(ctx context.Context, userID string, planDays int) (*conversation.Conversation, error) {
	return p.convRepo.Create(ctx, userID, planDays)
}

// SendMessage appends the user's message, asks the model for the next
// assistant turn, appends it, and returns the rendering for the chat
// transcript. The user turn is recorded even when the model call fails, so
// the log stays consistent for a retry.
func (p *Planner) SendMessage(ctx context.Context, conv *conversation.Conversation, text string) (Reply, error) {
	if err := p.convRepo.AppendTurn(ctx, conv.ID, plan.ChatTurn{Role: plan.RoleUser, Content: text}); err != nil {
		return Reply{}, err
	}

	turns, err := p.convRepo.Turns(ctx, conv.ID)
	if err != nil {
		return Reply{}, err
	}

	prompt, err := buildAdvisorPrompt(conv, turns)
	if err != nil {
		return Reply{}, err
	}

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if p.metricsStore != nil {
		if merr := p.metricsStore.RecordMeta(shared.AgentMeta{
			AgentName: agentName,
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		}); merr != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", agentName, merr)
		}
	}
	if err != nil {
		return Reply{}, fmt.Errorf("failed to generate assistant reply: %w", err)
	}

	if err := p.convRepo.AppendTurn(ctx, conv.ID, plan.ChatTurn{Role: plan.RoleAssistant, Content: resp.Content}); err != nil {
		return Reply{}, err
	}

	turns = append(turns, plan.ChatTurn{Role: plan.RoleAssistant, Content: resp.Content})
	commentary, hasCommentary := interpret.ExtractCommentary(resp.Content)
	return Reply{
		Display:       interpret.SanitizeForDisplay(resp.Content),
		Commentary:    commentary,
		HasCommentary: hasCommentary,
		HasPlan:       interpret.ResolveCurrent(turns, conv.Mode) != nil,
	}, nil
}

// CurrentPlan resolves the conversation's current plan from its turn log.
// A nil outcome means no valid plan exists yet.
func (p *Planner) CurrentPlan(ctx context.Context, conv *conversation.Conversation) (*interpret.Outcome, error) {
	turns, err := p.convRepo.Turns(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return interpret.ResolveCurrent(turns, conv.Mode), nil
}

// ErrNoCurrentPlan is returned by Accept when the conversation holds no
// resolvable plan.
var ErrNoCurrentPlan = fmt.Errorf("no current plan to accept")

// Accept persists the conversation's current plan and returns the stored
// plan's ID.
func (p *Planner) Accept(ctx context.Context, conv *conversation.Conversation) (int64, error) {
	out, err := p.CurrentPlan(ctx, conv)
	if err != nil {
		return 0, err
	}
	if out == nil {
		return 0, ErrNoCurrentPlan
	}
	if out.Multi != nil {
		return p.planRepo.SaveMultiDayPlan(ctx, conv.UserID, conv.ID, *out.Multi)
	}
	return p.planRepo.SaveDayPlan(ctx, conv.UserID, conv.ID, *out.Day)
}

func buildAdvisorPrompt(conv *conversation.Conversation, turns []plan.ChatTurn) (string, error) {
	tmpl, err := template.New(agentName).Parse(advisorPrompt)
	if err != nil {
		return "", err
	}

	data := struct {
		MultiDay bool
		PlanDays int
		Turns    []plan.ChatTurn
	}{
		MultiDay: conv.Mode == interpret.ShapeMultiDay,
		PlanDays: conv.PlanDays,
		Turns:    turns,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
