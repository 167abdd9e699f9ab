package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GasiorMateusz/dietplanner/internal/clipper"
	"github.com/GasiorMateusz/dietplanner/internal/config"
	"github.com/GasiorMateusz/dietplanner/internal/conversation"
	"github.com/GasiorMateusz/dietplanner/internal/interpret"
	"github.com/GasiorMateusz/dietplanner/internal/metrics"
	"github.com/GasiorMateusz/dietplanner/internal/plan"
	"github.com/GasiorMateusz/dietplanner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the diet planner, and the recipe clipper.
type Bot struct {
	api          *tgbotapi.BotAPI
	planner      *planner.Planner
	clipper      *clipper.Clipper
	convRepo     *conversation.Repository
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	p *planner.Planner,
	c *clipper.Clipper,
	convRepo *conversation.Repository,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		planner:      p,
		clipper:      c,
		convRepo:     convRepo,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// WebhookHandler returns the HTTP handler for Telegram updates.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return b.handleWebhook
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case text == "/plan":
		b.handlePlanCommand(msg)
	case text == "/accept":
		b.handleAcceptCommand(msg)
	case strings.HasPrefix(text, "/days"):
		b.handleDaysCommand(msg, text)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleClipperRequest(msg)
	default:
		b.handleChatMessage(msg, text)
	}
}

// currentConversation returns the user's latest conversation, creating one
// with the configured default length when none exists yet.
func (b *Bot) currentConversation(ctx context.Context, msg *tgbotapi.Message) (*conversation.Conversation, error) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	conv, err := b.convRepo.LatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	return b.planner.StartConversation(ctx, userID, b.cfg.DefaultPlanDays)
}

func (b *Bot) handleDaysCommand(msg *tgbotapi.Message, text string) {
	ctx := context.Background()

	parts := strings.Fields(text)
	if len(parts) != 2 {
		b.send(msg.Chat.ID, "Usage: `/days N` (e.g. `/days 7` for a week-long plan)")
		return
	}
	days, err := strconv.Atoi(parts[1])
	if err != nil || days < 1 {
		b.send(msg.Chat.ID, "Usage: `/days N` — N must be a positive number.")
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	conv, err := b.planner.StartConversation(ctx, userID, days)
	if err != nil {
		log.Printf("Error starting conversation: %v", err)
		b.send(msg.Chat.ID, "❌ Could not start a new conversation.")
		return
	}

	if conv.Mode == interpret.ShapeMultiDay {
		b.send(msg.Chat.ID, fmt.Sprintf("🗓 Started a new *%d-day* plan conversation. Tell me about your goals!", days))
	} else {
		b.send(msg.Chat.ID, "🗓 Started a new *single-day* plan conversation. Tell me about your goals!")
	}
}

func (b *Bot) handleChatMessage(msg *tgbotapi.Message, text string) {
	statusMsg, err := b.sendAndReturn(msg.Chat.ID, "🧑‍🍳 *Thinking...*")
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	conv, err := b.currentConversation(ctx, msg)
	if err != nil {
		log.Printf("Error loading conversation: %v", err)
		b.edit(msg.Chat.ID, statusMsg.MessageID, "❌ Something went wrong, please try again.")
		return
	}

	reply, err := b.planner.SendMessage(ctx, conv, text)
	if err != nil {
		log.Printf("Error generating reply: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.edit(msg.Chat.ID, statusMsg.MessageID, fmt.Sprintf("❌ *Error:*\n```\n%v\n```", safeErr))
		return
	}

	final := renderReply(reply)
	if reply.HasPlan {
		final += "\n\n📋 Use /plan to review the current plan, or /accept to save it."
	}
	b.edit(msg.Chat.ID, statusMsg.MessageID, final)
}

// renderReply composes the single outgoing chat message for an assistant
// turn: the sanitized display text, followed by the model's commentary when
// it provided one in the dedicated field.
func renderReply(reply planner.Reply) string {
	if !reply.HasCommentary {
		return reply.Display
	}
	return reply.Display + "\n\n💬 " + reply.Commentary
}

func (b *Bot) handlePlanCommand(msg *tgbotapi.Message) {
	ctx := context.Background()
	conv, err := b.currentConversation(ctx, msg)
	if err != nil {
		log.Printf("Error loading conversation: %v", err)
		return
	}

	out, err := b.planner.CurrentPlan(ctx, conv)
	if err != nil {
		log.Printf("Error resolving plan: %v", err)
		return
	}
	if out == nil {
		b.send(msg.Chat.ID, "No plan yet. Tell me what you'd like to eat and I'll draft one.")
		return
	}
	b.send(msg.Chat.ID, formatOutcomeMarkdown(out))
}

func (b *Bot) handleAcceptCommand(msg *tgbotapi.Message) {
	ctx := context.Background()
	conv, err := b.currentConversation(ctx, msg)
	if err != nil {
		log.Printf("Error loading conversation: %v", err)
		return
	}

	planID, err := b.planner.Accept(ctx, conv)
	if err == planner.ErrNoCurrentPlan {
		b.send(msg.Chat.ID, "There is no plan to accept yet.")
		return
	}
	if err != nil {
		log.Printf("Error accepting plan: %v", err)
		b.send(msg.Chat.ID, "❌ Could not save the plan.")
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("✅ *Plan saved!* (id %d)", planID))
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusMsg, err := b.sendAndReturn(msg.Chat.ID, "✂️ *Clipping recipe...*")
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	recipe, err := b.clipper.ClipURL(ctx, msg.Text)
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.edit(msg.Chat.ID, statusMsg.MessageID, fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr))
		return
	}

	b.edit(msg.Chat.ID, statusMsg.MessageID, fmt.Sprintf("✅ *%s* clipped. Working it into your plan...", recipe.Title))

	conv, err := b.currentConversation(ctx, msg)
	if err != nil {
		log.Printf("Error loading conversation: %v", err)
		return
	}

	reply, err := b.planner.SendMessage(ctx, conv, recipe.AsConversationMessage(msg.Text))
	if err != nil {
		log.Printf("Error generating reply: %v", err)
		b.send(msg.Chat.ID, "❌ Clipped the recipe, but planning failed. Try asking again.")
		return
	}
	b.send(msg.Chat.ID, renderReply(reply))
}

func formatOutcomeMarkdown(out *interpret.Outcome) string {
	if out.Multi != nil {
		var sb strings.Builder
		sb.WriteString("📅 *Multi-Day Plan*\n")
		s := out.Multi.Summary
		sb.WriteString(fmt.Sprintf("_%d days, avg %d kcal (P %dg / F %dg / C %dg)_\n\n",
			s.NumberOfDays, s.AverageKcal, s.AverageProteins, s.AverageFats, s.AverageCarbs))
		for _, d := range out.Multi.Days {
			title := fmt.Sprintf("Day %d", d.DayNumber)
			if d.Name != "" {
				title = fmt.Sprintf("Day %d — %s", d.DayNumber, d.Name)
			}
			sb.WriteString(fmt.Sprintf("*%s*\n", title))
			writeDayMarkdown(&sb, d.Plan)
			sb.WriteString("\n")
		}
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString("📅 *Daily Plan*\n\n")
	writeDayMarkdown(&sb, *out.Day)
	return sb.String()
}

func writeDayMarkdown(sb *strings.Builder, dp plan.DayPlan) {
	ds := dp.DailySummary
	fmt.Fprintf(sb, "_Total: %d kcal (P %dg / F %dg / C %dg)_\n", ds.Kcal, ds.Proteins, ds.Fats, ds.Carbs)
	for _, m := range dp.Meals {
		name := m.Name
		if name == "" {
			name = "Meal"
		}
		fmt.Fprintf(sb, "• *%s* — %d kcal\n", name, m.Summary.Kcal)
		if m.Ingredients != "" {
			fmt.Fprintf(sb, "  %s\n", m.Ingredients)
		}
	}
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Usage Report*\n\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}
	b.send(chatID, sb.String())
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.sendAndReturn(chatID, text); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendAndReturn(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	return b.api.Send(msg)
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}
