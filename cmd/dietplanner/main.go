package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GasiorMateusz/dietplanner/internal/clipper"
	"github.com/GasiorMateusz/dietplanner/internal/config"
	"github.com/GasiorMateusz/dietplanner/internal/conversation"
	"github.com/GasiorMateusz/dietplanner/internal/database"
	"github.com/GasiorMateusz/dietplanner/internal/llm"
	"github.com/GasiorMateusz/dietplanner/internal/metrics"
	"github.com/GasiorMateusz/dietplanner/internal/planner"
	"github.com/GasiorMateusz/dietplanner/internal/planstore"
	"github.com/GasiorMateusz/dietplanner/internal/server"
	"github.com/GasiorMateusz/dietplanner/internal/telegram"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize Infrastructure (LLMs)
	geminiClient, geminiCloser, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiCloser.Close()

	groqClient := llm.NewGroqClient(cfg)

	// Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Initialize Repositories
	convRepo := conversation.NewRepository(db.SQL)
	planRepo := planstore.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 4. Initialize Services
	dietPlanner := planner.NewPlanner(geminiClient, convRepo, planRepo, metricsStore)
	recipeClipper := clipper.NewClipper(groqClient)

	// 5. Initialize HTTP API
	mux := http.NewServeMux()
	mux.Handle("/", server.NewServer(cfg, dietPlanner, convRepo).Handler())

	// 6. Initialize Telegram Bot (optional surface)
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(cfg, dietPlanner, recipeClipper, convRepo, metricsStore)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram Bot: %v", err)
		}
		mux.HandleFunc("/webhook", bot.WebhookHandler())
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, telegram surface disabled")
	}

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Diet Planner Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
