package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/GasiorMateusz/dietplanner/internal/config"
	"github.com/GasiorMateusz/dietplanner/internal/database"
	"github.com/GasiorMateusz/dietplanner/internal/metrics"
	"github.com/GasiorMateusz/dietplanner/internal/planstore"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metrics.NewStore(db.SQL).Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Removed %d old metric records.\n", affected)
	case "metrics-report":
		reportCmd := flag.NewFlagSet("metrics-report", flag.ExitOnError)
		days := reportCmd.Int("days", 7, "Report usage for the last N days")
		reportCmd.Parse(os.Args[2:])

		usage, err := metrics.NewStore(db.SQL).GetDailyUsage(*days)
		if err != nil {
			log.Fatalf("Report failed: %v", err)
		}
		for _, d := range usage {
			fmt.Printf("%s  prompt=%d completion=%d execs=%d\n",
				d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution)
		}
	case "plans":
		plansCmd := flag.NewFlagSet("plans", flag.ExitOnError)
		user := plansCmd.String("user", "", "User ID to list accepted plans for")
		limit := plansCmd.Int("limit", 10, "Maximum number of plans to list")
		plansCmd.Parse(os.Args[2:])
		if *user == "" {
			log.Fatal("plans requires -user")
		}

		accepted, err := planstore.NewRepository(db.SQL).ListRecentByUserID(ctx, *user, *limit)
		if err != nil {
			log.Fatalf("Listing plans failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, p := range accepted {
			if err := enc.Encode(p); err != nil {
				log.Fatalf("Failed to encode plan: %v", err)
			}
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: dietplanner-admin <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  metrics-cleanup    Remove old metric records")
	fmt.Println("  metrics-report     Print daily token usage")
	fmt.Println("  plans              List a user's accepted plans")
}
