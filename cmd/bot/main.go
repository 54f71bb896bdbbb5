package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"docchat/internal/auth"
	"docchat/internal/config"
	"docchat/internal/llm"
	"docchat/internal/scheduler"
	"docchat/internal/session"
	"docchat/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	authSvc := auth.New(cfg.AllowedUsers)

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider))
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	sessions := session.NewManager()

	if cfg.SessionTTL > 0 {
		sched := scheduler.New(cfg.SessionSweepCron, func() int {
			return sessions.SweepIdle(cfg.SessionTTL)
		})
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start session sweeper: %v", err)
		}
		defer sched.Stop()
	}

	bot, err := telegram.New(cfg.TelegramBotToken, authSvc, llmClient, sessions, cfg.LLMTimeout)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	log.Printf("starting bot with llm provider %q", cfg.LLMProvider)
	bot.Start(context.Background())
}
