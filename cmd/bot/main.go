package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/vzlrn/cardcasebot/internal/bot"
	"github.com/vzlrn/cardcasebot/internal/config"
	"github.com/vzlrn/cardcasebot/internal/logger"
)

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.LogLevel)

	b, err := bot.New(bot.Config{
		Token:        cfg.Token,
		ChannelID:    cfg.ChannelID,
		ListenAddr:   cfg.ListenAddr,
		AssetBaseURL: cfg.AssetBaseURL,
	})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	if err := b.Run(); err != nil {
		slog.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
}
