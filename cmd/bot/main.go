package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/mapclick/map-quiz-bot/internal/config"
	"github.com/mapclick/map-quiz-bot/internal/delivery/telegram"
	"github.com/mapclick/map-quiz-bot/internal/logger"
	"github.com/mapclick/map-quiz-bot/internal/quiz"
	"github.com/mapclick/map-quiz-bot/internal/repository"
	"github.com/mapclick/map-quiz-bot/internal/service"
	"github.com/mapclick/map-quiz-bot/internal/storage"
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		log.Panic(err)
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "About the bot",
		},
		{
			Command:     "map",
			Description: "Show the quiz map",
		},
		{
			Command:     "quiz",
			Description: "Start a quiz",
		},
		{
			Command:     "regions",
			Description: "List all map regions",
		},
		{
			Command:     "scores",
			Description: "High scores",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	_, err = bot.Request(tgbotapi.NewSetMyCommands(commands...))
	if err != nil {
		log.Printf("Failed to set bot commands: %v", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	regionRepo, err := repository.NewRegionRepository(cfg.RegionsJSONPath)
	if err != nil {
		log.Fatal(err)
	}

	scoreboard := service.NewScoreboard()
	sessions := storage.NewSessionStore()

	quizCfg := quiz.Config{
		MaxGuesses:   cfg.Quiz.MaxGuesses,
		AdvanceDelay: cfg.Quiz.AdvanceDelay,
		WrongColors:  cfg.Quiz.WrongColors,
		CorrectColor: cfg.Quiz.CorrectColor,
	}

	handler := telegram.NewHandler(
		bot,
		zl,
		regionRepo,
		scoreboard,
		sessions,
		quizCfg,
		cfg.MapImagePath,
		cfg.AudioDir,
	)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		log.Panic(err)
	}

	log.Println("shutdown signal received")
}
