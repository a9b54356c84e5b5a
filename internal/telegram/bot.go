package telegram

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/game"
	"github.com/reznikily/field-of-wonders-bot/internal/service"
	"github.com/reznikily/field-of-wonders-bot/internal/storage"
	"github.com/reznikily/field-of-wonders-bot/migrations"
)

type Bot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
}

func NewBot() (*Bot, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system variables")
	}

	botToken := os.Getenv("TELEGRAM_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is not set")
	}

	if err := migrations.Up(dsn); err != nil {
		return nil, err
	}

	store, err := storage.New(dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(); err != nil {
		return nil, fmt.Errorf("cannot ping db: %w", err)
	}
	log.Info().Msg("connected to postgres")

	svc := service.New(store)
	handler := NewHandler(botAPI, svc, game.NewStore())

	return &Bot{
		bot:     botAPI,
		handler: handler,
	}, nil
}

// Start - цикл получения обновлений. Обновления одного чата приходят
// от Telegram по порядку; короткие команды отрабатывают прямо здесь,
// долгие процессы (регистрация, игровой цикл) живут в своих горутинах.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	log.Info().Str("username", b.bot.Self.UserName).Msg("bot started")

	for update := range updates {
		switch {
		case update.Message != nil:
			msg := update.Message
			if !msg.IsCommand() {
				b.handler.HandleGameInput(msg)
				continue
			}
			switch msg.Command() {
			case "start":
				b.handler.HandleStart(msg)
			case "rules":
				b.handler.HandleRules(msg)
			case "play":
				b.handler.HandlePlay(msg)
			case "profile":
				b.handler.HandleProfile(msg)
			case "addquestion":
				b.handler.HandleAddQuestion(msg)
			case "question":
				b.handler.HandleQuestion(msg)
			case "used":
				b.handler.HandleUsed(msg)
			case "stop":
				b.handler.HandleStop(msg)
			default:
				b.handler.HandleUnknown(msg)
			}
		case update.CallbackQuery != nil:
			b.handler.HandleCallback(update.CallbackQuery)
		}
	}
}
