package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/telegram"
)

func main() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	bot, err := telegram.NewBot()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	bot.Start()
}
