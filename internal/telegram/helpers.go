package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

func sendMessage(bot MessageSender, msg tgbotapi.Chattable) {
	if _, err := bot.Send(msg); err != nil {
		log.Warn().Err(err).Msg("failed to send message")
	}
}

// Pluralize возвращает правильную форму слова в зависимости от числа.
func Pluralize(count int64, forms [3]string) string {
	if count%10 == 1 && count%100 != 11 {
		return forms[0]
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return forms[1]
	}
	return forms[2]
}

// formatScores - строки финального счёта в порядке очереди ходов.
func formatScores(players []storage.Participant, scores map[int64]int64) string {
	lines := make([]string, 0, len(players))
	for _, p := range players {
		score := scores[p.User.ID]
		word := Pluralize(score, [3]string{"очко", "очка", "очков"})
		lines = append(lines, fmt.Sprintf("@%s: %d %s", p.User.Username, score, word))
	}
	return strings.Join(lines, "\n")
}
