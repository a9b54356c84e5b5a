package telegram

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

// runRegistration - отсчёт регистрации одной игры: три шага с
// напоминаниями, затем проверка состава. Запись об открытой
// регистрации снимается на любом выходе.
func (h *Handler) runRegistration(chatID int64, newGame *storage.Game, question *storage.Question) {
	defer h.closeRegistration(chatID)

	time.Sleep(h.RegistrationStep)
	sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgRegistration10Sec))
	time.Sleep(h.RegistrationStep)
	sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgRegistration5Sec))
	time.Sleep(h.RegistrationStep)

	players, err := h.Service.Participants(newGame.ID)
	if err != nil {
		log.Error().Err(err).Int64("game_id", newGame.ID).Msg("load participants failed")
		h.abortForming(chatID, newGame.ID)
		return
	}

	if len(players) < 2 {
		sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgNotEnoughPlayers))
		if err := h.Service.AbortGame(newGame.ID); err != nil {
			log.Error().Err(err).Int64("game_id", newGame.ID).Msg("abort game failed")
		}
		return
	}

	sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgGameStarted))
	h.startRound(chatID, newGame, question, players)
}

func (h *Handler) abortForming(chatID, gameID int64) {
	sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgGameError))
	if err := h.Service.AbortGame(gameID); err != nil {
		log.Error().Err(err).Int64("game_id", gameID).Msg("abort game failed")
	}
}

// startRound создаёт сессию из подтверждённого состава и запускает
// игровой цикл чата.
func (h *Handler) startRound(chatID int64, newGame *storage.Game, question *storage.Question, players []storage.Participant) {
	word := strings.ToUpper(question.Answer)
	sess, err := h.Sessions.Create(chatID, newGame.ID, question.Text, word, players)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("create session failed")
		return
	}

	go h.runGame(sess)
}
