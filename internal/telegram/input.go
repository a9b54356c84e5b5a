package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/game"
	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

// HandleGameInput - свободный текст в чате. Принимается только когда
// игровой цикл ждёт ввода и пишет ходящий игрок, всё остальное молча
// отбрасывается. Роутер применяет ход целиком (мутации сессии и записи
// в базу) и только после этого поднимает сигнал.
func (h *Handler) HandleGameInput(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	sess := h.Sessions.Get(msg.Chat.ID)
	if sess == nil {
		return
	}

	sess.Lock()
	if !sess.WaitingForInput {
		sess.Unlock()
		return
	}
	cur := sess.Current()
	if msg.From.ID != cur.User.ID {
		sess.Unlock()
		return
	}
	word := sess.Word
	wordState := sess.WordState
	sector := sess.CurrentSector
	guessing := sess.GuessingWord
	sess.Unlock()

	guess := strings.ToUpper(strings.TrimSpace(msg.Text))
	runes := []rune(guess)

	switch {
	case len(runes) == 1 && !guessing:
		h.applyLetterGuess(sess, cur, runes[0], word, wordState, sector)
	case guessing:
		h.applyWordGuess(sess, cur, guess, word)
	default:
		// Неподходящий ввод не будит цикл - таймаут хода продолжает идти.
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgWordGuessNotAllowed))
	}
}

// applyLetterGuess - ход одной буквой.
func (h *Handler) applyLetterGuess(sess *game.Session, cur storage.Participant, letter rune, word string, wordState int64, sector game.Sector) {
	chatID := sess.ChatID

	sess.Lock()
	sess.UsedLetters[letter] = struct{}{}
	sess.Unlock()

	// Повторно названная открытая буква - потеря хода без начислений.
	if game.IsLetterRevealed(word, wordState, letter) {
		if sector.Kind == game.SectorX2 {
			sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgLetterAlreadyGuessedX2))
		} else {
			sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgLetterAlreadyGuessed))
		}
		h.advanceTurn(sess)
		sess.SignalInput()
		return
	}

	newState := game.RevealLetter(word, wordState, letter)
	if newState == wordState {
		sendMessage(h.Bot, tgbotapi.NewMessage(chatID, fmt.Sprintf(MsgLetterIncorrect, string(letter))))
		h.advanceTurn(sess)
		sess.SignalInput()
		return
	}

	occurrences := game.CountLetter(word, letter)
	sess.Lock()
	sess.WordState = newState
	newScore := game.Payout(sector, occurrences, sess.Scores[cur.User.ID])
	sess.Scores[cur.User.ID] = newScore
	sess.Unlock()

	if err := h.Service.SaveWordState(sess.GameID, newState); err != nil {
		log.Warn().Err(err).Int64("game_id", sess.GameID).Msg("save word state failed")
	}
	if err := h.Service.SavePlayerPoints(cur.Player.ID, newScore); err != nil {
		log.Warn().Err(err).Int64("player_id", cur.Player.ID).Msg("save points failed")
	}

	if game.IsComplete(word, newState) {
		h.endGame(sess, &cur.User, false)
		return
	}

	masked := game.MaskWord(word, newState)
	var text string
	if sector.Kind == game.SectorX2 {
		text = fmt.Sprintf(MsgLetterCorrectX2, string(letter), occurrences+1, masked)
	} else {
		text = fmt.Sprintf(MsgLetterCorrect, string(letter), int64(occurrences)*sector.Value, masked)
	}
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyMarkup = turnKeyboard
	sendMessage(h.Bot, reply)
	// Сигнала нет: ход остаётся у игрока, он выбирает кнопкой -
	// крутить дальше или называть слово. Таймаут хода продолжает идти.
}

// applyWordGuess - попытка назвать слово целиком. Промах - не ошибка,
// а потеря хода.
func (h *Handler) applyWordGuess(sess *game.Session, cur storage.Participant, guess, word string) {
	if guess == word {
		full := game.FullMask(word)
		sess.Lock()
		sess.WordState = full
		sess.Unlock()
		if err := h.Service.SaveWordState(sess.GameID, full); err != nil {
			log.Warn().Err(err).Int64("game_id", sess.GameID).Msg("save word state failed")
		}
		h.endGame(sess, &cur.User, false)
		return
	}

	sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID, MsgWordGuessIncorrect))
	sess.Lock()
	sess.GuessingWord = false
	sess.Unlock()
	h.advanceTurn(sess)
	sess.SignalInput()
}
