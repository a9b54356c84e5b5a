package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/game"
	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

var turnKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Крутить барабан!", "spin"),
		tgbotapi.NewInlineKeyboardButtonData("Угадать слово", "guess"),
	),
)

// runGame - игровой цикл одного чата. Цикл сам только крутит барабан,
// объявляет сектора и ждёт сигнала ввода либо таймаута; сам ввод
// разбирает и применяет роутер (input.go). Цикл живёт, пока слово не
// открыто целиком и сессию не снесли.
func (h *Handler) runGame(sess *game.Session) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int64("chat_id", sess.ChatID).Msg("game loop failed")
			sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID, MsgGameError))
			h.endGame(sess, nil, false)
		}
	}()

	sess.Lock()
	text := fmt.Sprintf(MsgGameQuestion,
		sess.Question, game.MaskWord(sess.Word, sess.WordState), len([]rune(sess.Word)))
	sess.Unlock()
	sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID, text))

	for {
		select {
		case <-sess.Done():
			return
		default:
		}

		// Мьютекс отпускается через defer, чтобы паника внутри секции
		// не оставила сессию запертой перед endGame в recover-пути.
		var cur storage.Participant
		var guessing, complete bool
		func() {
			sess.Lock()
			defer sess.Unlock()
			if complete = game.IsComplete(sess.Word, sess.WordState); complete {
				return
			}
			cur = sess.Current()
			guessing = sess.GuessingWord
		}()
		if complete {
			return
		}

		if guessing {
			reply := tgbotapi.NewMessage(sess.ChatID, MsgWaitForWord)
			reply.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}
			sendMessage(h.Bot, reply)
		} else {
			sector := h.spin()
			sess.Lock()
			sess.CurrentSector = sector
			sess.Unlock()

			switch sector.Kind {
			case game.SectorBankrupt:
				sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID,
					fmt.Sprintf(MsgSectorBankrupt, cur.User.Username)))
				sess.Lock()
				sess.Scores[cur.User.ID] = 0
				sess.Unlock()
				if err := h.Service.SavePlayerPoints(cur.Player.ID, 0); err != nil {
					log.Warn().Err(err).Int64("player_id", cur.Player.ID).Msg("save points failed")
				}
				h.advanceTurn(sess)
				continue
			case game.SectorZero:
				sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID,
					fmt.Sprintf(MsgSectorZero, cur.User.Username)))
				h.advanceTurn(sess)
				continue
			case game.SectorX2:
				reply := tgbotapi.NewMessage(sess.ChatID, fmt.Sprintf(MsgSectorX2, cur.User.Username))
				reply.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}
				sendMessage(h.Bot, reply)
			default:
				reply := tgbotapi.NewMessage(sess.ChatID,
					fmt.Sprintf(MsgSectorNumeric, cur.User.Username, sector.Value))
				reply.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}
				sendMessage(h.Bot, reply)
			}
		}

		// Сигнал, поднятый пока ход не ждал ввода, устарел.
		sess.DrainInput()
		sess.Lock()
		sess.WaitingForInput = true
		sess.Unlock()

		select {
		case <-sess.Input():
		case <-time.After(h.TurnTimeout):
			sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID,
				fmt.Sprintf(MsgTimeout, cur.User.Username)))
			// Флаг снимается до передачи хода: опоздавший ввод не должен
			// пройти в уже чужой ход.
			sess.Lock()
			sess.GuessingWord = false
			sess.WaitingForInput = false
			sess.Unlock()
			h.advanceTurn(sess)
		case <-sess.Done():
		}

		sess.Lock()
		sess.WaitingForInput = false
		sess.Unlock()
	}
}

// advanceTurn передаёт ход по кругу и фиксирует связь очереди в базе.
func (h *Handler) advanceTurn(sess *game.Session) {
	var outgoing, incoming storage.Participant
	func() {
		sess.Lock()
		defer sess.Unlock()
		outgoing, incoming = sess.Advance()
	}()

	if err := h.Service.LinkNextPlayer(outgoing.Player.ID, incoming.Player.ID); err != nil {
		log.Warn().Err(err).Int64("player_id", outgoing.Player.ID).Msg("link next player failed")
	}
}

// endGame - единый путь завершения: победа, /stop и аварийный сход
// цикла. Расчёт очков, итоговое сообщение и снос сессии; сессия
// снимается даже если расчёт не удался, чтобы чат не завис "в игре".
func (h *Handler) endGame(sess *game.Session, winner *storage.User, stopped bool) {
	defer h.Sessions.Destroy(sess.ChatID)

	sess.Lock()
	gameID := sess.GameID
	word := sess.Word
	wordState := sess.WordState
	players := sess.Players
	scores := make(map[int64]int64, len(sess.Scores))
	for id, score := range sess.Scores {
		scores[id] = score
	}
	sess.Unlock()

	var winnerID *int64
	if winner != nil {
		id := winner.ID
		winnerID = &id
		wordState = game.FullMask(word)
	}

	if err := h.Service.SettleGame(gameID, winnerID, wordState, players, scores); err != nil {
		log.Error().Err(err).Int64("game_id", gameID).Msg("settle game failed")
		sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID, MsgGameEndError))
		return
	}

	scoresText := ScoresHeader + "\n" + formatScores(players, scores)
	var text string
	switch {
	case winner != nil:
		text = fmt.Sprintf(MsgGameWon, winner.Username, word, scoresText)
	case stopped:
		text = fmt.Sprintf(MsgGameStopped, scoresText)
	default:
		text = fmt.Sprintf(MsgGameEnded, word, scoresText)
	}
	sendMessage(h.Bot, tgbotapi.NewMessage(sess.ChatID, text))
}
