package telegram

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/reznikily/field-of-wonders-bot/internal/game"
	"github.com/reznikily/field-of-wonders-bot/internal/service"
)

// MessageSender определяет интерфейс для отправки сообщений.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	Bot      MessageSender
	Service  service.GameServiceInterface
	Sessions *game.Store

	// Шаг отсчёта регистрации (три шага по 5 секунд) и таймаут хода.
	// В тестах выставляются короче.
	RegistrationStep time.Duration
	TurnTimeout      time.Duration

	mu            sync.Mutex
	registrations map[int64]int64 // chatID -> gameID с открытой регистрацией

	// подменяется в тестах детерминированным барабаном
	spin func() game.Sector
}

func NewHandler(bot MessageSender, svc service.GameServiceInterface, sessions *game.Store) *Handler {
	return &Handler{
		Bot:              bot,
		Service:          svc,
		Sessions:         sessions,
		RegistrationStep: 5 * time.Second,
		TurnTimeout:      30 * time.Second,
		registrations:    make(map[int64]int64),
		spin:             game.Spin,
	}
}

// HandleStart - /start: регистрация пользователя и приветствие.
func (h *Handler) HandleStart(msg *tgbotapi.Message) {
	user, created, err := h.Service.EnsureUser(msg.From.ID, msg.From.UserName)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("ensure user failed")
		return
	}
	if created {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(MsgStartFirstTime, user.Username)))
	} else {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(MsgStartReturningUser, user.Username)))
	}
}

// HandleRules - /rules
func (h *Handler) HandleRules(msg *tgbotapi.Message) {
	sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgRules))
}

// HandlePlay - /play: запускаем регистрацию, если в чате нет игры.
func (h *Handler) HandlePlay(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	active, err := h.Service.ActiveGame(chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("active game lookup failed")
		return
	}
	if active != nil {
		sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgGameAlreadyActive))
		return
	}

	if _, _, err := h.Service.EnsureUser(msg.From.ID, msg.From.UserName); err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("ensure user failed")
		return
	}

	newGame, question, err := h.Service.StartGame(chatID)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			sendMessage(h.Bot, tgbotapi.NewMessage(chatID, MsgNoQuestions))
			return
		}
		log.Error().Err(err).Int64("chat_id", chatID).Msg("start game failed")
		return
	}

	h.openRegistration(chatID, newGame.ID)
	go h.runRegistration(chatID, newGame, question)

	reply := tgbotapi.NewMessage(chatID, MsgRegistrationStart)
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Участвовать", fmt.Sprintf("participate_%d", newGame.ID)),
		),
	)
	sendMessage(h.Bot, reply)
}

// HandleProfile - /profile: победы и накопленные очки.
func (h *Handler) HandleProfile(msg *tgbotapi.Message) {
	user, _, err := h.Service.EnsureUser(msg.From.ID, msg.From.UserName)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("ensure user failed")
		return
	}
	sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf(MsgProfile, user.Username, user.Score, user.Points)))
}

// HandleAddQuestion - /addquestion: новая загадка в пул, только для
// администраторов. Формат аргументов: "Текст загадки | ответ".
func (h *Handler) HandleAddQuestion(msg *tgbotapi.Message) {
	user, err := h.Service.GetUser(msg.From.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("get user failed")
		return
	}
	if user == nil || user.Role != "admin" {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgAddQuestionDenied))
		return
	}

	parts := strings.SplitN(msg.CommandArguments(), "|", 2)
	if len(parts) != 2 {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgAddQuestionUsage))
		return
	}
	text := strings.TrimSpace(parts[0])
	answer := strings.TrimSpace(parts[1])
	if text == "" || answer == "" || strings.ContainsRune(answer, ' ') {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgAddQuestionUsage))
		return
	}

	if err := h.Service.AddQuestion(text, answer); err != nil {
		log.Error().Err(err).Msg("add question failed")
		return
	}
	sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgQuestionAdded))
}

// HandleQuestion - /question: текст загадки текущей игры.
func (h *Handler) HandleQuestion(msg *tgbotapi.Message) {
	active, err := h.Service.ActiveGame(msg.Chat.ID)
	if err != nil || active == nil {
		return
	}
	question, err := h.Service.QuestionByID(active.QuestionID)
	if err != nil || question == nil {
		return
	}
	sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(MsgQuestion, question.Text)))
}

// HandleUsed - /used: названные буквы текущей игры.
func (h *Handler) HandleUsed(msg *tgbotapi.Message) {
	sess := h.Sessions.Get(msg.Chat.ID)
	if sess == nil {
		return
	}

	sess.Lock()
	letters := make([]string, 0, len(sess.UsedLetters))
	for r := range sess.UsedLetters {
		letters = append(letters, string(r))
	}
	sess.Unlock()
	sort.Strings(letters)

	sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf(MsgUsedLetters, strings.Join(letters, " "))))
}

// HandleStop - /stop: завершить игру может только ходящий игрок.
func (h *Handler) HandleStop(msg *tgbotapi.Message) {
	sess := h.Sessions.Get(msg.Chat.ID)
	if sess == nil {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgNoActiveGames))
		return
	}

	sess.Lock()
	cur := sess.Current()
	sess.Unlock()

	if msg.From.ID != cur.User.ID {
		sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgNotYourTurn))
		return
	}

	h.endGame(sess, nil, true)
}

// HandleUnknown - любая незнакомая команда.
func (h *Handler) HandleUnknown(msg *tgbotapi.Message) {
	sendMessage(h.Bot, tgbotapi.NewMessage(msg.Chat.ID, MsgUnknownCommand))
}

// HandleCallback разбирает нажатия инлайн-кнопок.
func (h *Handler) HandleCallback(cb *tgbotapi.CallbackQuery) {
	switch {
	case strings.HasPrefix(cb.Data, "participate_"):
		h.handleParticipate(cb)
	case cb.Data == "spin":
		h.handleTurnChoice(cb, false)
	case cb.Data == "guess":
		h.handleTurnChoice(cb, true)
	}
}

// handleParticipate - заявка на участие во время регистрации.
// Опоздавшие и заявки на чужую игру получают отказ прямо в callback,
// повторные заявки молча игнорируются.
func (h *Handler) handleParticipate(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	if _, _, err := h.Service.EnsureUser(cb.From.ID, cb.From.UserName); err != nil {
		log.Error().Err(err).Int64("user_id", cb.From.ID).Msg("ensure user failed")
		h.answerCallback(cb.ID, "")
		return
	}

	gameID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "participate_"), 10, 64)
	if err != nil {
		h.answerCallback(cb.ID, "")
		return
	}

	active, err := h.Service.ActiveGame(chatID)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("active game lookup failed")
		h.answerCallback(cb.ID, "")
		return
	}

	openGameID, open := h.registrationFor(chatID)
	if active == nil || active.ID != gameID || !open || openGameID != gameID {
		h.answerCallback(cb.ID, MsgRegistrationClosed)
		return
	}

	joined, err := h.Service.Participate(gameID, cb.From.ID)
	if err != nil {
		log.Error().Err(err).Int64("game_id", gameID).Msg("participate failed")
		h.answerCallback(cb.ID, "")
		return
	}
	if joined {
		sendMessage(h.Bot, tgbotapi.NewMessage(chatID, fmt.Sprintf(MsgParticipating, cb.From.UserName)))
	}
	h.answerCallback(cb.ID, "")
}

// handleTurnChoice - кнопки "Крутить барабан!" и "Угадать слово".
// Принимаются только от ходящего игрока.
func (h *Handler) handleTurnChoice(cb *tgbotapi.CallbackQuery, guessWord bool) {
	h.answerCallback(cb.ID, "")

	sess := h.Sessions.Get(cb.Message.Chat.ID)
	if sess == nil {
		return
	}

	sess.Lock()
	cur := sess.Current()
	if cb.From.ID != cur.User.ID {
		sess.Unlock()
		return
	}
	if guessWord {
		sess.GuessingWord = true
	}
	sess.Unlock()

	sess.SignalInput()
}

func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.Bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Warn().Err(err).Msg("failed to answer callback")
	}
}

func (h *Handler) openRegistration(chatID, gameID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registrations[chatID] = gameID
}

func (h *Handler) closeRegistration(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.registrations, chatID)
}

func (h *Handler) registrationFor(chatID int64) (int64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	gameID, ok := h.registrations[chatID]
	return gameID, ok
}
