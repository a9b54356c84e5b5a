package game

import (
	"fmt"
	"sync"

	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

// Session - живое состояние игры одного чата. Поля защищены встроенным
// мьютексом; игровой цикл и роутер обновлений мутируют их строго по
// очереди: роутер трогает сессию только пока цикл ждёт сигнала ввода,
// и поднимает сигнал последним действием.
type Session struct {
	sync.Mutex

	ChatID   int64
	GameID   int64
	Question string
	Word     string // ответ загадки, верхний регистр, неизменен

	WordState       int64
	UsedLetters     map[rune]struct{}
	Players         []storage.Participant // порядок фиксирован на старте
	CurrentIdx      int
	CurrentSector   Sector
	GuessingWord    bool
	WaitingForInput bool
	Scores          map[int64]int64 // userID -> очки в этой игре

	input chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newSession(chatID, gameID int64, question, word string, players []storage.Participant) *Session {
	scores := make(map[int64]int64, len(players))
	for _, p := range players {
		scores[p.User.ID] = p.Player.Points
	}
	return &Session{
		ChatID:        chatID,
		GameID:        gameID,
		Question:      question,
		Word:          word,
		UsedLetters:   make(map[rune]struct{}),
		Players:       players,
		CurrentSector: Sector{Kind: SectorNone},
		Scores:        scores,
		input:         make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
}

// Current - игрок, чей сейчас ход. Звать под мьютексом.
func (s *Session) Current() storage.Participant {
	return s.Players[s.CurrentIdx]
}

// Advance передаёт ход следующему по кругу и возвращает уходящего и
// входящего игроков. Звать под мьютексом.
func (s *Session) Advance() (outgoing, incoming storage.Participant) {
	outgoing = s.Players[s.CurrentIdx]
	s.CurrentIdx = (s.CurrentIdx + 1) % len(s.Players)
	incoming = s.Players[s.CurrentIdx]
	return outgoing, incoming
}

// SignalInput будит игровой цикл. Неблокирующий: повторный сигнал до
// того, как цикл проснулся, схлопывается в один.
func (s *Session) SignalInput() {
	select {
	case s.input <- struct{}{}:
	default:
	}
}

// Input - канал сигнала ввода для select в игровом цикле.
func (s *Session) Input() <-chan struct{} {
	return s.input
}

// DrainInput сбрасывает сигнал, поднятый пока цикл не ждал ввода.
func (s *Session) DrainInput() {
	select {
	case <-s.input:
	default:
	}
}

// Close останавливает игровой цикл. Повторные вызовы безопасны.
func (s *Session) Close() {
	s.once.Do(func() { close(s.done) })
}

// Done закрывается при завершении игры.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Store - потокобезопасная карта chatID -> Session. В чате может жить
// не больше одной сессии одновременно.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Create заводит сессию для чата. Наличие живой сессии - ошибка
// программирования: вызывающий обязан сперва проверить Get.
func (st *Store) Create(chatID, gameID int64, question, word string, players []storage.Participant) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[chatID]; ok {
		return nil, fmt.Errorf("session already exists for chat %d", chatID)
	}
	sess := newSession(chatID, gameID, question, word, players)
	st.sessions[chatID] = sess
	return sess, nil
}

// Get - сессия чата или nil.
func (st *Store) Get(chatID int64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[chatID]
}

// Destroy убирает сессию и останавливает её цикл.
func (st *Store) Destroy(chatID int64) {
	st.mu.Lock()
	sess := st.sessions[chatID]
	delete(st.sessions, chatID)
	st.mu.Unlock()

	if sess != nil {
		sess.Close()
	}
}
