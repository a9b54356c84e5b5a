package service

import (
	"context"
	"errors"
	"testing"

	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

// mockStorage - мок-реализация StorageInterface для тестов.
type mockStorage struct {
	users        map[int64]*storage.User
	question     *storage.Question
	game         *storage.Game
	participants []storage.Participant

	createdUsers   []int64
	createdPlayers []int64
	endedGames     []int64
	endWinner      *int64
	endWordState   int64
	userTotals     map[int64][2]int64 // userID -> {points, score}
	playersInGame  map[int64]bool

	getUserErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		users:         make(map[int64]*storage.User),
		userTotals:    make(map[int64][2]int64),
		playersInGame: make(map[int64]bool),
	}
}

func (m *mockStorage) CreateUser(ctx context.Context, id int64, username string) error {
	m.createdUsers = append(m.createdUsers, id)
	m.users[id] = &storage.User{ID: id, Username: username, Role: "player"}
	return nil
}

func (m *mockStorage) GetUserByID(ctx context.Context, id int64) (*storage.User, error) {
	if m.getUserErr != nil {
		return nil, m.getUserErr
	}
	return m.users[id], nil
}

func (m *mockStorage) UpdateUserTotals(ctx context.Context, userID, points, score int64) error {
	m.userTotals[userID] = [2]int64{points, score}
	return nil
}

func (m *mockStorage) CreateQuestion(ctx context.Context, text, answer string) error {
	m.question = &storage.Question{ID: 1, Text: text, Answer: answer}
	return nil
}

func (m *mockStorage) RandomQuestion(ctx context.Context) (*storage.Question, error) {
	return m.question, nil
}

func (m *mockStorage) GetQuestionByID(ctx context.Context, id int64) (*storage.Question, error) {
	return m.question, nil
}

func (m *mockStorage) CreateGame(ctx context.Context, chatID, questionID int64) (int64, error) {
	m.game = &storage.Game{ID: 1, ChatID: chatID, QuestionID: questionID, State: storage.GameStateActive}
	return 1, nil
}

func (m *mockStorage) GetActiveGameByChatID(ctx context.Context, chatID int64) (*storage.Game, error) {
	return m.game, nil
}

func (m *mockStorage) GetGameByID(ctx context.Context, gameID int64) (*storage.Game, error) {
	return m.game, nil
}

func (m *mockStorage) CreatePlayer(ctx context.Context, gameID, userID int64) error {
	m.createdPlayers = append(m.createdPlayers, userID)
	return nil
}

func (m *mockStorage) GetParticipantsByGameID(ctx context.Context, gameID int64) ([]storage.Participant, error) {
	return m.participants, nil
}

func (m *mockStorage) UpdateWordState(ctx context.Context, gameID, wordState int64) error {
	return nil
}

func (m *mockStorage) UpdatePlayerPoints(ctx context.Context, playerID, points int64) error {
	return nil
}

func (m *mockStorage) UpdateNextPlayer(ctx context.Context, playerID, nextPlayerID int64) error {
	return nil
}

func (m *mockStorage) UpdatePlayerInGame(ctx context.Context, playerID int64, inGame bool) error {
	m.playersInGame[playerID] = inGame
	return nil
}

func (m *mockStorage) EndGame(ctx context.Context, gameID int64, winnerID *int64, wordState int64) error {
	m.endedGames = append(m.endedGames, gameID)
	m.endWinner = winnerID
	m.endWordState = wordState
	return nil
}

func TestEnsureUserNew(t *testing.T) {
	store := newMockStorage()
	svc := New(store)

	user, created, err := svc.EnsureUser(1, "test_user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for a new user")
	}
	if user == nil || user.Username != "test_user" {
		t.Errorf("unexpected user: %+v", user)
	}
	if len(store.createdUsers) != 1 {
		t.Errorf("expected one CreateUser call, got %d", len(store.createdUsers))
	}
}

func TestEnsureUserExisting(t *testing.T) {
	store := newMockStorage()
	store.users[1] = &storage.User{ID: 1, Username: "test_user", Score: 5, Points: 150}
	svc := New(store)

	user, created, err := svc.EnsureUser(1, "test_user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for an existing user")
	}
	if user.Score != 5 || user.Points != 150 {
		t.Errorf("unexpected user: %+v", user)
	}
	if len(store.createdUsers) != 0 {
		t.Error("CreateUser must not be called for an existing user")
	}
}

func TestEnsureUserStorageError(t *testing.T) {
	store := newMockStorage()
	store.getUserErr = errors.New("db error")
	svc := New(store)

	if _, _, err := svc.EnsureUser(1, "test_user"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartGameNoQuestions(t *testing.T) {
	store := newMockStorage()
	svc := New(store)

	_, _, err := svc.StartGame(123)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestStartGame(t *testing.T) {
	store := newMockStorage()
	store.question = &storage.Question{ID: 7, Text: "Загадка", Answer: "кот"}
	svc := New(store)

	newGame, question, err := svc.StartGame(123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newGame == nil || newGame.QuestionID != 7 {
		t.Errorf("unexpected game: %+v", newGame)
	}
	if question.Answer != "кот" {
		t.Errorf("unexpected question: %+v", question)
	}
}

func TestParticipateIdempotent(t *testing.T) {
	store := newMockStorage()
	store.participants = []storage.Participant{
		{Player: storage.Player{ID: 100, UserID: 1}, User: storage.User{ID: 1}},
	}
	svc := New(store)

	joined, err := svc.Participate(1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined {
		t.Error("duplicate participation must be ignored")
	}
	if len(store.createdPlayers) != 0 {
		t.Error("CreatePlayer must not be called twice for the same user")
	}

	joined, err = svc.Participate(1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !joined {
		t.Error("new user must be able to join")
	}
}

func TestSettleGame(t *testing.T) {
	store := newMockStorage()
	svc := New(store)

	players := []storage.Participant{
		{Player: storage.Player{ID: 100, UserID: 1}, User: storage.User{ID: 1, Points: 1000, Score: 2}},
		{Player: storage.Player{ID: 101, UserID: 2}, User: storage.User{ID: 2, Points: 500, Score: 0}},
	}
	scores := map[int64]int64{1: 700, 2: 350}
	winnerID := int64(1)

	if err := svc.SettleGame(9, &winnerID, 0b111, players, scores); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// победитель: очки суммируются, победа засчитана
	if got := store.userTotals[1]; got != [2]int64{1700, 3} {
		t.Errorf("winner totals = %v, want {1700 3}", got)
	}
	// проигравший: очки суммируются, побед не прибавляется
	if got := store.userTotals[2]; got != [2]int64{850, 0} {
		t.Errorf("loser totals = %v, want {850 0}", got)
	}
	for _, p := range players {
		if store.playersInGame[p.Player.ID] {
			t.Errorf("player %d must be marked out of game", p.Player.ID)
		}
	}
	if len(store.endedGames) != 1 || store.endedGames[0] != 9 {
		t.Errorf("EndGame calls = %v", store.endedGames)
	}
	if store.endWinner == nil || *store.endWinner != 1 {
		t.Errorf("winner id = %v, want 1", store.endWinner)
	}
	if store.endWordState != 0b111 {
		t.Errorf("word state = %b, want 111", store.endWordState)
	}
}

func TestSettleGameNoWinner(t *testing.T) {
	store := newMockStorage()
	svc := New(store)

	players := []storage.Participant{
		{Player: storage.Player{ID: 100, UserID: 1}, User: storage.User{ID: 1, Points: 0, Score: 1}},
		{Player: storage.Player{ID: 101, UserID: 2}, User: storage.User{ID: 2, Points: 0, Score: 0}},
	}
	scores := map[int64]int64{1: 100, 2: 200}

	if err := svc.SettleGame(9, nil, 0b1, players, scores); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// без победителя побед никому не прибавляется
	if got := store.userTotals[1]; got != [2]int64{100, 1} {
		t.Errorf("totals = %v, want {100 1}", got)
	}
	if got := store.userTotals[2]; got != [2]int64{200, 0} {
		t.Errorf("totals = %v, want {200 0}", got)
	}
	if store.endWinner != nil {
		t.Errorf("winner id = %v, want nil", store.endWinner)
	}
}
