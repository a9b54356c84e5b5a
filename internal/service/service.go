package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reznikily/field-of-wonders-bot/internal/storage"
)

// ErrNoQuestions - в базе нет ни одной загадки, игру начать нельзя.
var ErrNoQuestions = errors.New("no questions in storage")

// StorageInterface - часть хранилища, нужная игровому сервису.
type StorageInterface interface {
	CreateUser(ctx context.Context, id int64, username string) error
	GetUserByID(ctx context.Context, id int64) (*storage.User, error)
	UpdateUserTotals(ctx context.Context, userID, points, score int64) error
	CreateQuestion(ctx context.Context, text, answer string) error
	RandomQuestion(ctx context.Context) (*storage.Question, error)
	GetQuestionByID(ctx context.Context, id int64) (*storage.Question, error)
	CreateGame(ctx context.Context, chatID, questionID int64) (int64, error)
	GetActiveGameByChatID(ctx context.Context, chatID int64) (*storage.Game, error)
	GetGameByID(ctx context.Context, gameID int64) (*storage.Game, error)
	CreatePlayer(ctx context.Context, gameID, userID int64) error
	GetParticipantsByGameID(ctx context.Context, gameID int64) ([]storage.Participant, error)
	UpdateWordState(ctx context.Context, gameID, wordState int64) error
	UpdatePlayerPoints(ctx context.Context, playerID, points int64) error
	UpdateNextPlayer(ctx context.Context, playerID, nextPlayerID int64) error
	UpdatePlayerInGame(ctx context.Context, playerID int64, inGame bool) error
	EndGame(ctx context.Context, gameID int64, winnerID *int64, wordState int64) error
}

// GameServiceInterface - операции сервиса, которыми пользуется
// телеграм-слой. Вынесен в интерфейс ради моков в тестах хендлеров.
type GameServiceInterface interface {
	EnsureUser(userID int64, username string) (*storage.User, bool, error)
	GetUser(userID int64) (*storage.User, error)
	ActiveGame(chatID int64) (*storage.Game, error)
	StartGame(chatID int64) (*storage.Game, *storage.Question, error)
	QuestionByID(id int64) (*storage.Question, error)
	AddQuestion(text, answer string) error
	Participate(gameID, userID int64) (bool, error)
	Participants(gameID int64) ([]storage.Participant, error)
	SaveWordState(gameID, wordState int64) error
	SavePlayerPoints(playerID, points int64) error
	LinkNextPlayer(playerID, nextPlayerID int64) error
	SettleGame(gameID int64, winnerUserID *int64, wordState int64, players []storage.Participant, scores map[int64]int64) error
	AbortGame(gameID int64) error
}

type GameService struct {
	storage StorageInterface
	ctx     context.Context
}

func New(storage StorageInterface) *GameService {
	return &GameService{
		storage: storage,
		ctx:     context.Background(),
	}
}

// EnsureUser - создаём пользователя, если его ещё нет. Возвращает
// пользователя и флаг "создан только что".
func (g *GameService) EnsureUser(userID int64, username string) (*storage.User, bool, error) {
	user, err := g.storage.GetUserByID(g.ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}

	if err := g.storage.CreateUser(g.ctx, userID, username); err != nil {
		return nil, false, err
	}
	user, err = g.storage.GetUserByID(g.ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// GetUser - пользователь по ID, nil если не зарегистрирован.
func (g *GameService) GetUser(userID int64) (*storage.User, error) {
	return g.storage.GetUserByID(g.ctx, userID)
}

// ActiveGame - активная игра чата, nil если её нет.
func (g *GameService) ActiveGame(chatID int64) (*storage.Game, error) {
	return g.storage.GetActiveGameByChatID(g.ctx, chatID)
}

// StartGame - новая игра со случайной загадкой.
func (g *GameService) StartGame(chatID int64) (*storage.Game, *storage.Question, error) {
	question, err := g.storage.RandomQuestion(g.ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("pick question: %w", err)
	}
	if question == nil {
		return nil, nil, ErrNoQuestions
	}

	gameID, err := g.storage.CreateGame(g.ctx, chatID, question.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create game: %w", err)
	}

	game, err := g.storage.GetGameByID(g.ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return game, question, nil
}

// QuestionByID - загадка по ID.
func (g *GameService) QuestionByID(id int64) (*storage.Question, error) {
	return g.storage.GetQuestionByID(g.ctx, id)
}

// AddQuestion - новая загадка в пул.
func (g *GameService) AddQuestion(text, answer string) error {
	return g.storage.CreateQuestion(g.ctx, text, answer)
}

// Participate - заявка на участие. Повторная заявка того же
// пользователя молча игнорируется, возвращается false.
func (g *GameService) Participate(gameID, userID int64) (bool, error) {
	participants, err := g.storage.GetParticipantsByGameID(g.ctx, gameID)
	if err != nil {
		return false, err
	}
	for _, p := range participants {
		if p.User.ID == userID {
			return false, nil
		}
	}

	if err := g.storage.CreatePlayer(g.ctx, gameID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// Participants - подтверждённый состав игры в порядке очереди.
func (g *GameService) Participants(gameID int64) ([]storage.Participant, error) {
	return g.storage.GetParticipantsByGameID(g.ctx, gameID)
}

// SaveWordState - маска слова в базу после удачного хода.
func (g *GameService) SaveWordState(gameID, wordState int64) error {
	return g.storage.UpdateWordState(g.ctx, gameID, wordState)
}

// SavePlayerPoints - очки игрока в базу после каждого начисления.
func (g *GameService) SavePlayerPoints(playerID, points int64) error {
	return g.storage.UpdatePlayerPoints(g.ctx, playerID, points)
}

// LinkNextPlayer - связь очереди ходов в базе.
func (g *GameService) LinkNextPlayer(playerID, nextPlayerID int64) error {
	return g.storage.UpdateNextPlayer(g.ctx, playerID, nextPlayerID)
}

// SettleGame - расчёт по итогам игры: каждому участнику очки сессии
// прибавляются к накопленным, победителю засчитывается победа, игроки
// помечаются вышедшими, игра закрывается.
func (g *GameService) SettleGame(gameID int64, winnerUserID *int64, wordState int64, players []storage.Participant, scores map[int64]int64) error {
	for _, p := range players {
		winBonus := int64(0)
		if winnerUserID != nil && p.User.ID == *winnerUserID {
			winBonus = 1
		}
		err := g.storage.UpdateUserTotals(g.ctx, p.User.ID,
			p.User.Points+scores[p.User.ID], p.User.Score+winBonus)
		if err != nil {
			return fmt.Errorf("update user totals: %w", err)
		}
		if err := g.storage.UpdatePlayerInGame(g.ctx, p.Player.ID, false); err != nil {
			return fmt.Errorf("update player status: %w", err)
		}
	}

	if err := g.storage.EndGame(g.ctx, gameID, winnerUserID, wordState); err != nil {
		return fmt.Errorf("end game: %w", err)
	}
	return nil
}

// AbortGame закрывает игру, не дожившую до старта раунда.
func (g *GameService) AbortGame(gameID int64) error {
	return g.storage.EndGame(g.ctx, gameID, nil, 0)
}