package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

// New - Создание подключения
func New(dsn string) (*Storage, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Storage{db: pool}, nil
}

// Ping - проверка подключения к DB
func (s *Storage) Ping() error {
	return s.db.Ping(context.Background())
}

// CreateUser - создаём пользователя при первом /start
func (s *Storage) CreateUser(ctx context.Context, id int64, username string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, username, role, score, points)
		 VALUES ($1, $2, 'player', 0, 0)
		 ON CONFLICT (id) DO NOTHING`,
		id, username)
	return err
}

// GetUserByID - смотрим пользователя по его телеграм-ID; nil если нет
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		"SELECT id, username, role, score, points FROM users WHERE id=$1", id).
		Scan(&u.ID, &u.Username, &u.Role, &u.Score, &u.Points)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserTotals - записываем накопленные очки и число побед
func (s *Storage) UpdateUserTotals(ctx context.Context, userID, points, score int64) error {
	_, err := s.db.Exec(ctx,
		"UPDATE users SET points = $1, score = $2 WHERE id = $3",
		points, score, userID)
	return err
}

// CreateQuestion - добавляем загадку
func (s *Storage) CreateQuestion(ctx context.Context, text, answer string) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO questions (text, answer) VALUES ($1, $2)", text, answer)
	return err
}

// GetQuestionByID - загадка по ID; nil если нет
func (s *Storage) GetQuestionByID(ctx context.Context, id int64) (*Question, error) {
	var q Question
	err := s.db.QueryRow(ctx,
		"SELECT id, text, answer FROM questions WHERE id=$1", id).
		Scan(&q.ID, &q.Text, &q.Answer)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// RandomQuestion - случайная загадка для новой игры; nil если вопросов нет
func (s *Storage) RandomQuestion(ctx context.Context) (*Question, error) {
	var q Question
	err := s.db.QueryRow(ctx,
		"SELECT id, text, answer FROM questions ORDER BY RANDOM() LIMIT 1").
		Scan(&q.ID, &q.Text, &q.Answer)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateGame создает новую игру и возвращает ее ID.
func (s *Storage) CreateGame(ctx context.Context, chatID, questionID int64) (int64, error) {
	var gameID int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO games (chat_id, question_id, word_state, game_state, created_at)
		 VALUES ($1, $2, 0, 'active', NOW()) RETURNING id`,
		chatID, questionID).Scan(&gameID)
	return gameID, err
}

// GetActiveGameByChatID - активная игра в чате; nil если её нет
func (s *Storage) GetActiveGameByChatID(ctx context.Context, chatID int64) (*Game, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, question_id, chat_id, word_state, game_state, winner_id, created_at, ended_at
		 FROM games WHERE chat_id = $1 AND game_state = 'active'`,
		chatID)
	return scanGame(row)
}

// GetGameByID - игра по ID; nil если нет
func (s *Storage) GetGameByID(ctx context.Context, gameID int64) (*Game, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, question_id, chat_id, word_state, game_state, winner_id, created_at, ended_at
		 FROM games WHERE id = $1`,
		gameID)
	return scanGame(row)
}

func scanGame(row pgx.Row) (*Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.QuestionID, &g.ChatID, &g.WordState, &g.State,
		&g.WinnerID, &g.CreatedAt, &g.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreatePlayer - регистрируем участника игры
func (s *Storage) CreatePlayer(ctx context.Context, gameID, userID int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO players (game_id, user_id, in_game, active, points)
		 VALUES ($1, $2, TRUE, TRUE, 0)`,
		gameID, userID)
	return err
}

// GetParticipantsByGameID возвращает игроков с их пользователями
// в порядке регистрации - это и есть очередь ходов.
func (s *Storage) GetParticipantsByGameID(ctx context.Context, gameID int64) ([]Participant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.game_id, p.user_id, p.next_player_id, p.in_game, p.active, p.points,
		        u.id, u.username, u.role, u.score, u.points
		 FROM players p
		 JOIN users u ON p.user_id = u.id
		 WHERE p.game_id = $1
		 ORDER BY p.id ASC`,
		gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var pt Participant
		if err := rows.Scan(
			&pt.Player.ID, &pt.Player.GameID, &pt.Player.UserID, &pt.Player.NextPlayerID,
			&pt.Player.InGame, &pt.Player.Active, &pt.Player.Points,
			&pt.User.ID, &pt.User.Username, &pt.User.Role, &pt.User.Score, &pt.User.Points,
		); err != nil {
			return nil, err
		}
		participants = append(participants, pt)
	}
	return participants, rows.Err()
}

// UpdateWordState - сохраняем маску открытых букв после каждого удачного хода
func (s *Storage) UpdateWordState(ctx context.Context, gameID, wordState int64) error {
	_, err := s.db.Exec(ctx,
		"UPDATE games SET word_state = $1 WHERE id = $2", wordState, gameID)
	return err
}

// UpdatePlayerPoints - записываем очки игрока в текущей игре
func (s *Storage) UpdatePlayerPoints(ctx context.Context, playerID, points int64) error {
	_, err := s.db.Exec(ctx,
		"UPDATE players SET points = $1 WHERE id = $2", points, playerID)
	return err
}

// UpdateNextPlayer - связь "следующий игрок" для внешнего наблюдения за очередью
func (s *Storage) UpdateNextPlayer(ctx context.Context, playerID, nextPlayerID int64) error {
	_, err := s.db.Exec(ctx,
		"UPDATE players SET next_player_id = $1 WHERE id = $2", nextPlayerID, playerID)
	return err
}

// UpdatePlayerInGame - помечаем игрока вышедшим из игры
func (s *Storage) UpdatePlayerInGame(ctx context.Context, playerID int64, inGame bool) error {
	_, err := s.db.Exec(ctx,
		"UPDATE players SET in_game = $1 WHERE id = $2", inGame, playerID)
	return err
}

// EndGame - терминальное состояние игры: победитель, финальная маска, время конца
func (s *Storage) EndGame(ctx context.Context, gameID int64, winnerID *int64, wordState int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE games SET game_state = 'ended', winner_id = $1, word_state = $2, ended_at = NOW()
		 WHERE id = $3`,
		winnerID, wordState, gameID)
	return err
}
