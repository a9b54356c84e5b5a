package storage

import "time"

// Состояние игры в таблице games.
type GameState string

const (
	GameStateActive GameState = "active"
	GameStateEnded  GameState = "ended"
)

// Пользователь - постоянная учётка телеграм-пользователя.
// Score - количество побед, Points - накопленные очки за все игры.
type User struct {
	ID       int64
	Username string
	Role     string
	Score    int64
	Points   int64
}

// Вопрос (загадка) с ответом-словом.
type Question struct {
	ID     int64
	Text   string
	Answer string
}

// Игра в конкретном чате.
type Game struct {
	ID         int64
	QuestionID int64
	ChatID     int64
	WordState  int64 // битовая маска открытых букв
	State      GameState
	WinnerID   *int64
	CreatedAt  time.Time
	EndedAt    *time.Time
}

// Игрок - участие пользователя в одной игре.
type Player struct {
	ID           int64
	GameID       int64
	UserID       int64
	NextPlayerID *int64
	InGame       bool
	Active       bool
	Points       int64
}

// Participant - игрок вместе с его пользователем, в порядке очереди ходов.
type Participant struct {
	Player Player
	User   User
}
