package game

import "math/rand"

// Тип сектора барабана.
type SectorKind int

const (
	// SectorNone - ход ещё не начался, барабан не крутили.
	SectorNone SectorKind = iota
	// SectorX2 умножает очки игрока на (число открытых букв + 1).
	SectorX2
	// SectorBankrupt сжигает очки игрока и передаёт ход.
	SectorBankrupt
	// SectorZero передаёт ход без изменения очков.
	SectorZero
	// SectorNumeric начисляет Value очков за каждую открытую букву.
	SectorNumeric
)

// Сектор барабана.
type Sector struct {
	Kind  SectorKind
	Value int64
}

// Wheel - фиксированный порядок секторов: x2, банкрот, ноль, затем
// числовые значения.
var Wheel = []Sector{
	{Kind: SectorX2},
	{Kind: SectorBankrupt},
	{Kind: SectorZero},
	{Kind: SectorNumeric, Value: 350},
	{Kind: SectorNumeric, Value: 400},
	{Kind: SectorNumeric, Value: 450},
	{Kind: SectorNumeric, Value: 500},
	{Kind: SectorNumeric, Value: 600},
	{Kind: SectorNumeric, Value: 650},
	{Kind: SectorNumeric, Value: 700},
	{Kind: SectorNumeric, Value: 750},
	{Kind: SectorNumeric, Value: 800},
	{Kind: SectorNumeric, Value: 850},
	{Kind: SectorNumeric, Value: 950},
	{Kind: SectorNumeric, Value: 1000},
}

// Spin - равновероятный выбор сектора.
func Spin() Sector {
	return Wheel[rand.Intn(len(Wheel))]
}

// Payout считает новый счёт игрока после открытия occurrences букв.
// Для банкрота и нуля не вызывается - они отрабатывают до ввода буквы.
func Payout(sector Sector, occurrences int, currentScore int64) int64 {
	switch sector.Kind {
	case SectorX2:
		return currentScore * int64(occurrences+1)
	case SectorNumeric:
		return currentScore + int64(occurrences)*sector.Value
	default:
		return currentScore
	}
}
