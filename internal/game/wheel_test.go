package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWheelOrder(t *testing.T) {
	assert.Equal(t, SectorX2, Wheel[0].Kind)
	assert.Equal(t, SectorBankrupt, Wheel[1].Kind)
	assert.Equal(t, SectorZero, Wheel[2].Kind)

	values := []int64{350, 400, 450, 500, 600, 650, 700, 750, 800, 850, 950, 1000}
	for i, v := range values {
		assert.Equal(t, SectorNumeric, Wheel[3+i].Kind)
		assert.Equal(t, v, Wheel[3+i].Value)
	}
}

func TestSpinReturnsWheelSector(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Contains(t, Wheel, Spin())
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		name        string
		sector      Sector
		occurrences int
		current     int64
		want        int64
	}{
		{"числовой сектор", Sector{Kind: SectorNumeric, Value: 500}, 2, 0, 1000},
		{"числовой с текущим счётом", Sector{Kind: SectorNumeric, Value: 350}, 1, 200, 550},
		{"x2 одна буква", Sector{Kind: SectorX2}, 1, 300, 600},
		{"x2 две буквы", Sector{Kind: SectorX2}, 2, 100, 300},
		{"x2 при нуле очков", Sector{Kind: SectorX2}, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Payout(tt.sector, tt.occurrences, tt.current))
		})
	}
}
