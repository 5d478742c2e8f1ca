package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/pkg/errors"
)

func TestPriceTable_Default(t *testing.T) {
	table := DefaultPriceTable()

	cases := map[int]float64{1: 50, 2: 100, 3: 150, 4: 150, 25: 150}
	for weight, want := range cases {
		got, err := table.PriceFor(weight)
		require.NoError(t, err)
		assert.Equal(t, want, got, "weight %d", weight)
	}

	_, err := table.PriceFor(0)
	assert.True(t, errors.Is(err, errors.CodeValidation))
	_, err = table.PriceFor(-2)
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestNewPriceTable(t *testing.T) {
	table, err := NewPriceTable(map[int]float64{5: 300, 1: 60})
	require.NoError(t, err)

	assert.Equal(t, []PriceTier{{MinWeight: 1, Price: 60}, {MinWeight: 5, Price: 300}}, table.Tiers())

	price, err := table.PriceFor(4)
	require.NoError(t, err)
	assert.Equal(t, 60.0, price)

	price, err = table.PriceFor(5)
	require.NoError(t, err)
	assert.Equal(t, 300.0, price)
}

func TestNewPriceTable_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		tiers map[int]float64
	}{
		{"empty", map[int]float64{}},
		{"no tier at weight one", map[int]float64{2: 100}},
		{"zero weight", map[int]float64{0: 10, 1: 50}},
		{"negative price", map[int]float64{1: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPriceTable(tt.tiers)
			assert.Error(t, err)
		})
	}
}

func TestPriceTable_Unconfigured(t *testing.T) {
	_, err := PriceTable{}.PriceFor(1)
	assert.True(t, errors.Is(err, errors.CodeInternal))
}
