package entity

import (
	"fmt"
	"sort"

	"parcelmama/pkg/errors"
)

// PriceTier applies to every weight from MinWeight up to the next tier.
type PriceTier struct {
	MinWeight int
	Price     float64
}

type PriceTable struct {
	tiers []PriceTier
}

func DefaultPriceTable() PriceTable {
	return PriceTable{tiers: []PriceTier{
		{MinWeight: 1, Price: 50},
		{MinWeight: 2, Price: 100},
		{MinWeight: 3, Price: 150},
	}}
}

// NewPriceTable builds a table from minWeight -> price. The lowest tier must start at weight 1.
func NewPriceTable(tiers map[int]float64) (PriceTable, error) {
	if len(tiers) == 0 {
		return PriceTable{}, fmt.Errorf("price table needs at least one tier")
	}

	out := make([]PriceTier, 0, len(tiers))
	for weight, price := range tiers {
		if weight < 1 {
			return PriceTable{}, fmt.Errorf("tier weight %d must be positive", weight)
		}
		if price < 0 {
			return PriceTable{}, fmt.Errorf("tier price for weight %d must not be negative", weight)
		}
		out = append(out, PriceTier{MinWeight: weight, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinWeight < out[j].MinWeight })

	if out[0].MinWeight != 1 {
		return PriceTable{}, fmt.Errorf("lowest tier must start at weight 1, got %d", out[0].MinWeight)
	}

	return PriceTable{tiers: out}, nil
}

func (t PriceTable) Tiers() []PriceTier {
	out := make([]PriceTier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

func (t PriceTable) PriceFor(weight int) (float64, error) {
	if weight <= 0 {
		return 0, errors.Validation("parcel weight must be a positive number", nil)
	}
	if len(t.tiers) == 0 {
		return 0, errors.Internal("price table is not configured", nil)
	}

	price := t.tiers[0].Price
	for _, tier := range t.tiers {
		if weight < tier.MinWeight {
			break
		}
		price = tier.Price
	}
	return price, nil
}
