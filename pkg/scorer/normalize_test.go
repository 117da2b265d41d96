package scorer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBudgetRange(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want BudgetRange
	}{
		{"lakh range", "₹20-30 Lakhs", BudgetRange{Min: 20 * lakh, Max: 30 * lakh, Avg: 25 * lakh}},
		{"word range", "10 to 15 lakhs", BudgetRange{Min: 10 * lakh, Max: 15 * lakh, Avg: 12.5 * lakh}},
		{"above", "Above 50 lakh", BudgetRange{Min: 50 * lakh, Max: 100 * lakh, Avg: 75 * lakh}},
		{"under", "Under 10 lakh", BudgetRange{Min: 5 * lakh, Max: 10 * lakh, Avg: 7.5 * lakh}},
		{"crore", "₹1.5 Cr", BudgetRange{Min: 150 * lakh, Max: 150 * lakh, Avg: 150 * lakh}},
		{"indian grouping", "Rs 5,00,000", BudgetRange{Min: 5 * lakh, Max: 5 * lakh, Avg: 5 * lakh}},
		{"not a number", "not a number", DefaultBudgetRange},
		{"empty", "", DefaultBudgetRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBudgetRange(tt.in)
			assert.InDelta(t, tt.want.Min, got.Min, 0.01)
			assert.InDelta(t, tt.want.Max, got.Max, 0.01)
			assert.InDelta(t, tt.want.Avg, got.Avg, 0.01)
			assert.Equal(t, tt.want.Fallback, got.Fallback)
		})
	}
}

func TestParseVendorPrice(t *testing.T) {
	t.Run("range", func(t *testing.T) {
		got := ParseVendorPrice("₹2,00,000 - ₹5,00,000")
		assert.Equal(t, 200000.0, got.Min)
		assert.Equal(t, 500000.0, got.Max)
		assert.Equal(t, 350000.0, got.Avg)
		assert.False(t, got.PerPerson)
		assert.False(t, got.Fallback)
	})

	t.Run("per plate", func(t *testing.T) {
		got := ParseVendorPrice("₹1,200 per plate")
		assert.Equal(t, 1200.0, got.Avg)
		assert.True(t, got.PerPerson)
	})

	t.Run("per person range", func(t *testing.T) {
		got := ParseVendorPrice("₹800 - ₹1,200 per person")
		assert.Equal(t, 1000.0, got.Avg)
		assert.True(t, got.PerPerson)
	})

	t.Run("unparseable", func(t *testing.T) {
		assert.Equal(t, DefaultVendorPrice, ParseVendorPrice("on request"))
	})
}

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		in   string
		want CapacityRange
	}{
		{"500-1000 guests", CapacityRange{Min: 500, Max: 1000}},
		{"1,000 - 2,000", CapacityRange{Min: 1000, Max: 2000}},
		{"Up to 300 guests", CapacityRange{Min: 0, Max: 300}},
		{"200+ guests", CapacityRange{Min: 200, Max: 10000}},
		{"150", CapacityRange{Min: 0, Max: 150}},
		{"Multiple events", FlexibleCapacity},
		{"", FlexibleCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCapacity(tt.in))
		})
	}
}

func TestParsersNeverPanic(t *testing.T) {
	inputs := []string{"-", "to", "₹", "above", "under lakh", "9999999999999999999999 cr", "1-", "--5", ",,,", "per person"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ParseBudgetRange(in)
			ParseVendorPrice(in)
			ParseCapacity(in)
		}, in)
	}
}

func TestPriceRangeJSON(t *testing.T) {
	raw, err := json.Marshal(ParseVendorPrice("₹1,200 per plate"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"min_per_person":1200,"max_per_person":1200,"avg_per_person":1200,"per_person":true,"fallback":false}`, string(raw))

	raw, err = json.Marshal(ParseVendorPrice("₹1-2 lakh"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"min":100000,"max":200000,"avg":150000,"per_person":false,"fallback":false}`, string(raw))
}
