package scorer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const (
	thousand = 1_000.0
	lakh     = 100_000.0
	crore    = 10_000_000.0
)

// BudgetRange is a parsed total wedding budget
type BudgetRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Avg      float64 `json:"avg"`
	Fallback bool    `json:"fallback"`
}

// PriceRange is a parsed vendor price. When PerPerson is set the amounts are
// per guest and must be multiplied by the guest count.
type PriceRange struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Avg       float64 `json:"avg"`
	PerPerson bool    `json:"per_person"`
	Fallback  bool    `json:"fallback"`
}

// MarshalJSON reports per-person prices under *_per_person keys.
func (p PriceRange) MarshalJSON() ([]byte, error) {
	if !p.PerPerson {
		type plain PriceRange
		return json.Marshal(plain(p))
	}
	return json.Marshal(struct {
		MinPerPerson float64 `json:"min_per_person"`
		MaxPerPerson float64 `json:"max_per_person"`
		AvgPerPerson float64 `json:"avg_per_person"`
		PerPerson    bool    `json:"per_person"`
		Fallback     bool    `json:"fallback"`
	}{p.Min, p.Max, p.Avg, true, p.Fallback})
}

// CapacityRange is a parsed guest capacity
type CapacityRange struct {
	Min      int  `json:"min"`
	Max      int  `json:"max"`
	Flexible bool `json:"flexible"`
}

// Fallbacks used when free text does not match any known pattern.
var (
	DefaultBudgetRange = BudgetRange{Min: 20 * lakh, Max: 30 * lakh, Avg: 25 * lakh, Fallback: true}
	DefaultVendorPrice = PriceRange{Min: 1 * lakh, Max: 3 * lakh, Avg: 2 * lakh, Fallback: true}
	FlexibleCapacity   = CapacityRange{Min: 1, Max: 10_000, Flexible: true}
)

const (
	currencyPattern = `(?:₹|rs\.?|inr)?\s*`
	amountPattern   = `(\d[\d,]*(?:\.\d+)?)`
	unitPattern     = `(lakhs|lakh|lacs|lac|crores|crore|cr|thousand|k|l)?`
	dashPattern     = `\s*(?:-|–|—|to)\s*`
)

var (
	moneyRangeRe = regexp.MustCompile(`(?i)` + currencyPattern + amountPattern + `\s*` + unitPattern +
		dashPattern + currencyPattern + amountPattern + `\s*` + unitPattern + `\b`)
	moneyAboveRe = regexp.MustCompile(`(?i)\b(?:above|over|more than|upwards of|starting(?:\s+(?:from|at))?)\s*` +
		currencyPattern + amountPattern + `\s*` + unitPattern + `\b`)
	moneyUnderRe = regexp.MustCompile(`(?i)\b(?:under|below|less than|up to|upto|within)\s*` +
		currencyPattern + amountPattern + `\s*` + unitPattern + `\b`)
	moneySingleRe = regexp.MustCompile(`(?i)` + currencyPattern + amountPattern + `\s*` + unitPattern + `\b`)
	perPersonRe   = regexp.MustCompile(`(?i)(?:per\s*|/\s*)(?:person|plate|head|guest|pax)`)

	countRangeRe = regexp.MustCompile(`(\d[\d,]*)` + dashPattern + `(\d[\d,]*)`)
	countUpToRe  = regexp.MustCompile(`(?i)\b(?:up to|upto|max(?:imum)?|under)\s*(\d[\d,]*)`)
	countPlusRe  = regexp.MustCompile(`(\d[\d,]*)\s*(?:\+|and above|or more)`)
	countSingle  = regexp.MustCompile(`(\d[\d,]*)`)
)

// ParseBudgetRange parses a total budget such as "₹20-30 Lakhs",
// "Above 50 lakh" or "Under 10 lakh". Unrecognised text yields DefaultBudgetRange.
func ParseBudgetRange(text string) BudgetRange {
	low, high, ok := parseMoney(text)
	if !ok {
		return DefaultBudgetRange
	}
	return BudgetRange{Min: low, Max: high, Avg: (low + high) / 2}
}

// ParseVendorPrice parses a vendor price range, detecting per-person pricing.
// Unrecognised text yields DefaultVendorPrice.
func ParseVendorPrice(text string) PriceRange {
	low, high, ok := parseMoney(text)
	if !ok {
		return DefaultVendorPrice
	}
	return PriceRange{
		Min:       low,
		Max:       high,
		Avg:       (low + high) / 2,
		PerPerson: perPersonRe.MatchString(text),
	}
}

// ParseCapacity parses a guest capacity such as "500-1000 guests".
// Anything without a number, including "Multiple events", is FlexibleCapacity.
func ParseCapacity(text string) CapacityRange {
	if m := countRangeRe.FindStringSubmatch(text); m != nil {
		low, high := parseCount(m[1]), parseCount(m[2])
		if low > high {
			low, high = high, low
		}
		if high > 0 {
			return CapacityRange{Min: low, Max: high}
		}
	}
	if m := countUpToRe.FindStringSubmatch(text); m != nil {
		if high := parseCount(m[1]); high > 0 {
			return CapacityRange{Min: 0, Max: high}
		}
	}
	if m := countPlusRe.FindStringSubmatch(text); m != nil {
		if low := parseCount(m[1]); low > 0 {
			return CapacityRange{Min: low, Max: max(low, FlexibleCapacity.Max)}
		}
	}
	if m := countSingle.FindStringSubmatch(text); m != nil {
		if high := parseCount(m[1]); high > 0 {
			return CapacityRange{Min: 0, Max: high}
		}
	}
	return FlexibleCapacity
}

// parseMoney returns the low and high bound in rupees. Open-ended ranges are
// closed heuristically: "above X" spans X..2X (avg 1.5X) and "under X" spans
// 0.5X..X (avg 0.75X).
func parseMoney(text string) (float64, float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0, false
	}

	if m := moneyRangeRe.FindStringSubmatch(text); m != nil {
		unitLow, unitHigh := m[2], m[4]
		if unitLow == "" {
			unitLow = unitHigh
		}
		low, okLow := parseAmount(m[1], unitLow)
		high, okHigh := parseAmount(m[3], unitHigh)
		if okLow && okHigh {
			if low > high {
				low, high = high, low
			}
			return low, high, true
		}
	}
	if m := moneyAboveRe.FindStringSubmatch(text); m != nil {
		if low, ok := parseAmount(m[1], m[2]); ok {
			return low, 2 * low, true
		}
	}
	if m := moneyUnderRe.FindStringSubmatch(text); m != nil {
		if high, ok := parseAmount(m[1], m[2]); ok {
			return 0.5 * high, high, true
		}
	}
	if m := moneySingleRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1], m[2]); ok {
			return v, v, true
		}
	}
	return 0, 0, false
}

func parseAmount(num, unit string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * unitScale(unit), true
}

func unitScale(unit string) float64 {
	switch strings.ToLower(unit) {
	case "lakh", "lakhs", "lac", "lacs", "l":
		return lakh
	case "crore", "crores", "cr":
		return crore
	case "k", "thousand":
		return thousand
	default:
		return 1
	}
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
