package scorer

import (
	"regexp"
	"strings"
	"time"
)

// Category is a vendor service type
type Category string

const (
	CategoryVenue         Category = "venues"
	CategoryCatering      Category = "catering"
	CategoryPhotography   Category = "photography"
	CategoryDecoration    Category = "decoration"
	CategoryMakeup        Category = "makeup"
	CategoryEntertainment Category = "entertainment"
)

// DefaultAllocation is the share of the budget assumed for unknown categories.
const DefaultAllocation = 0.15

var categoryAliases = map[string]Category{
	"venue":          CategoryVenue,
	"venues":         CategoryVenue,
	"banquet":        CategoryVenue,
	"banquet hall":   CategoryVenue,
	"catering":       CategoryCatering,
	"caterer":        CategoryCatering,
	"caterers":       CategoryCatering,
	"food":           CategoryCatering,
	"photography":    CategoryPhotography,
	"photographer":   CategoryPhotography,
	"photographers":  CategoryPhotography,
	"videography":    CategoryPhotography,
	"decoration":     CategoryDecoration,
	"decorations":    CategoryDecoration,
	"decor":          CategoryDecoration,
	"decorator":      CategoryDecoration,
	"decorators":     CategoryDecoration,
	"florist":        CategoryDecoration,
	"makeup":         CategoryMakeup,
	"make-up":        CategoryMakeup,
	"makeup artist":  CategoryMakeup,
	"makeup artists": CategoryMakeup,
	"bridal makeup":  CategoryMakeup,
	"mehendi":        CategoryMakeup,
	"entertainment":  CategoryEntertainment,
	"music":          CategoryEntertainment,
	"dj":             CategoryEntertainment,
	"band":           CategoryEntertainment,
	"djs":            CategoryEntertainment,
	"sangeet":        CategoryEntertainment,
	"choreographer":  CategoryEntertainment,
}

// NormalizeCategory maps a free-text category onto a known one.
func NormalizeCategory(raw string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// BudgetBracket is an ordered band of total wedding spend
type BudgetBracket int

const (
	BracketEconomy BudgetBracket = iota
	BracketModerate
	BracketPremium
	BracketLuxury
	BracketUltraLuxury
)

// bracketCeilings holds the exclusive upper bound of every bracket but the last.
var bracketCeilings = [...]float64{10 * lakh, 20 * lakh, 35 * lakh, 50 * lakh}

// BracketFor resolves the bracket of a budget midpoint by numeric comparison.
func BracketFor(amount float64) BudgetBracket {
	for i, ceiling := range bracketCeilings {
		if amount < ceiling {
			return BudgetBracket(i)
		}
	}
	return BracketUltraLuxury
}

func (b BudgetBracket) String() string {
	switch b {
	case BracketEconomy:
		return "Under 10 Lakhs"
	case BracketModerate:
		return "10-20 Lakhs"
	case BracketPremium:
		return "20-35 Lakhs"
	case BracketLuxury:
		return "35-50 Lakhs"
	default:
		return "Above 50 Lakhs"
	}
}

// allocations gives the conventional share of the budget per category. Each
// row leaves 10% for miscellaneous spend.
var allocations = map[BudgetBracket]map[Category]float64{
	BracketEconomy: {
		CategoryVenue: 0.35, CategoryCatering: 0.30, CategoryPhotography: 0.08,
		CategoryDecoration: 0.08, CategoryMakeup: 0.04, CategoryEntertainment: 0.05,
	},
	BracketModerate: {
		CategoryVenue: 0.32, CategoryCatering: 0.28, CategoryPhotography: 0.10,
		CategoryDecoration: 0.10, CategoryMakeup: 0.05, CategoryEntertainment: 0.05,
	},
	BracketPremium: {
		CategoryVenue: 0.30, CategoryCatering: 0.25, CategoryPhotography: 0.12,
		CategoryDecoration: 0.12, CategoryMakeup: 0.05, CategoryEntertainment: 0.06,
	},
	BracketLuxury: {
		CategoryVenue: 0.28, CategoryCatering: 0.22, CategoryPhotography: 0.12,
		CategoryDecoration: 0.15, CategoryMakeup: 0.05, CategoryEntertainment: 0.08,
	},
	BracketUltraLuxury: {
		CategoryVenue: 0.25, CategoryCatering: 0.20, CategoryPhotography: 0.12,
		CategoryDecoration: 0.18, CategoryMakeup: 0.05, CategoryEntertainment: 0.10,
	},
}

// Allocation returns the budget share for a category in a bracket.
func Allocation(b BudgetBracket, c Category) (float64, bool) {
	pct, ok := allocations[b][c]
	if !ok {
		return DefaultAllocation, false
	}
	return pct, true
}

var cityAliases = map[string]string{
	"bombay":        "mumbai",
	"new delhi":     "delhi",
	"ncr":           "delhi",
	"delhi ncr":     "delhi",
	"bangalore":     "bengaluru",
	"gurgaon":       "gurugram",
	"calcutta":      "kolkata",
	"madras":        "chennai",
	"mysore":        "mysuru",
	"mangalore":     "mangaluru",
	"poona":         "pune",
	"cochin":        "kochi",
	"trivandrum":    "thiruvananthapuram",
	"vizag":         "visakhapatnam",
	"baroda":        "vadodara",
	"new mumbai":    "navi mumbai",
	"greater noida": "noida",
	"banaras":       "varanasi",
	"benares":       "varanasi",
	"pondicherry":   "puducherry",
}

// nearbyCities scores well-known metro clusters. Keys are "a|b" with a < b.
var nearbyCities = map[string]float64{
	pairKey("mumbai", "thane"):           90,
	pairKey("mumbai", "navi mumbai"):     90,
	pairKey("thane", "navi mumbai"):      90,
	pairKey("mumbai", "pune"):            70,
	pairKey("mumbai", "lonavala"):        75,
	pairKey("pune", "lonavala"):          80,
	pairKey("delhi", "gurugram"):         90,
	pairKey("delhi", "noida"):            90,
	pairKey("delhi", "faridabad"):        85,
	pairKey("delhi", "ghaziabad"):        85,
	pairKey("gurugram", "noida"):         80,
	pairKey("delhi", "agra"):             70,
	pairKey("jaipur", "delhi"):           70,
	pairKey("bengaluru", "mysuru"):       70,
	pairKey("hyderabad", "secunderabad"): 90,
	pairKey("kolkata", "howrah"):         90,
	pairKey("chennai", "kanchipuram"):    75,
	pairKey("chennai", "mahabalipuram"):  75,
	pairKey("chennai", "puducherry"):     70,
	pairKey("ahmedabad", "gandhinagar"):  90,
	pairKey("chandigarh", "mohali"):      90,
	pairKey("chandigarh", "panchkula"):   90,
	pairKey("panaji", "margao"):          85,
	pairKey("udaipur", "jodhpur"):        70,
	pairKey("kochi", "alappuzha"):        75,
}

var stateGroups = map[string][]string{
	"maharashtra":    {"mumbai", "pune", "nagpur", "nashik", "thane", "navi mumbai", "aurangabad", "lonavala"},
	"delhi ncr":      {"delhi", "gurugram", "noida", "faridabad", "ghaziabad"},
	"rajasthan":      {"jaipur", "udaipur", "jodhpur", "jaisalmer", "pushkar", "bikaner"},
	"karnataka":      {"bengaluru", "mysuru", "mangaluru", "coorg", "hubli"},
	"tamil nadu":     {"chennai", "coimbatore", "madurai", "kanchipuram", "mahabalipuram", "ooty"},
	"gujarat":        {"ahmedabad", "surat", "vadodara", "rajkot", "gandhinagar"},
	"uttar pradesh":  {"lucknow", "agra", "varanasi", "kanpur", "noida", "ghaziabad"},
	"west bengal":    {"kolkata", "howrah", "darjeeling", "siliguri"},
	"telangana":      {"hyderabad", "secunderabad", "warangal"},
	"kerala":         {"kochi", "thiruvananthapuram", "alappuzha", "kozhikode", "munnar"},
	"goa":            {"panaji", "margao", "goa", "calangute"},
	"punjab":         {"amritsar", "ludhiana", "jalandhar", "mohali"},
	"haryana":        {"gurugram", "faridabad", "panchkula"},
	"andhra pradesh": {"visakhapatnam", "vijayawada", "tirupati"},
	"uttarakhand":    {"dehradun", "rishikesh", "mussoorie", "jim corbett"},
}

var cityStates = buildCityStates()

func buildCityStates() map[string][]string {
	out := make(map[string][]string)
	for state, cities := range stateGroups {
		for _, c := range cities {
			out[c] = append(out[c], state)
		}
	}
	return out
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// canonicalCity lowercases, trims and resolves common alternate names.
// "Andheri, Mumbai" resolves to "mumbai" when the last segment is a known city.
func canonicalCity(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := cityAliases[c]; ok {
		return alias
	}
	if i := strings.LastIndex(c, ","); i >= 0 {
		tail := canonicalCity(c[i+1:])
		if _, known := cityStates[tail]; known {
			return tail
		}
	}
	return c
}

func sameState(a, b string) bool {
	for _, sa := range cityStates[a] {
		for _, sb := range cityStates[b] {
			if sa == sb {
				return true
			}
		}
	}
	return false
}

// themeKeywords maps a wedding style to vendor tags that signal experience with it.
var themeKeywords = map[string][]string{
	"traditional": {"traditional", "heritage", "classic", "cultural", "ethnic", "vintage", "royal"},
	"modern":      {"modern", "contemporary", "minimalist", "chic", "urban", "candid", "cinematic"},
	"destination": {"destination", "beach", "resort", "palace", "hill", "lakeside"},
	"rustic":      {"rustic", "boho", "garden", "farm", "outdoor", "floral"},
	"luxury":      {"luxury", "premium", "grand", "royal", "palace", "opulent", "five star"},
	"intimate":    {"intimate", "boutique", "small", "cozy", "private"},
}

// themeOrder fixes the lookup order so that a style naming two themes always
// resolves the same way.
var themeOrder = []string{"traditional", "modern", "destination", "rustic", "luxury", "intimate"}

var themeAliases = []struct{ word, theme string }{
	{"classic", "traditional"},
	{"cultural", "traditional"},
	{"ethnic", "traditional"},
	{"contemporary", "modern"},
	{"minimalist", "modern"},
	{"beach", "destination"},
	{"palace", "destination"},
	{"boho", "rustic"},
	{"garden", "rustic"},
	{"royal", "luxury"},
	{"grand", "luxury"},
	{"small", "intimate"},
	{"court", "intimate"},
}

// categoryStyleBonus adds a small bonus for categories where a style matters most.
var categoryStyleBonus = map[Category]map[string]float64{
	CategoryPhotography:   {"modern": 10, "destination": 5},
	CategoryDecoration:    {"traditional": 10, "rustic": 10, "luxury": 5},
	CategoryVenue:         {"luxury": 10, "destination": 10, "traditional": 5},
	CategoryCatering:      {"traditional": 5},
	CategoryMakeup:        {"modern": 5},
	CategoryEntertainment: {"modern": 5},
}

// resolveTheme finds the theme named by a style tag, if any.
func resolveTheme(style string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(style))
	if s == "" {
		return "", false
	}
	for _, theme := range themeOrder {
		if strings.Contains(s, theme) {
			return theme, true
		}
	}
	for _, a := range themeAliases {
		if strings.Contains(s, a.word) {
			return a.theme, true
		}
	}
	return "", false
}

// Season classifies a wedding date against the Indian wedding calendar
type Season int

const (
	SeasonUnknown Season = iota
	SeasonPeak
	SeasonOffPeak
)

func (s Season) String() string {
	switch s {
	case SeasonPeak:
		return "peak"
	case SeasonOffPeak:
		return "off-peak"
	default:
		return "unknown"
	}
}

var peakMonths = map[time.Month]bool{
	time.October:  true,
	time.November: true,
	time.December: true,
	time.January:  true,
	time.February: true,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02-01-2006",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
	"January 2006",
	"Jan 2006",
	"2006-01",
}

var (
	monthPattern  = regexp.MustCompile(`\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`)
	peakTokens    = []string{"peak", "winter", "wedding season", "shaadi season"}
	offPeakTokens = []string{"off-peak", "off peak", "offseason", "off-season", "summer", "monsoon"}
)

// SeasonOf classifies a free-text wedding date or season token.
func SeasonOf(raw string) Season {
	s := strings.TrimSpace(raw)
	if s == "" {
		return SeasonUnknown
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return seasonForMonth(t.Month())
		}
	}

	lower := strings.ToLower(s)
	// off-peak tokens first: "off-peak" contains "peak"
	for _, tok := range offPeakTokens {
		if strings.Contains(lower, tok) {
			return SeasonOffPeak
		}
	}
	for _, tok := range peakTokens {
		if strings.Contains(lower, tok) {
			return SeasonPeak
		}
	}
	if match := monthPattern.FindStringSubmatch(lower); match != nil {
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), match[1][:3]) {
				return seasonForMonth(m)
			}
		}
	}
	return SeasonUnknown
}

func seasonForMonth(m time.Month) Season {
	if peakMonths[m] {
		return SeasonPeak
	}
	return SeasonOffPeak
}
