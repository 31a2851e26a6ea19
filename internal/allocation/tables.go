package allocation

// The weight, floor, cap and baseline tables are keyed by category slug.
// They are deliberate literal constants, not user configuration: changing
// them changes every allocation the engine produces.

// baseWeightsBP holds the relative weight of each known category in basis
// points. Slugs absent from the table weigh defaultWeightBP.
var baseWeightsBP = map[string]int64{
	"housing_rent":    4500,
	"food":            2000,
	"transport":       1000,
	"bills_utilities": 1000,
	"entertainment":   500,
	"shopping":        500,
	"health":          300,
	"other":           200,
}

// defaultWeightBP is the flat weight for unknown or custom category slugs.
const defaultWeightBP = 200

// floorsBP guarantees a minimum share of the total for essential
// categories, in basis points of the total.
var floorsBP = map[string]int64{
	"food":            1000,
	"transport":       500,
	"bills_utilities": 500,
}

// capsBP limits a category's share of the total, in basis points of the
// total. Slugs absent from the table are uncapped.
var capsBP = map[string]int64{
	"housing_rent":    6000,
	"food":            3000,
	"entertainment":   1200,
	"shopping":        1200,
	"other":           1000,
}

// fixedBaselineCents holds the relative funding weights used when fixed
// categories are present, expressed as typical monthly amounts in cents.
// Only the ratios matter; the amounts are never allocated literally.
var fixedBaselineCents = map[string]int64{
	"housing_rent":    90000,
	"transport":       14000,
	"bills_utilities": 12000,
}

// defaultFixedBaselineCents is the baseline weight for fixed categories
// absent from the table, so a scope of unlisted fixed categories splits
// the total evenly.
const defaultFixedBaselineCents = 10000

func baseWeight(slug string) int64 {
	if w, ok := baseWeightsBP[slug]; ok {
		return w
	}
	return defaultWeightBP
}

func baselineWeight(slug string) int64 {
	if b, ok := fixedBaselineCents[slug]; ok {
		return b
	}
	return defaultFixedBaselineCents
}
