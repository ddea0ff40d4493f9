package types

import (
	"math"
	"sort"
	"time"
)

// Normalized category vocabulary. Adapters map platform-raw tags into this
// set; anything unrecognized becomes CategoryOther.
const (
	CategoryPolitics      = "politics"
	CategoryCrypto        = "crypto"
	CategorySports        = "sports"
	CategoryAI            = "ai"
	CategoryTechnology    = "technology"
	CategoryScience       = "science"
	CategoryEconomics     = "economics"
	CategoryFinance       = "finance"
	CategoryEntertainment = "entertainment"
	CategoryGaming        = "gaming"
	CategoryHealth        = "health"
	CategoryOther         = "other"
)

//nolint:gochecknoglobals // Closed vocabulary, read-only after init
var categoryVocabulary = map[string]struct{}{
	CategoryPolitics:      {},
	CategoryCrypto:        {},
	CategorySports:        {},
	CategoryAI:            {},
	CategoryTechnology:    {},
	CategoryScience:       {},
	CategoryEconomics:     {},
	CategoryFinance:       {},
	CategoryEntertainment: {},
	CategoryGaming:        {},
	CategoryHealth:        {},
	CategoryOther:         {},
}

// IsCategory reports whether tag belongs to the normalized vocabulary.
func IsCategory(tag string) bool {
	_, ok := categoryVocabulary[tag]
	return ok
}

// Categories returns the normalized vocabulary in sorted order.
func Categories() []string {
	cats := make([]string, 0, len(categoryVocabulary))
	for c := range categoryVocabulary {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Outcome is one named side of a market with its standalone price.
type Outcome struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// PricePoint is a historical probability observation.
type PricePoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Probability float64   `json:"probability"`
}

// Market is the normalized market record shared by all platform adapters.
// Probability is the market-implied "Yes" chance in [0,1]. Volume and
// Liquidity units are platform-defined and not unified.
type Market struct {
	Platform    string
	NativeID    string
	URL         string
	Title       string
	Description string
	Category    string

	Probability float64
	Outcomes    []Outcome

	Volume    *float64
	Liquidity *float64
	CreatedAt time.Time
	ClosesAt  *time.Time

	Resolved   bool
	Resolution *string

	LastFetched  time.Time
	PriceHistory []PricePoint
}

// ID is the federation-wide key: "{platform}:{native_id}".
func (m *Market) ID() string {
	return m.Platform + ":" + m.NativeID
}

// Validate enforces the construction invariants. An out-of-range probability
// reaching this point indicates an adapter bug (adapters clamp first), so the
// returned error is an InvariantViolation that aborts the enclosing operation.
func (m *Market) Validate() error {
	if m.Probability < 0 || m.Probability > 1 {
		return NewInvariantViolation("market %s: probability %f outside [0,1]", m.ID(), m.Probability)
	}

	for _, o := range m.Outcomes {
		if o.Probability < 0 || o.Probability > 1 {
			return NewInvariantViolation("market %s: outcome %q probability %f outside [0,1]", m.ID(), o.Name, o.Probability)
		}

		if o.Name == "Yes" && math.Abs(o.Probability-m.Probability) > 1e-9 {
			return NewInvariantViolation("market %s: Yes outcome %f disagrees with probability %f", m.ID(), o.Probability, m.Probability)
		}
	}

	if !IsCategory(m.Category) {
		return NewInvariantViolation("market %s: category %q not in vocabulary", m.ID(), m.Category)
	}

	return nil
}

// AppendPrice records a probability observation. The history is append-only.
func (m *Market) AppendPrice(ts time.Time, probability float64) {
	m.PriceHistory = append(m.PriceHistory, PricePoint{
		Timestamp:   ts,
		Probability: probability,
	})
}

// BinaryOutcomes builds the [Yes=p, No=1-p] pair for a binary market.
func BinaryOutcomes(probability float64) []Outcome {
	return []Outcome{
		{Name: "Yes", Probability: probability},
		{Name: "No", Probability: 1 - probability},
	}
}

// ClampProbability forces a value into [0,1]. Decoders apply this before
// construction so upstream junk never reaches Validate.
func ClampProbability(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

// Float64Ptr returns a pointer to v. Convenience for optional Market fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
