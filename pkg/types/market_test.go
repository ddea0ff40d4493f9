package types

import (
	"math"
	"testing"
	"time"
)

func validMarket() *Market {
	return &Market{
		Platform:    "manifold",
		NativeID:    "m1",
		URL:         "https://manifold.markets/market/m1",
		Title:       "Will X happen?",
		Category:    CategoryPolitics,
		Probability: 0.4,
		Outcomes:    BinaryOutcomes(0.4),
		CreatedAt:   time.Now().UTC(),
		LastFetched: time.Now().UTC(),
	}
}

func TestMarket_ID(t *testing.T) {
	m := validMarket()

	if got := m.ID(); got != "manifold:m1" {
		t.Errorf("expected id manifold:m1, got %s", got)
	}
}

func TestMarket_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Market)
		wantErr bool
	}{
		{"valid", func(m *Market) {}, false},
		{"probability above one", func(m *Market) { m.Probability = 1.5 }, true},
		{"probability negative", func(m *Market) { m.Probability = -0.1 }, true},
		{"probability at bounds", func(m *Market) {
			m.Probability = 1.0
			m.Outcomes = BinaryOutcomes(1.0)
		}, false},
		{"outcome out of range", func(m *Market) {
			m.Outcomes = []Outcome{{Name: "Yes", Probability: 1.2}}
		}, true},
		{"yes outcome disagrees", func(m *Market) {
			m.Outcomes = []Outcome{{Name: "Yes", Probability: 0.9}, {Name: "No", Probability: 0.1}}
		}, true},
		{"raw category", func(m *Market) { m.Category = "US Politics" }, true},
		{"multi outcome sums over one", func(m *Market) {
			// PredictIt-style contracts price independently
			m.Probability = 0.6
			m.Outcomes = []Outcome{
				{Name: "Candidate A", Probability: 0.6},
				{Name: "Candidate B", Probability: 0.55},
			}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMarket()
			tt.mutate(m)

			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr {
				if _, ok := err.(*InvariantViolation); !ok {
					t.Errorf("expected *InvariantViolation, got %T", err)
				}
			}
		})
	}
}

func TestBinaryOutcomes_SumToOne(t *testing.T) {
	for _, p := range []float64{0.0, 0.1, 0.4, 0.5, 0.999, 1.0} {
		outcomes := BinaryOutcomes(p)

		if len(outcomes) != 2 {
			t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
		}

		if outcomes[0].Name != "Yes" || outcomes[1].Name != "No" {
			t.Errorf("expected [Yes, No], got [%s, %s]", outcomes[0].Name, outcomes[1].Name)
		}

		sum := outcomes[0].Probability + outcomes[1].Probability
		if math.Abs(sum-1.0) >= 1e-9 {
			t.Errorf("p=%f: outcome sum %f not within 1e-9 of 1.0", p, sum)
		}
	}
}

func TestClampProbability(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0.0},
		{0.0, 0.0},
		{0.42, 0.42},
		{1.0, 1.0},
		{1.5, 1.0},
	}

	for _, tt := range tests {
		if got := ClampProbability(tt.in); got != tt.want {
			t.Errorf("ClampProbability(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()

	if len(cats) != 12 {
		t.Errorf("expected 12 categories, got %d", len(cats))
	}

	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Errorf("categories not sorted: %s before %s", cats[i-1], cats[i])
		}
	}

	for _, c := range cats {
		if !IsCategory(c) {
			t.Errorf("Categories() returned %q not accepted by IsCategory", c)
		}
	}

	if IsCategory("Politics") {
		t.Error("vocabulary must be lowercase only")
	}
}

func TestMarket_AppendPrice(t *testing.T) {
	m := validMarket()
	ts1 := time.Now().UTC()
	ts2 := ts1.Add(time.Minute)

	m.AppendPrice(ts1, 0.4)
	m.AppendPrice(ts2, 0.45)

	if len(m.PriceHistory) != 2 {
		t.Fatalf("expected 2 price points, got %d", len(m.PriceHistory))
	}

	if !m.PriceHistory[0].Timestamp.Equal(ts1) || m.PriceHistory[0].Probability != 0.4 {
		t.Error("first price point mismatch")
	}

	if !m.PriceHistory[1].Timestamp.Equal(ts2) || m.PriceHistory[1].Probability != 0.45 {
		t.Error("second price point mismatch")
	}
}
