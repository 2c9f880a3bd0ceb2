package rfp

import (
	"math"
	"strings"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"scaled", []float64{1, 1}, []float64{5, 5}, 1},
		{"mismatched lengths", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("cosineSimilarity(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestRankOpportunities(t *testing.T) {
	t.Run("sorts descending", func(t *testing.T) {
		opps := []Opportunity{
			{Title: "low", MatchScore: 0.1},
			{Title: "high", MatchScore: 0.9},
			{Title: "mid", MatchScore: 0.5},
		}

		ranked := rankOpportunities(opps, 10)

		want := []string{"high", "mid", "low"}
		for i, title := range want {
			if ranked[i].Title != title {
				t.Errorf("position %d: got %q, want %q", i, ranked[i].Title, title)
			}
		}
	})

	t.Run("ties keep fetch order", func(t *testing.T) {
		opps := []Opportunity{
			{Title: "first", MatchScore: 0.5},
			{Title: "second", MatchScore: 0.5},
			{Title: "third", MatchScore: 0.5},
		}

		ranked := rankOpportunities(opps, 10)

		want := []string{"first", "second", "third"}
		for i, title := range want {
			if ranked[i].Title != title {
				t.Errorf("position %d: got %q, want %q", i, ranked[i].Title, title)
			}
		}
	})

	t.Run("truncates to k", func(t *testing.T) {
		opps := make([]Opportunity, 25)
		for i := range opps {
			opps[i].MatchScore = float64(i)
		}

		ranked := rankOpportunities(opps, 10)

		if len(ranked) != 10 {
			t.Fatalf("len = %d, want 10", len(ranked))
		}
		if ranked[0].MatchScore != 24 {
			t.Errorf("top score = %v, want 24", ranked[0].MatchScore)
		}
	})

	t.Run("shorter than k", func(t *testing.T) {
		opps := []Opportunity{{MatchScore: 0.3}, {MatchScore: 0.7}}

		ranked := rankOpportunities(opps, 10)

		if len(ranked) != 2 {
			t.Fatalf("len = %d, want 2", len(ranked))
		}
	})
}

func TestArtifactKey(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Road Work", "abc/proposal_road-work.pdf"},
		{"punctuation collapses", "IT Services -- Phase 2!", "abc/proposal_it-services-phase-2.pdf"},
		{"trailing separators trimmed", "Snow Removal (2026)", "abc/proposal_snow-removal-2026.pdf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := artifactKey("abc", tc.title); got != tc.want {
				t.Errorf("artifactKey(abc, %q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestProposalPrompt(t *testing.T) {
	opp := Opportunity{Title: "Fleet Maintenance", Customer: "City of Calgary", Description: "Maintain municipal fleet"}
	profile := CompanyProfile{Name: "Acme Ltd", Description: "Vehicle services company"}

	prompt, err := proposalPrompt(opp, profile, "extra context here")
	if err != nil {
		t.Fatalf("proposalPrompt: %v", err)
	}

	for _, want := range []string{
		"Fleet Maintenance",
		"City of Calgary",
		"Acme Ltd",
		"Vehicle services company",
		"extra context here",
		"Executive Summary",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
