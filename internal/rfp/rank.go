package rfp

import (
	"fmt"
	"math"
	"sort"
)

// cosineSimilarity returns the cosine of the angle between two vectors, in
// [-1, 1]. Zero-length or mismatched vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// embeddingText is the opportunity text scored against the company profile.
func embeddingText(opp Opportunity) string {
	return opp.Title + " " + opp.Description
}

// profileText is the company text embedded once per ranking pass.
func profileText(profile CompanyProfile) string {
	return fmt.Sprintf("Description: %s", profile.Description)
}

// rankOpportunities sorts opportunities descending by match score and
// truncates to the top k. The sort is stable: ties keep original fetch order.
func rankOpportunities(opps []Opportunity, k int) []Opportunity {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].MatchScore > opps[j].MatchScore
	})
	if len(opps) > k {
		opps = opps[:k]
	}
	return opps
}
