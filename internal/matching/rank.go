package matching

import (
	"sort"

	"github.com/asterhomes/preference-matching/internal/domain"
)

// ScoredListing pairs a candidate with its score and breakdown before the
// page is assembled.
type ScoredListing struct {
	Listing   domain.Listing
	Score     int
	Breakdown Breakdown
}

// Threshold drops candidates scoring below BaseScore. Every listing reaching
// this stage cleared the hard filters, so this should remove nothing; it is
// kept as an invariant check rather than trusted logic.
func Threshold(in []ScoredListing) []ScoredListing {
	out := in[:0]
	for _, s := range in {
		if s.Score >= BaseScore {
			out = append(out, s)
		}
	}
	return out
}

// Rank sorts candidates descending by score. The sort is stable: equal scores
// keep their fetch order, which keeps repeated calls deterministic.
func Rank(in []ScoredListing) {
	sort.SliceStable(in, func(i, j int) bool { return in[i].Score > in[j].Score })
}

// PriorityCutoff returns ceil(0.8*n): the number of top-ranked candidates
// flagged as priority matches.
func PriorityCutoff(n int) int {
	if n <= 0 {
		return 0
	}
	// ceil(0.8*n) in integer arithmetic.
	return (n*4 + 4) / 5
}

// Prioritize converts the ranked candidates into match results, flagging the
// top ceil(80%) by rank. Annotation only; nothing is removed.
func Prioritize(ranked []ScoredListing) []domain.MatchResult {
	cutoff := PriorityCutoff(len(ranked))
	out := make([]domain.MatchResult, 0, len(ranked))
	for i, s := range ranked {
		out = append(out, domain.MatchResult{
			Listing:    s.Listing.Summary(),
			MatchScore: s.Score,
			IsPriority: i < cutoff,
		})
	}
	return out
}
