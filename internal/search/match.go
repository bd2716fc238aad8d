package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match fuzzy-matches query against candidate. It returns a score (higher is
// better), the candidate rune positions the query characters landed on, and
// whether the query matched at all. Matching is case-insensitive and
// subsequence-based; the score is the negated edit distance so that closer
// matches sort first under a descending order. Results are deterministic for
// a fixed input pair.
func Match(candidate, query string) (int, []int, bool) {
	if query == "" {
		return 0, nil, true
	}
	distance := fuzzy.RankMatchNormalizedFold(query, candidate)
	if distance < 0 {
		return 0, nil, false
	}
	return -distance, matchedIndices(candidate, query), true
}

// matchedIndices walks the candidate left to right consuming query runes in
// order, the same subsequence the fold match accepted.
func matchedIndices(candidate, query string) []int {
	target := []rune(strings.ToLower(candidate))
	needle := []rune(strings.ToLower(query))
	indices := make([]int, 0, len(needle))
	pos := 0
	for _, q := range needle {
		for pos < len(target) && target[pos] != q {
			pos++
		}
		if pos >= len(target) {
			break
		}
		indices = append(indices, pos)
		pos++
	}
	return indices
}
