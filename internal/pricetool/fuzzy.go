package pricetool

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// matchScore rates how well a product name answers a free-text query on a
// 0-100 scale. A product name appearing verbatim inside the query (the
// common "how much is X" shape) scores as a near-perfect partial match;
// otherwise the best of the whole-string and sorted-token edit similarities
// is used.
func matchScore(query, name string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(strings.TrimSpace(name))
	if q == "" || n == "" {
		return 0
	}
	if strings.Contains(q, n) || strings.Contains(n, q) {
		return 90
	}
	full := editSimilarity(q, n)
	tokens := editSimilarity(sortedTokens(q), sortedTokens(n))
	if tokens > full {
		return tokens
	}
	return full
}

// editSimilarity is 100*(1 - lev/maxlen), the normalized Levenshtein
// similarity of two strings.
func editSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return 100 * (1 - float64(levenshtein(a, b))/float64(longest))
}

func sortedTokens(s string) string {
	tokens := wordPattern.FindAllString(s, -1)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// levenshtein is the minimum number of single-character edits turning a
// into b, computed over runes with the two-row dynamic program.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
