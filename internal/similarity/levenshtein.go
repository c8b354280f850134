package similarity

import "math"

// Score returns the normalized edit-distance similarity between two texts:
// 1 - lev(a,b) / max(len(a), len(b)), in [0,1]. An empty input on either
// side scores 0, including when both are empty, so blank submissions never
// register as full matches.
func Score(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	dist := levenshtein(ra, rb)
	return 1 - float64(dist)/float64(longest)
}

// Percent converts a score into a percentage rounded to two decimals.
func Percent(score float64) float64 {
	return math.Round(score*10000) / 100
}

// levenshtein computes the classic insert/delete/substitute edit distance
// using two rolling rows, so memory stays linear in the shorter input.
func levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
