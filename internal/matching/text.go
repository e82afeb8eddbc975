package matching

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Normalize lowercases s and collapses runs of whitespace into single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Similarity is the Jaccard similarity of the word sets of a and b. It is 0 when either side is empty.
func Similarity(a, b string) float64 {
	left := wordSet(Normalize(a))
	right := wordSet(Normalize(b))
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	return jaccard(left, right)
}

func jaccard(left, right map[string]struct{}) float64 {
	shared := sharedWords(left, right)
	union := len(left) + len(right) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func sharedWords(left, right map[string]struct{}) int {
	shared := 0
	for w := range left {
		if _, ok := right[w]; ok {
			shared++
		}
	}
	return shared
}

// DisplayScore is the user-facing match score: word-set similarity rounded to two decimals.
func DisplayScore(goal, templateGoal string) float64 {
	return math.Round(Similarity(goal, templateGoal)*100) / 100
}

func longKeyword(kw string) bool {
	return utf8.RuneCountInString(kw) > minKeywordLength
}
