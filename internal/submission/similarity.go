package submission

import "strings"

// SimilarityThreshold is the score at which a new game name is reported as
// a likely respelling of a known one.
const SimilarityThreshold = 0.75

// Similarity scores two strings between 0 and 1. Each character of one
// string consumes one matching character of the other; the score is the
// mean of the matched fractions in both directions. Case is ignored.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	return (overlap(ra, rb) + overlap(rb, ra)) / 2
}

func overlap(src, pool []rune) float64 {
	if len(src) == 0 {
		return 0
	}
	avail := make(map[rune]int, len(pool))
	for _, r := range pool {
		avail[r]++
	}
	matched := 0
	for _, r := range src {
		if avail[r] > 0 {
			avail[r]--
			matched++
		}
	}
	return float64(matched) / float64(len(src))
}

// SimilarGame returns the known game closest to name. ok is false when the
// best score is below SimilarityThreshold. Ties keep the earlier game.
func SimilarGame(name string, known []string) (best string, score float64, ok bool) {
	for _, g := range known {
		if s := Similarity(name, g); s > score {
			best, score = g, s
		}
	}
	return best, score, score >= SimilarityThreshold
}

// IsKnownGame reports whether name is one of the known games.
func IsKnownGame(name string, known []string) bool {
	for _, g := range known {
		if g == name {
			return true
		}
	}
	return false
}
