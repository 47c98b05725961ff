package match

import "strings"

// Similarity scores how alike two names are, in [0,1]. Implementations must
// be symmetric and deterministic; identical non-empty names score 1.
type Similarity interface {
	Score(a, b string) float64
}

// DiceSimilarity scores names by the Sorensen-Dice coefficient over
// case-folded character bigrams. Purely lexical, which keeps reconciliation
// deterministic and offline; "Assignment 1" vs "assignment 1" is 1.0 and
// unrelated names land near 0.
type DiceSimilarity struct{}

func (DiceSimilarity) Score(a, b string) float64 {
	a = fold(a)
	b = fold(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	overlap := 0
	for gram, na := range ba {
		if nb, ok := bb[gram]; ok {
			overlap += min(na, nb)
		}
	}
	return 2 * float64(overlap) / float64(total(ba)+total(bb))
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}

func total(grams map[string]int) int {
	n := 0
	for _, c := range grams {
		n += c
	}
	return n
}
