// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keyword

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := a.Overlap(b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Similarity extracts keyword sets from both texts and returns their
// Jaccard similarity. Symmetric by construction; identical non-empty
// keyword sets score 1.0.
func Similarity(text1, text2 string) float64 {
	return Jaccard(Extract(text1), Extract(text2))
}
