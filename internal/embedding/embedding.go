// Package embedding provides the deterministic text fingerprint used as the
// baseline similarity signal between students and career paths.
//
// The fingerprint is not a semantic embedding. Every element derives from a
// single scalar (the sum of the text's UTF-16 code units), so identical text
// always yields an identical vector and stored scores stay reproducible.
package embedding

import (
	"math"
	"unicode/utf16"
)

// Dimensions is the length of every generated vector.
const Dimensions = 384

// Hash returns the sum of the UTF-16 code units of text.
func Hash(text string) float64 {
	var h float64
	for _, unit := range utf16.Encode([]rune(text)) {
		h += float64(unit)
	}
	return h
}

// Embed maps text to a Dimensions-length vector with elements in [0, 1].
// Element i is (sin(h+i)+1)/2 where h is Hash(text).
func Embed(text string) []float64 {
	h := Hash(text)
	vec := make([]float64, Dimensions)
	for i := range vec {
		vec[i] = (math.Sin(h+float64(i)) + 1) / 2
	}
	return vec
}

// Similarity returns the cosine similarity of a and b.
// It returns 0 when either vector has zero magnitude, including empty vectors.
// When lengths differ the dot product only covers the shared prefix.
func Similarity(a, b []float64) float64 {
	n := min(len(a), len(b))

	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}

	magA := magnitude(a)
	magB := magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (magA * magB)
}

func magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
