package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_SumsCodeUnits(t *testing.T) {
	assert.Equal(t, 0.0, Hash(""))
	assert.Equal(t, 195.0, Hash("ab"))
	// U+1F600 is a surrogate pair: 0xD83D + 0xDE00.
	assert.Equal(t, float64(0xD83D+0xDE00), Hash("😀"))
}

func TestEmbed_Deterministic(t *testing.T) {
	texts := []string{"", "Footwear Concept Designer Footwear Design Consumer Products", "Talents:  | Interests: "}
	for _, text := range texts {
		first := Embed(text)
		second := Embed(text)
		require.Len(t, first, Dimensions)
		assert.Equal(t, first, second, "embedding must be identical for %q", text)
	}
}

func TestEmbed_KnownValues(t *testing.T) {
	vec := Embed("")
	assert.Equal(t, 0.5, vec[0])
	assert.InDelta(t, (math.Sin(1)+1)/2, vec[1], 1e-15)

	vec = Embed("ab")
	for _, i := range []int{0, 17, Dimensions - 1} {
		assert.InDelta(t, (math.Sin(195+float64(i))+1)/2, vec[i], 1e-15)
	}
}

func TestEmbed_ElementsInUnitRange(t *testing.T) {
	for _, v := range Embed("Generative Footwear System Architect") {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestEmbed_OrderInsensitiveHash(t *testing.T) {
	// The fingerprint only sees the code-unit sum, so anagrams collide.
	assert.Equal(t, Embed("listen"), Embed("silent"))
}

func TestSimilarity_ZeroVector(t *testing.T) {
	v := Embed("Drawing")
	zero := make([]float64, Dimensions)
	assert.Equal(t, 0.0, Similarity(v, zero))
	assert.Equal(t, 0.0, Similarity(zero, v))
	assert.Equal(t, 0.0, Similarity(v, nil))
	assert.Equal(t, 0.0, Similarity(nil, nil))
}

func TestSimilarity_Identical(t *testing.T) {
	v := Embed("Toy Concept Designer Toy Design Toy & Game Design")
	assert.InDelta(t, 1.0, Similarity(v, v), 1e-12)
}

func TestSimilarity_KnownValue(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{1, 1}
	assert.InDelta(t, 1/math.Sqrt2, Similarity(a, b), 1e-12)
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := Embed("Talents: Drawing, Drawing | Interests: Footwear, Footwear")
	b := Embed("Footwear Concept Designer Footwear Design Consumer Products")
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarity_NonNegativeForEmbeddings(t *testing.T) {
	// All elements are in [0, 1], so the dot product cannot be negative.
	a := Embed("Coding")
	b := Embed("Configurable Furniture System Architect Furniture Design Consumer Products")
	assert.GreaterOrEqual(t, Similarity(a, b), 0.0)
	assert.LessOrEqual(t, Similarity(a, b), 1.0+1e-12)
}
