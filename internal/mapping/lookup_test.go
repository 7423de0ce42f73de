package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTables() *StaticTables {
	return New(
		map[string][]string{
			"Drawing":  {"Sketching", "Rendering"},
			"Footwear": {"Footwear Design", "Sketching", "Biomechanics"},
		},
		map[string][]string{
			"Consumer Products": {"Sketching", "3D Modeling"},
			"Footwear Design":   {"3D Modeling", "Footwear Design"},
		},
		map[string]int{"System Design": 35},
	)
}

func TestForwardSkills_UnionDeduplicated(t *testing.T) {
	got := ForwardSkills(testTables(), []string{"Drawing", "Footwear"})
	assert.Equal(t, []string{"Sketching", "Rendering", "Footwear Design", "Biomechanics"}, got)
}

func TestForwardSkills_OrderIndependentAsSet(t *testing.T) {
	a := ForwardSkills(testTables(), []string{"Drawing", "Footwear"})
	b := ForwardSkills(testTables(), []string{"Footwear", "Drawing"})
	assert.ElementsMatch(t, a, b)
}

func TestForwardSkills_UnknownKeysContributeNothing(t *testing.T) {
	assert.Empty(t, ForwardSkills(testTables(), []string{"Underwater Basket Weaving"}))
	assert.Empty(t, ForwardSkills(testTables(), nil))
	assert.Equal(t, []string{"Sketching", "Rendering"}, ForwardSkills(testTables(), []string{"nope", "Drawing"}))
}

func TestBackwardSkills_IndustryThenSubfield(t *testing.T) {
	got := BackwardSkills(testTables(), "Consumer Products", "Footwear Design")
	assert.Equal(t, []string{"Sketching", "3D Modeling", "Footwear Design"}, got)
}

func TestBackwardSkills_Unknown(t *testing.T) {
	assert.Empty(t, BackwardSkills(testTables(), "Aerospace", "Rocketry"))
	assert.Equal(t, []string{"3D Modeling", "Footwear Design"}, BackwardSkills(testTables(), "Aerospace", "Footwear Design"))
}

func TestBackwardSkills_EmbeddedFootwear(t *testing.T) {
	got := BackwardSkills(Default(), "Consumer Products", "Footwear Design")
	assert.Equal(t, "Sketching", got[0])
	assert.Contains(t, got, "Last Design")
	assert.Contains(t, got, "Fit & Comfort")
}

func TestUnknownLabels(t *testing.T) {
	tables := testTables()
	assert.Equal(t, []string{"Sci-Fi"}, UnknownForward(tables, []string{"Drawing", "Sci-Fi"}))
	assert.Equal(t, []string{"Toy Design"}, UnknownBackward(tables, "Consumer Products", "Toy Design"))
	assert.Nil(t, UnknownBackward(tables, "Consumer Products"))
}
