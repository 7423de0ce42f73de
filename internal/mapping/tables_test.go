package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedTables(t *testing.T) {
	tables, err := Load(tablesJSON)
	require.NoError(t, err)

	assert.Len(t, tables.ForwardLabels(), 69)
	assert.Len(t, tables.BackwardLabels(), 22)
	assert.NotPanics(t, func() { Default() })
}

func TestDefault_LaterDefinitionsWin(t *testing.T) {
	tables := Default()

	drawing, ok := tables.Forward("Drawing")
	require.True(t, ok)
	assert.Equal(t, []string{"Sketching", "Rendering", "Concept Art", "Illustration", "Visual Communication"}, drawing)

	prototyping, ok := tables.Forward("Prototyping")
	require.True(t, ok)
	assert.Equal(t, []string{"Rapid Prototyping", "Model Making", "Testing", "Iteration"}, prototyping)
}

func TestForward_CaseSensitive(t *testing.T) {
	tables := Default()

	_, ok := tables.Forward("Footwear")
	assert.True(t, ok)
	_, ok = tables.Forward("footwear")
	assert.False(t, ok)
}

func TestForward_ReturnsCopy(t *testing.T) {
	tables := Default()

	skills, _ := tables.Forward("Footwear")
	skills[0] = "mutated"

	again, _ := tables.Forward("Footwear")
	assert.Equal(t, "Last Design", again[0])
}

func TestHybridWeight(t *testing.T) {
	tables := Default()

	w, ok := tables.HybridWeight("AI Variant Generation")
	assert.True(t, ok)
	assert.Equal(t, 40, w)

	w, ok = tables.HybridWeight("Hand Sketching")
	assert.False(t, ok)
	assert.Equal(t, 0, w)
}

func TestLoad_RejectsInvalidDocument(t *testing.T) {
	_, err := Load([]byte(`{"forward": {"Art": "Aesthetic Design"}, "backward": {}, "hybridWeights": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mapping tables")

	_, err = Load([]byte(`{"forward": {}, "backward": {}, "hybridWeights": {"System Design": -5}}`))
	assert.Error(t, err)

	_, err = Load([]byte(`{"forward": {}, "backward": {}}`))
	assert.Error(t, err)
}

func TestNew_CopiesInput(t *testing.T) {
	forward := map[string][]string{"Art": {"Aesthetic Design"}}
	tables := New(forward, nil, nil)
	forward["Art"][0] = "changed"

	skills, ok := tables.Forward("Art")
	require.True(t, ok)
	assert.Equal(t, []string{"Aesthetic Design"}, skills)
}
