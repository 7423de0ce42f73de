package schemas

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rootschemas "github.com/jonathan/skilltree-advisor/schemas"
)

const testSchema = `{
  "type": "object",
  "required": ["name", "score"],
  "properties": {
    "name": {"type": "string"},
    "score": {"type": "integer", "minimum": 0, "maximum": 100}
  }
}`

func compileTest(t *testing.T) *Validator {
	t.Helper()
	v, err := Compile("test", []byte(testSchema))
	require.NoError(t, err)
	return v
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, compileTest(t).Validate([]byte(`{"name": "Drawing", "score": 80}`)))
}

func TestValidate_Violations(t *testing.T) {
	v := compileTest(t)

	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{name: "missing field", doc: `{"name": "Drawing"}`, wantField: "(root)"},
		{name: "out of range", doc: `{"name": "Drawing", "score": 101}`, wantField: "score"},
		{name: "wrong type", doc: `{"name": 7, "score": 1}`, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate([]byte(tt.doc))
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.wantField, ve.Errors[0].Field)
			assert.Equal(t, "test", ve.Schema)
			assert.Contains(t, err.Error(), "schema violation")
		})
	}
}

func TestValidate_NotJSON(t *testing.T) {
	err := compileTest(t).Validate([]byte(`talents: []`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotJSON)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", []byte(`{"type": 12}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken", loadErr.Schema)
}

func TestValidateFile(t *testing.T) {
	v := compileTest(t)
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Coding", "score": 55}`), 0o600))

	data, err := v.ValidateFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Coding")

	_, err = v.ValidateFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEmbedded(t *testing.T) {
	for _, name := range []string{rootschemas.MappingTables, rootschemas.Catalog, rootschemas.QuizSubmission} {
		t.Run(name, func(t *testing.T) {
			v, err := Embedded(name)
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}

	quiz, err := Embedded(rootschemas.QuizSubmission)
	require.NoError(t, err)
	assert.NoError(t, quiz.Validate([]byte(`{"talents":[{"name":"Drawing","measuredScore":80}],"interests":[{"topic":"Footwear","strength":3}]}`)))
	assert.Error(t, quiz.Validate([]byte(`{"talents":[],"interests":[]}`)))
}

func TestEmbedded_Unknown(t *testing.T) {
	_, err := Embedded("nope.schema.json")
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestEmbedded_CompilesOnce(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Validator, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = Embedded(rootschemas.Catalog)
		}(i)
	}
	wg.Wait()

	for _, v := range got {
		assert.Same(t, got[0], v)
	}
}
