// Package mapping holds the static skill mapping tables.
//
// FORWARD maps an interest or talent label to the design skills it implies.
// BACKWARD maps an industry or subfield label to the skills it requires.
// HYBRID weights are bonus points for system-design skills on hybrid paths.
// The tables are embedded configuration: loaded once, never mutated.
package mapping

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/jonathan/skilltree-advisor/internal/schemas"
	rootschemas "github.com/jonathan/skilltree-advisor/schemas"
)

//go:embed data/tables.json
var tablesJSON []byte

// Tables is a read-only lookup over the mapping tables.
// Keys are matched by exact, case-sensitive identity.
type Tables interface {
	// Forward returns the skills implied by an interest or talent label.
	Forward(label string) ([]string, bool)
	// Backward returns the skills required by an industry or subfield label.
	Backward(label string) ([]string, bool)
	// HybridWeight returns the bonus for a hybrid skill.
	HybridWeight(skill string) (int, bool)
}

// document is the on-disk shape of the tables.
type document struct {
	Forward       map[string][]string `json:"forward"`
	Backward      map[string][]string `json:"backward"`
	HybridWeights map[string]int      `json:"hybridWeights"`
}

// StaticTables is an immutable Tables implementation.
type StaticTables struct {
	forward       map[string][]string
	backward      map[string][]string
	hybridWeights map[string]int
}

var _ Tables = (*StaticTables)(nil)

// Load parses and schema-validates a tables document.
func Load(data []byte) (*StaticTables, error) {
	v, err := schemas.Embedded(rootschemas.MappingTables)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid mapping tables: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse mapping tables: %w", err)
	}

	return New(doc.Forward, doc.Backward, doc.HybridWeights), nil
}

// New builds tables from in-memory maps. The maps are copied.
func New(forward, backward map[string][]string, hybridWeights map[string]int) *StaticTables {
	t := &StaticTables{
		forward:       make(map[string][]string, len(forward)),
		backward:      make(map[string][]string, len(backward)),
		hybridWeights: make(map[string]int, len(hybridWeights)),
	}
	for k, v := range forward {
		t.forward[k] = slices.Clone(v)
	}
	for k, v := range backward {
		t.backward[k] = slices.Clone(v)
	}
	for k, v := range hybridWeights {
		t.hybridWeights[k] = v
	}
	return t
}

var loadDefault = sync.OnceValues(func() (*StaticTables, error) {
	return Load(tablesJSON)
})

// Default returns the embedded tables. The embedded document is validated in
// tests, so a failure here is a build defect and panics.
func Default() *StaticTables {
	t, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return t
}

// Forward implements Tables.
func (t *StaticTables) Forward(label string) ([]string, bool) {
	skills, ok := t.forward[label]
	return slices.Clone(skills), ok
}

// Backward implements Tables.
func (t *StaticTables) Backward(label string) ([]string, bool) {
	skills, ok := t.backward[label]
	return slices.Clone(skills), ok
}

// HybridWeight implements Tables.
func (t *StaticTables) HybridWeight(skill string) (int, bool) {
	w, ok := t.hybridWeights[skill]
	return w, ok
}

// ForwardLabels returns the sorted forward keys.
func (t *StaticTables) ForwardLabels() []string {
	return sortedKeys(t.forward)
}

// BackwardLabels returns the sorted backward keys.
func (t *StaticTables) BackwardLabels() []string {
	return sortedKeys(t.backward)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
