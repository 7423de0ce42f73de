// Package catalog provides the seed skill tree catalog and loads it into a store.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/skilltree-advisor/internal/embedding"
	"github.com/jonathan/skilltree-advisor/internal/schemas"
	"github.com/jonathan/skilltree-advisor/internal/types"
	rootschemas "github.com/jonathan/skilltree-advisor/schemas"
)

//go:embed data/seed.json
var seedJSON []byte

// namespace derives stable IDs for catalog rows that do not carry one, so
// reseeding updates records in place.
var namespace = uuid.MustParse("6f1c7f0e-3b0a-4d55-9a4e-2b8f3c1d9e77")

// TestStudentText is the profile text the seeded test student is embedded from.
const TestStudentText = "Talents: Drawing, Spatial Awareness | Interests: Footwear, Design"

// Catalog is the reference data the advisor scores against.
type Catalog struct {
	CareerPaths []types.CareerPath `json:"careerPaths"`
}

// Load parses and schema-validates a catalog document and fills in missing IDs.
func Load(data []byte) (*Catalog, error) {
	v, err := schemas.Embedded(rootschemas.Catalog)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.assignIDs()
	return &c, nil
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Load(data)
}

// Default returns the embedded seed catalog.
func Default() (*Catalog, error) {
	return Load(seedJSON)
}

func (c *Catalog) assignIDs() {
	for i := range c.CareerPaths {
		p := &c.CareerPaths[i]
		if p.ID == "" {
			p.ID = stableID("path", p.Industry, p.Subfield, p.Name)
		}
		for j := range p.Skills {
			s := &p.Skills[j]
			if s.ID == "" {
				s.ID = stableID("skill", p.ID, s.Name)
			}
		}
	}
}

func stableID(parts ...string) string {
	name := ""
	for _, p := range parts {
		name += p + "\x00"
	}
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// Industries returns the distinct industries in catalog order.
func (c *Catalog) Industries() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range c.CareerPaths {
		if !seen[p.Industry] {
			seen[p.Industry] = true
			out = append(out, p.Industry)
		}
	}
	return out
}

// Subfields returns the distinct subfields of an industry in catalog order.
func (c *Catalog) Subfields(industry string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range c.CareerPaths {
		if p.Industry == industry && !seen[p.Subfield] {
			seen[p.Subfield] = true
			out = append(out, p.Subfield)
		}
	}
	return out
}

// TestStudent returns the student seeded for local development.
func TestStudent() *types.StudentProfile {
	return &types.StudentProfile{
		ID:        stableID("student", "test@uc.edu"),
		Name:      "Test Student",
		Email:     "test@uc.edu",
		Year:      2,
		Embedding: embedding.Embed(TestStudentText),
	}
}

// Writer is the store surface needed to seed.
type Writer interface {
	SaveCareerPath(ctx context.Context, path *types.CareerPath) error
	SaveStudentProfile(ctx context.Context, profile *types.StudentProfile) error
}

// Seed writes every career path and the test student. It is idempotent.
func Seed(ctx context.Context, w Writer, c *Catalog) (*types.StudentProfile, error) {
	for i := range c.CareerPaths {
		if err := w.SaveCareerPath(ctx, &c.CareerPaths[i]); err != nil {
			return nil, fmt.Errorf("failed to seed %q: %w", c.CareerPaths[i].Name, err)
		}
	}

	student := TestStudent()
	if err := w.SaveStudentProfile(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to seed test student: %w", err)
	}
	return student, nil
}
