package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skilltree-advisor/internal/embedding"
	"github.com/jonathan/skilltree-advisor/internal/mapping"
	"github.com/jonathan/skilltree-advisor/internal/types"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Len(t, c.CareerPaths, 6)

	assert.Equal(t, []string{"Consumer Products", "Toy & Game Design"}, c.Industries())
	assert.Equal(t, []string{"Footwear Design", "Furniture Design"}, c.Subfields("Consumer Products"))
	assert.Equal(t, []string{"Toy Design"}, c.Subfields("Toy & Game Design"))

	hybrid := 0
	for _, p := range c.CareerPaths {
		assert.NotEmpty(t, p.ID)
		assert.Len(t, p.Skills, 3, p.Name)
		assert.True(t, p.HasActiveCoop(), p.Name)
		if p.IsHybrid {
			hybrid++
			assert.NotEmpty(t, p.HybridType)
			assert.NotEmpty(t, p.SystemBlurb)
		}
	}
	assert.Equal(t, 3, hybrid)
}

func TestDefault_LabelsAreMapped(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tables := mapping.Default()
	for _, p := range c.CareerPaths {
		assert.Empty(t, mapping.UnknownBackward(tables, p.Industry, p.Subfield), p.Name)
	}
}

func TestDefault_HybridSkillsAreWeighted(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tables := mapping.Default()
	for _, p := range c.CareerPaths {
		if !p.IsHybrid {
			continue
		}
		for _, s := range p.Skills {
			_, ok := tables.HybridWeight(s.Name)
			assert.True(t, ok, "%s: %s", p.Name, s.Name)
		}
	}
}

func TestDefault_Courses(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	var courses []types.Course
	for _, p := range c.CareerPaths {
		for _, s := range p.Skills {
			courses = append(courses, s.Courses...)
		}
	}
	require.Len(t, courses, 3)
	assert.Contains(t, courses, types.Course{Title: "ZBrush for Footwear", Provider: "Gnomon", DurationHours: 40})
}

func TestLoad_StableIDs(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)

	for i := range a.CareerPaths {
		assert.Equal(t, a.CareerPaths[i].ID, b.CareerPaths[i].ID)
		assert.Equal(t, a.CareerPaths[i].Skills[0].ID, b.CareerPaths[i].Skills[0].ID)
	}
	assert.NotEqual(t, a.CareerPaths[0].ID, a.CareerPaths[1].ID)
}

func TestLoad_KeepsExplicitIDs(t *testing.T) {
	doc := `{"careerPaths":[{"id":"p1","name":"N","industry":"I","subfield":"S","marketingBlurb":"","isHybrid":false,"skills":[{"id":"s1","name":"A"}]}]}`
	c, err := Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "p1", c.CareerPaths[0].ID)
	assert.Equal(t, "s1", c.CareerPaths[0].Skills[0].ID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing careerPaths": `{}`,
		"missing name":        `{"careerPaths":[{"industry":"I","subfield":"S","marketingBlurb":"","isHybrid":false,"skills":[]}]}`,
		"bad hybrid flag":     `{"careerPaths":[{"name":"N","industry":"I","subfield":"S","marketingBlurb":"","isHybrid":"yes","skills":[]}]}`,
		"not json":            `{`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, seedJSON, 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.CareerPaths, 6)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTestStudent(t *testing.T) {
	s := TestStudent()
	assert.Equal(t, "Test Student", s.Name)
	assert.Equal(t, 2, s.Year)
	assert.Equal(t, embedding.Embed("Talents: Drawing, Spatial Awareness | Interests: Footwear, Design"), s.Embedding)
	assert.Equal(t, s.ID, TestStudent().ID)
}

type recordingWriter struct {
	paths    []string
	students []string
	failOn   string
}

func (w *recordingWriter) SaveCareerPath(_ context.Context, p *types.CareerPath) error {
	if p.Name == w.failOn {
		return errors.New("boom")
	}
	w.paths = append(w.paths, p.Name)
	return nil
}

func (w *recordingWriter) SaveStudentProfile(_ context.Context, p *types.StudentProfile) error {
	w.students = append(w.students, p.ID)
	return nil
}

func TestSeed(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	w := &recordingWriter{}
	student, err := Seed(context.Background(), w, c)
	require.NoError(t, err)
	assert.Len(t, w.paths, 6)
	assert.Equal(t, []string{student.ID}, w.students)

	w = &recordingWriter{failOn: "Toy Concept Designer"}
	_, err = Seed(context.Background(), w, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Toy Concept Designer")
	assert.Empty(t, w.students)
}
