package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/skilltree-advisor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintStudentProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.StudentProfile{
		ID:   "student-1",
		Name: "Test Student",
		Talents: []types.Talent{
			{Name: "Logical Reasoning", MeasuredScore: 85},
		},
		Interests: []types.Interest{
			{Topic: "Artificial Intelligence", Strength: 5},
		},
		HybridMode: types.HybridModeAICurator,
	}

	p.PrintStudentProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "STUDENT PROFILE")
	assert.Contains(t, output, "student-1")
	assert.Contains(t, output, "Logical Reasoning (85)")
	assert.Contains(t, output, "Artificial Intelligence (5/5)")
	assert.Contains(t, output, "AI_CURATOR")
}

func TestPrintStudentProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStudentProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := []types.CareerPathRecommendation{
		{
			SkillTree:            "Machine Learning Engineer",
			Industry:             "Technology",
			Subfield:             "AI/ML",
			MatchScore:           92,
			Reasoning:            "Strong alignment with your interests.",
			StudentMatchedSkills: []string{"Python", "Statistics", "Linear Algebra", "Ethics"},
			CoopAvailable:        true,
			IsHybrid:             true,
		},
		{SkillTree: "Data Analyst", Industry: "Technology", Subfield: "Data", MatchScore: 60},
	}

	p.PrintRecommendations(recs)
	output := buf.String()

	assert.Contains(t, output, "RECOMMENDED CAREER PATHS")
	assert.Contains(t, output, "Career paths ranked: 2")
	assert.Contains(t, output, "#1  Machine Learning Engineer")
	assert.Contains(t, output, "Score: 92% [hybrid] [co-op]")
	assert.Contains(t, output, "Python, Statistics, Linear Algebra (+1 more)")
	assert.Contains(t, output, "#2  Data Analyst")
}

func TestPrintRecommendations_Truncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := make([]types.CareerPathRecommendation, 8)
	for i := range recs {
		recs[i] = types.CareerPathRecommendation{SkillTree: "Path", MatchScore: 50}
	}

	p.PrintRecommendations(recs)

	assert.Contains(t, buf.String(), "... and 3 more")
	assert.NotContains(t, buf.String(), "#6")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCareerPath(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	path := &types.CareerPath{
		Name:       "Creative Technologist",
		Industry:   "Media",
		Subfield:   "Interactive",
		IsHybrid:   true,
		HybridType: "DIRECT_CREATOR",
		Skills: []types.Skill{
			{Name: "Creative Coding", Courses: []types.Course{{Title: "p5.js"}, {Title: "Processing"}}},
			{Name: "Storytelling"},
		},
		SpecializedTraining: []types.SpecializedTraining{{Title: "Studio Residency"}},
		CoopOpportunities: []types.CoopOpportunity{
			{Company: "A", Active: true},
			{Company: "B", Active: false},
		},
	}

	p.PrintCareerPath(path)
	output := buf.String()

	assert.Contains(t, output, "CREATIVE TECHNOLOGIST")
	assert.Contains(t, output, "Creative Coding (2 courses)")
	assert.Contains(t, output, "Storytelling")
	assert.Contains(t, output, "Studio Residency")
	assert.Contains(t, output, "Co-ops open: 1")
}

func TestPrintQuizResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []types.QuizResult{
		{
			Name:      "Spring attempt",
			CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			Recommendations: []types.CareerPathRecommendation{
				{SkillTree: "UX Designer", MatchScore: 77},
			},
		},
		{CreatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)},
	}

	p.PrintQuizResults(results)
	output := buf.String()

	assert.Contains(t, output, "SAVED QUIZ RESULTS (2)")
	assert.Contains(t, output, "2026-03-01 09:30  Spring attempt")
	assert.Contains(t, output, "top: UX Designer 77%")
	assert.Contains(t, output, "(unnamed)")
	assert.Contains(t, output, "top: -")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations([]types.CareerPathRecommendation{{
		SkillTree: "A Very Long Career Path Name That Should Be Truncated To Fit The Box",
		Reasoning: "Ünïcödé reasoning that keeps going well past the width of a single box line",
	}})
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
