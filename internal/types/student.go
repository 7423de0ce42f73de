// Package types provides type definitions for structured data used throughout the skill tree advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Confidence is a self-reported certainty attached to a talent or interest.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Weight returns how many times a profile item is repeated in the embedding text.
// An unset confidence counts as Medium.
func (c Confidence) Weight() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceLow:
		return 1
	default:
		return 2
	}
}

// HybridMode is one of the four creative/technical archetypes.
type HybridMode string

const (
	HybridModeNone            HybridMode = ""
	HybridModeDirectCreator   HybridMode = "DIRECT_CREATOR"
	HybridModeAICurator       HybridMode = "AI_CURATOR"
	HybridModeSystemArchitect HybridMode = "SYSTEM_ARCHITECT"
	HybridModeDesignExecutor  HybridMode = "DESIGN_EXECUTOR"
)

// HybridModes lists the archetypes in declaration order.
var HybridModes = []HybridMode{
	HybridModeDirectCreator,
	HybridModeAICurator,
	HybridModeSystemArchitect,
	HybridModeDesignExecutor,
}

// Valid reports whether m is one of the four archetypes.
func (m HybridMode) Valid() bool {
	for _, mode := range HybridModes {
		if m == mode {
			return true
		}
	}
	return false
}

// IsSet reports whether a mode has been chosen or inferred.
func (m HybridMode) IsSet() bool {
	return m != HybridModeNone
}

// Talent is a measured or self-reported ability.
type Talent struct {
	Type          string     `json:"type,omitempty"`
	Name          string     `json:"name"`
	MeasuredScore int        `json:"measuredScore"`
	Confidence    Confidence `json:"confidence,omitempty"`
}

// Interest is a self-reported topic of interest.
type Interest struct {
	Topic          string     `json:"topic"`
	Strength       int        `json:"strength"`
	Confidence     Confidence `json:"confidence,omitempty"`
	MappedConcepts []string   `json:"mappedConcepts,omitempty"`
}

// StudentProfile is everything the scorer needs to know about a student.
type StudentProfile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email,omitempty"`
	Year       int        `json:"year,omitempty"`
	Talents    []Talent   `json:"talents"`
	Interests  []Interest `json:"interests"`
	HybridMode HybridMode `json:"hybridMode,omitempty"`
	Embedding  []float64  `json:"embedding,omitempty"`
	// SkillProgress maps a skill ID to the student's proficiency (0-100).
	SkillProgress map[string]int `json:"skillProgress,omitempty"`
	CreatedAt     time.Time      `json:"createdAt,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt,omitempty"`
}

// TalentNames returns talent names in submission order.
func (p *StudentProfile) TalentNames() []string {
	names := make([]string, 0, len(p.Talents))
	for _, t := range p.Talents {
		names = append(names, t.Name)
	}
	return names
}

// InterestTopics returns interest topics in submission order.
func (p *StudentProfile) InterestTopics() []string {
	topics := make([]string, 0, len(p.Interests))
	for _, i := range p.Interests {
		topics = append(topics, i.Topic)
	}
	return topics
}

// Progress returns the recorded proficiency for a skill, or 0.
func (p *StudentProfile) Progress(skillID string) int {
	if p.SkillProgress == nil {
		return 0
	}
	return p.SkillProgress[skillID]
}
