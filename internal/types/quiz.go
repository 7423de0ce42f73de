// Package types provides type definitions for structured data used throughout the skill tree advisor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// TalentInput is a talent as submitted by the quiz.
type TalentInput struct {
	Type          string     `json:"type,omitempty"`
	Name          string     `json:"name" validate:"required,min=1"`
	MeasuredScore int        `json:"measuredScore" validate:"min=0,max=100"`
	Confidence    Confidence `json:"confidence,omitempty" validate:"omitempty,oneof=Low Medium High"`
}

// InterestInput is an interest as submitted by the quiz.
type InterestInput struct {
	Topic          string     `json:"topic" validate:"required,min=1"`
	Strength       int        `json:"strength" validate:"min=1,max=5"`
	Confidence     Confidence `json:"confidence,omitempty" validate:"omitempty,oneof=Low Medium High"`
	MappedConcepts []string   `json:"mappedConcepts,omitempty" validate:"omitempty,dive,required"`
}

// QuizSubmission replaces a student's talents and interests.
type QuizSubmission struct {
	Talents    []TalentInput   `json:"talents" validate:"required,min=1,dive"`
	Interests  []InterestInput `json:"interests" validate:"required,min=1,dive"`
	HybridMode HybridMode      `json:"hybridMode,omitempty" validate:"omitempty,oneof=DIRECT_CREATOR AI_CURATOR SYSTEM_ARCHITECT DESIGN_EXECUTOR"`
}

// Validate validates the QuizSubmission using the validator.
func (q *QuizSubmission) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}

// ToTalents converts submitted talents into profile talents.
func (q *QuizSubmission) ToTalents() []Talent {
	talents := make([]Talent, 0, len(q.Talents))
	for _, t := range q.Talents {
		talents = append(talents, Talent{
			Type:          t.Type,
			Name:          t.Name,
			MeasuredScore: t.MeasuredScore,
			Confidence:    t.Confidence,
		})
	}
	return talents
}

// ToInterests converts submitted interests into profile interests.
func (q *QuizSubmission) ToInterests() []Interest {
	interests := make([]Interest, 0, len(q.Interests))
	for _, i := range q.Interests {
		interests = append(interests, Interest{
			Topic:          i.Topic,
			Strength:       i.Strength,
			Confidence:     i.Confidence,
			MappedConcepts: i.MappedConcepts,
		})
	}
	return interests
}

// SaveQuizResultRequest submits a quiz and keeps a named snapshot of the outcome.
type SaveQuizResultRequest struct {
	Name     string         `json:"name,omitempty" validate:"max=100"`
	QuizData QuizSubmission `json:"quizData" validate:"required"`
}

// Validate validates the SaveQuizResultRequest using the validator.
func (r *SaveQuizResultRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// QuizResult is a stored snapshot of a submission and the recommendations it produced.
type QuizResult struct {
	ID              string                     `json:"id"`
	StudentID       string                     `json:"studentId"`
	Name            string                     `json:"name,omitempty"`
	Talents         []TalentInput              `json:"talents"`
	Interests       []InterestInput            `json:"interests"`
	HybridMode      HybridMode                 `json:"hybridMode,omitempty"`
	Recommendations []CareerPathRecommendation `json:"recommendations"`
	CreatedAt       time.Time                  `json:"createdAt"`
}
