package embedding

import (
	"strings"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// ProfileText builds the text a student's embedding is derived from.
//
// Each talent name is repeated by its confidence weight (High=3, Medium=2,
// Low=1, unset=Medium). Each interest contributes its topic followed by its
// mapped concepts, repeated the same way.
func ProfileText(talents []types.Talent, interests []types.Interest) string {
	talentTexts := make([]string, 0, len(talents)*2)
	for _, t := range talents {
		for range t.Confidence.Weight() {
			talentTexts = append(talentTexts, t.Name)
		}
	}

	interestTexts := make([]string, 0, len(interests)*2)
	for _, i := range interests {
		parts := append([]string{i.Topic}, i.MappedConcepts...)
		text := strings.Join(parts, " ")
		for range i.Confidence.Weight() {
			interestTexts = append(interestTexts, text)
		}
	}

	return "Talents: " + strings.Join(talentTexts, ", ") + " | Interests: " + strings.Join(interestTexts, ", ")
}

// ForProfile regenerates the embedding for a set of talents and interests.
func ForProfile(talents []types.Talent, interests []types.Interest) []float64 {
	return Embed(ProfileText(talents, interests))
}

// PathText is the text a career path is embedded from: name, subfield and industry.
func PathText(path *types.CareerPath) string {
	return path.Name + " " + path.Subfield + " " + path.Industry
}
