// Package matching reconciles a student's derived skills against the skills a
// career path requires.
package matching

import (
	"regexp"
	"strings"
)

// Result is the outcome of an overlap computation.
type Result struct {
	// Overlap holds the matched required skills in their original case and order.
	Overlap []string `json:"overlap"`
	// Ratio is len(Overlap) / len(required), or 0 when nothing is required.
	Ratio float64 `json:"overlapRatio"`
}

// Overlap matches every required skill against the student's skills.
//
// Both lists are compared lower-cased and trimmed. A required skill matches
// when some student skill is equal to it, contains it as a whole word or
// phrase, or is itself a whole word or phrase inside it. "car" matches
// "Car Design" but never "career".
func Overlap(studentSkills, requiredSkills []string) Result {
	if len(requiredSkills) == 0 {
		return Result{}
	}

	students := make([]term, 0, len(studentSkills))
	for _, s := range studentSkills {
		if t, ok := newTerm(s); ok {
			students = append(students, t)
		}
	}

	// First original spelling of each normalized required skill.
	originals := make(map[string]string, len(requiredSkills))
	for _, r := range requiredSkills {
		n := normalize(r)
		if _, ok := originals[n]; !ok {
			originals[n] = r
		}
	}

	overlap := make([]string, 0)
	recorded := make(map[string]bool)
	for _, r := range requiredSkills {
		req, ok := newTerm(r)
		if !ok || recorded[req.text] {
			continue
		}
		if matchesAny(req, students) {
			recorded[req.text] = true
			overlap = append(overlap, originals[req.text])
		}
	}

	return Result{
		Overlap: overlap,
		Ratio:   float64(len(overlap)) / float64(len(requiredSkills)),
	}
}

func matchesAny(req term, students []term) bool {
	for _, s := range students {
		if s.text == req.text {
			return true
		}
		if req.pattern.MatchString(s.text) {
			return true
		}
		if s.pattern.MatchString(req.text) {
			return true
		}
	}
	return false
}

// term is a normalized skill and the pattern that finds it as a whole word.
type term struct {
	text    string
	pattern *regexp.Regexp
}

func newTerm(skill string) (term, bool) {
	text := normalize(skill)
	if text == "" {
		return term{}, false
	}
	return term{text: text, pattern: wordPattern(text)}, true
}

func normalize(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// wordPattern matches text when it is delimited by non-alphanumerics or the
// string edges. Letters and digits count as word characters, so "3d" and
// "fit & comfort" behave as whole units.
func wordPattern(text string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(text) + `(?:$|[^\p{L}\p{N}])`)
}

// ContainsWord reports whether needle appears in haystack as a whole word or
// phrase, ignoring case and surrounding whitespace.
func ContainsWord(haystack, needle string) bool {
	n, ok := newTerm(needle)
	if !ok {
		return false
	}
	return n.pattern.MatchString(normalize(haystack))
}
