package mapping

// ForwardSkills returns the union of the forward skills of every item,
// deduplicated, in first-seen order. Unknown items contribute nothing.
func ForwardSkills(t Tables, items []string) []string {
	var set orderedSet
	for _, item := range items {
		skills, _ := t.Forward(item)
		set.addAll(skills)
	}
	return set.items
}

// BackwardSkills returns the union of the skills required by an industry and
// a subfield, deduplicated, industry skills first.
func BackwardSkills(t Tables, industry, subfield string) []string {
	var set orderedSet
	industrySkills, _ := t.Backward(industry)
	set.addAll(industrySkills)
	subfieldSkills, _ := t.Backward(subfield)
	set.addAll(subfieldSkills)
	return set.items
}

// UnknownForward returns the items that have no forward mapping.
func UnknownForward(t Tables, items []string) []string {
	var missing []string
	for _, item := range items {
		if _, ok := t.Forward(item); !ok {
			missing = append(missing, item)
		}
	}
	return missing
}

// UnknownBackward returns the labels that have no backward mapping.
func UnknownBackward(t Tables, labels ...string) []string {
	var missing []string
	for _, label := range labels {
		if _, ok := t.Backward(label); !ok {
			missing = append(missing, label)
		}
	}
	return missing
}

// orderedSet keeps insertion order and drops duplicates.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func (s *orderedSet) add(item string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[item] {
		return
	}
	s.seen[item] = true
	s.items = append(s.items, item)
}

func (s *orderedSet) addAll(items []string) {
	for _, item := range items {
		s.add(item)
	}
}
