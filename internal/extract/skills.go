package extract

import "jobparser/internal/patterns"

// MaxSkills caps the skills list.
const MaxSkills = 10

// Skills returns dictionary skills in discovery order: first a strict scan of
// the whole text, then a looser scan of requirement-like sections for anything
// the first pass missed.
func (e *Engine) Skills(text string) []string {
	var found []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}

	for _, s := range e.lib.Skills {
		if s.Strict.MatchString(text) {
			add(s.Name)
		}
	}

	for _, section := range e.lib.SkillSections.FindAllStringSubmatch(text, -1) {
		for _, s := range e.lib.Skills {
			if !seen[s.Name] && s.Loose.MatchString(section[1]) {
				add(s.Name)
			}
		}
	}

	if len(found) > MaxSkills {
		found = found[:MaxSkills]
	}
	return listOrDefault(found, patterns.DefaultSkills)
}
