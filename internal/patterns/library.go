// Package patterns holds the ordered match rules and dictionaries that drive
// job description extraction.
//
// A Library is read-only once built. Extensions go through With, which
// returns a new Library and leaves the receiver untouched, so a Library can be
// shared by any number of concurrent extractions.
package patterns

import (
	"maps"
	"regexp"
	"slices"
)

// BuiltinVersion identifies the compiled-in rule set.
const BuiltinVersion = "builtin"

// Library is the complete rule set for every extracted field.
type Library struct {
	Version string

	Title      Rules
	Company    Rules
	Location   Rules
	Experience Rules
	Client     Rules
	Manager    Rules

	LocationHints Labels
	JobTypes      Labels
	Education     Labels
	Categories    Labels
	Priorities    Labels
	WorkAuth      Labels
	Benefits      Labels
	Currencies    Labels

	Skills        []Skill
	SkillSections *regexp.Regexp

	SalaryRanges  []SalaryRule
	SalarySingles []SalaryRule

	Responsibilities Section
	Requirements     Section
	OtherSections    []Section
	ActionVerbs      map[string]bool
	RequirementHints *regexp.Regexp
}

// Default builds the built-in library. Callers should build it once and pass
// it around; compiling every pattern is not free.
func Default() *Library {
	return &Library{
		Version: BuiltinVersion,

		Title:      titleRules(),
		Company:    companyRules(),
		Location:   locationRules(),
		Experience: experienceRules(),
		Client:     clientRules(),
		Manager:    managerRules(),

		LocationHints: locationHints(),
		JobTypes:      jobTypeLabels(),
		Education:     educationLabels(),
		Categories:    categoryLabels(),
		Priorities:    priorityLabels(),
		WorkAuth:      workAuthLabels(),
		Benefits:      benefitLabels(),
		Currencies:    currencyHints(),

		Skills:        defaultSkills(),
		SkillSections: skillSections,

		SalaryRanges:  salaryRanges(),
		SalarySingles: salarySingles(),

		Responsibilities: responsibilitiesSection(),
		Requirements:     requirementsSection(),
		OtherSections:    otherSections(),
		ActionVerbs:      actionVerbs(),
		RequirementHints: requirementHints,
	}
}

// Headers returns every known section, carved ones first.
func (l *Library) Headers() []Section {
	out := make([]Section, 0, len(l.OtherSections)+2)
	out = append(out, l.Responsibilities, l.Requirements)
	return append(out, l.OtherSections...)
}

// clone copies the library with fresh backing arrays for everything an
// overlay can extend.
func (l *Library) clone() *Library {
	c := *l
	c.Skills = slices.Clone(l.Skills)
	c.Benefits = slices.Clone(l.Benefits)
	c.ActionVerbs = maps.Clone(l.ActionVerbs)
	return &c
}
