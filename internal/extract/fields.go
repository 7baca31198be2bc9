package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"jobparser/internal/patterns"
)

var titleDashTail = regexp.MustCompile(`\s*[-–—].*$`)

// firstLineTitle treats the first non-blank line as a title when it looks like one.
func firstLineTitle(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := utf8.RuneCountInString(line)
		if n <= 5 || n >= 80 || strings.Contains(line, "http") || strings.Contains(line, "@") {
			return "", false
		}
		title := strings.TrimSpace(titleDashTail.ReplaceAllString(line, ""))
		if !patterns.LengthBetween(3, 80)(title) {
			return "", false
		}
		return title, true
	}
	return "", false
}

// Title extracts the job title.
func (e *Engine) Title(text string) string {
	return resolve(text, patterns.DefaultTitle, e.lib.Title.First, firstLineTitle)
}

// Company extracts the hiring company's name.
func (e *Engine) Company(text string) string {
	return resolve(text, patterns.DefaultCompany, e.lib.Company.First)
}

// Location extracts where the job is based; workplace keywords resolve to
// "Remote" or "Hybrid" when no place is named.
func (e *Engine) Location(text string) string {
	return resolve(text, patterns.DefaultLocation, e.lib.Location.First, e.lib.LocationHints.First)
}

// Experience extracts the expected experience band.
func (e *Engine) Experience(text string) string {
	return resolve(text, patterns.DefaultExperience, e.lib.Experience.First)
}

// Education extracts the minimum education level.
func (e *Engine) Education(text string) string {
	return resolve(text, patterns.DefaultEducation, e.lib.Education.First)
}

// Category classifies the posting.
func (e *Engine) Category(text string) string {
	return resolve(text, patterns.DefaultCategory, e.lib.Categories.First)
}

// Priority reports the hiring urgency. Simultaneous keywords resolve by table order.
func (e *Engine) Priority(text string) string {
	return resolve(text, patterns.DefaultPriority, e.lib.Priorities.First)
}

// Client returns the end client the role is staffed for, or "" if none is named.
func (e *Engine) Client(text string) string {
	return resolve(text, "", e.lib.Client.First)
}

// Manager returns who the role reports to, or "" if nobody is named.
func (e *Engine) Manager(text string) string {
	return resolve(text, "", e.lib.Manager.First)
}

// JobTypes returns every employment type mentioned.
func (e *Engine) JobTypes(text string) []string {
	return listOrDefault(e.lib.JobTypes.All(text), patterns.DefaultJobTypes)
}

// WorkAuth returns every work authorization or sponsorship statement found.
func (e *Engine) WorkAuth(text string) []string {
	return listOrDefault(e.lib.WorkAuth.All(text), patterns.DefaultWorkAuth)
}

// Benefits returns the canonical label of every benefit mentioned. An empty
// result is legitimate.
func (e *Engine) Benefits(text string) []string {
	found := e.lib.Benefits.All(text)
	if found == nil {
		return []string{}
	}
	return found
}
