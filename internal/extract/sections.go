package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"jobparser/internal/patterns"
)

// Limits for responsibility and requirement items.
const (
	MaxItems       = 8
	MinItemLength  = 10
	MaxItemLength  = 200
	DescriptionCap = 500
)

var (
	sentenceBreak = regexp.MustCompile(`[.!]+(?:\s+|$)|\n+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

func isHeader(line string, sections []patterns.Section) bool {
	for _, s := range sections {
		if _, ok := s.MatchHeader(line); ok {
			return true
		}
	}
	return false
}

// Carve returns the body of the first section introduced by header, running
// up to the next line that matches any of stops. The boolean is false when
// the header never occurs.
func Carve(text string, header patterns.Section, stops []patterns.Section) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		inline, ok := header.MatchHeader(line)
		if !ok {
			continue
		}

		var body []string
		if inline != "" {
			body = append(body, inline)
		}
		for _, next := range lines[i+1:] {
			if isHeader(next, stops) {
				break
			}
			body = append(body, next)
		}
		return strings.TrimSpace(strings.Join(body, "\n")), true
	}
	return "", false
}

// splitItems turns a section body into list items, preferring bullets and
// falling back to sentences.
func splitItems(body string) []string {
	var bullets []string
	for _, line := range strings.Split(body, "\n") {
		if item, ok := patterns.BulletItem(line); ok {
			bullets = append(bullets, item)
		}
	}
	if len(bullets) > 0 {
		return keepItems(bullets)
	}
	return keepItems(sentenceBreak.Split(body, -1))
}

func keepItems(candidates []string) []string {
	items := []string{}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		n := utf8.RuneCountInString(c)
		if n < MinItemLength || n > MaxItemLength {
			continue
		}
		items = append(items, c)
		if len(items) == MaxItems {
			break
		}
	}
	return items
}

// scanLines collects lines (bullet markers removed) accepted by keep.
func scanLines(text string, keep func(string) bool) []string {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		item := strings.TrimSpace(line)
		if b, ok := patterns.BulletItem(line); ok {
			item = b
		}
		if item != "" && keep(item) {
			candidates = append(candidates, item)
		}
	}
	return keepItems(candidates)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimFunc(fields[0], func(r rune) bool { return !unicode.IsLetter(r) }))
}

// Responsibilities lists the duties of the role.
func (e *Engine) Responsibilities(text string) []string {
	if body, ok := Carve(text, e.lib.Responsibilities, e.lib.Headers()); ok {
		return splitItems(body)
	}
	return scanLines(text, func(item string) bool {
		return e.lib.ActionVerbs[firstWord(item)]
	})
}

// Requirements lists what candidates must bring.
func (e *Engine) Requirements(text string) []string {
	if body, ok := Carve(text, e.lib.Requirements, e.lib.Headers()); ok {
		return splitItems(body)
	}
	return scanLines(text, e.lib.RequirementHints.MatchString)
}

// Description returns the posting prose with responsibility and requirement
// sections cut out. Without any such section it falls back to a truncated
// copy of the input.
func (e *Engine) Description(text string) string {
	headers := e.lib.Headers()
	var kept []string
	removed, skipping := false, false

	for _, line := range strings.Split(text, "\n") {
		_, resp := e.lib.Responsibilities.MatchHeader(line)
		_, req := e.lib.Requirements.MatchHeader(line)
		switch {
		case resp || req:
			removed, skipping = true, true
			continue
		case skipping && isHeader(line, headers):
			skipping = false
		case skipping:
			continue
		}
		kept = append(kept, strings.TrimRightFunc(line, unicode.IsSpace))
	}

	cleaned := strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(kept, "\n"), "\n\n"))
	if !removed || cleaned == "" {
		return truncateRunes(strings.TrimSpace(text), DescriptionCap) + "..."
	}
	return cleaned
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
