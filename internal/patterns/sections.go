package patterns

import (
	"regexp"
	"strings"
)

// Section recognizes the header line of a named block of a posting.
type Section struct {
	Name   string
	Header *regexp.Regexp
}

// MatchHeader reports whether line is a header for this section. Inline
// content after the header ("Benefits: Health insurance") is returned too.
func (s Section) MatchHeader(line string) (string, bool) {
	m := s.Header.FindStringSubmatch(HeaderText(line))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// HeaderText strips markdown decoration from a line before header matching.
func HeaderText(line string) string {
	return strings.Trim(line, " \t\r*#_")
}

var headerQualifiers = `(?:(?:key|main|primary|core|your|the|job|minimum|basic|required|preferred|additional|desired|technical)\s+)?`

func section(name string, synonyms ...string) Section {
	expr := `(?i)^` + headerQualifiers + `(?:` + strings.Join(synonyms, "|") + `)\s*(?:\([^)]*\))?\s*(?:[:\-–—]\s*(.*))?$`
	return Section{Name: name, Header: re(expr)}
}

func responsibilitiesSection() Section {
	return section("responsibilities",
		`responsibilities`, `duties`, `what\s+you(?:'ll|\s+will)\s+do`, `day[\s-]to[\s-]day`,
		`in\s+this\s+role,?\s+you\s+will`, `the\s+role`, `your\s+impact`)
}

func requirementsSection() Section {
	return section("requirements",
		`requirements`, `qualifications`, `what\s+you(?:'ll|\s+will)\s+(?:need|bring)`,
		`what\s+we(?:'re|\s+are)\s+looking\s+for`, `who\s+you\s+are`, `must[\s-]haves?`,
		`skills(?:\s+(?:&|and)\s+(?:experience|qualifications))?`)
}

// otherSections only bound the carved sections; nothing is extracted from them.
func otherSections() []Section {
	return []Section{
		section("benefits", `benefits`, `perks(?:\s+(?:&|and)\s+benefits)?`, `what\s+we\s+offer`, `why\s+join\s+us`),
		section("compensation", `compensation`, `salary(?:\s+range)?`, `pay(?:\s+range)?`),
		section("about", `about(?:\s+us|\s+the\s+(?:company|team|role))?`, `who\s+we\s+are`, `overview`, `summary`),
		section("description", `description`),
		section("apply", `how\s+to\s+apply`),
		section("nice-to-have", `nice[\s-]to[\s-]haves?`, `bonus\s+points`),
		section("details", `location`, `company`, `type`, `employment\s+type`, `experience`, `education`, `tech\s+stack`),
	}
}

var bulletLine = re(`^\s*(?:[•◦▪‣∙·*\-–]|\d{1,2}[.)])\s+(.*\S)\s*$`)

// BulletItem returns the text of a bulleted or numbered line.
func BulletItem(line string) (string, bool) {
	m := bulletLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var requirementHints = re(`(?i)\b(?:degree|bachelor'?s?|master'?s?|ph\.?d|diploma|certification|certified|\d+\+?\s*(?:years?|yrs?)|experience\s+(?:with|in)|proficien(?:t|cy)|knowledge\s+of|familiarity\s+with)\b`)

func actionVerbs() map[string]bool {
	verbs := []string{
		"analyze", "analyse", "architect", "assist", "automate", "build", "champion", "coach",
		"collaborate", "communicate", "conduct", "configure", "contribute", "coordinate", "create",
		"debug", "define", "deliver", "deploy", "design", "develop", "document", "drive",
		"enhance", "ensure", "establish", "evaluate", "execute", "facilitate", "gather", "guide",
		"handle", "identify", "implement", "improve", "integrate", "investigate", "liaise",
		"maintain", "manage", "mentor", "migrate", "monitor", "negotiate", "optimize", "optimise",
		"orchestrate", "oversee", "own", "participate", "partner", "perform", "prepare", "present",
		"prioritize", "provide", "recruit", "refactor", "research", "resolve", "respond", "review",
		"scale", "shape", "ship", "streamline", "supervise", "track", "train", "translate",
		"troubleshoot", "write",
	}
	set := make(map[string]bool, len(verbs))
	for _, v := range verbs {
		set[v] = true
	}
	return set
}
