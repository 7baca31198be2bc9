package patterns

import (
	"regexp"
	"strings"
)

// Skill is a dictionary entry with its two compiled matchers.
type Skill struct {
	Name     string
	Category string

	// Strict is used on the whole document: word boundaries on both sides,
	// except for names carrying '.', '#' or '+' which match as plain substrings.
	Strict *regexp.Regexp
	// Loose is used inside skill-bearing sections: only letters may not touch
	// the name, so "Python3" or "AWS/GCP" still count.
	Loose *regexp.Regexp
}

// NewSkill compiles the matchers for one dictionary entry.
func NewSkill(name, category string) Skill {
	quoted := regexp.QuoteMeta(name)
	strict := `(?i)\b` + quoted + `\b`
	if strings.ContainsAny(name, ".#+") {
		strict = `(?i)` + quoted
	}
	return Skill{
		Name:     name,
		Category: category,
		Strict:   regexp.MustCompile(strict),
		Loose:    regexp.MustCompile(`(?i)(?:^|[^a-z])` + quoted + `(?:[^a-z]|$)`),
	}
}

var skillDictionary = []struct {
	category string
	names    []string
}{
	{"languages", []string{"JavaScript", "Python", "Java", "TypeScript", "PHP", "C#", "C++", "Ruby", "Go", "Rust", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl", "Objective-C"}},
	{"frontend", []string{"React", "Angular", "Vue.js", "HTML", "CSS", "SCSS", "SASS", "Bootstrap", "Tailwind CSS", "jQuery", "Webpack", "Vite"}},
	{"backend", []string{"Node.js", "Express.js", "Django", "Flask", "Spring", "Laravel", "Rails", "ASP.NET", "FastAPI", "NestJS"}},
	{"mobile", []string{"React Native", "Flutter", "iOS", "Android", "Xamarin", "Ionic"}},
	{"databases", []string{"SQL", "MongoDB", "PostgreSQL", "MySQL", "Redis", "Elasticsearch", "Cassandra", "DynamoDB", "Oracle", "SQLite"}},
	{"cloud", []string{"AWS", "Azure", "Google Cloud", "GCP", "Docker", "Kubernetes", "Jenkins", "CI/CD", "Terraform", "Ansible", "Chef", "Puppet"}},
	{"tooling", []string{"Git", "GitHub", "GitLab", "Jira", "Confluence", "Slack", "REST API", "GraphQL", "Microservices", "Agile", "Scrum", "TDD", "BDD"}},
	{"data", []string{"Machine Learning", "AI", "Data Science", "Pandas", "NumPy", "TensorFlow", "PyTorch", "Tableau", "Power BI"}},
	{"business", []string{"Project Management", "Leadership", "Communication", "Problem Solving", "Team Management", "Analytical Thinking"}},
}

func defaultSkills() []Skill {
	var skills []Skill
	for _, group := range skillDictionary {
		for _, name := range group.names {
			skills = append(skills, NewSkill(name, group.category))
		}
	}
	return skills
}

// skill-bearing sections run from a header word to the next blank line
var skillSections = re(`(?is)\b(?:requirements?|qualifications?|skills?|technologies|tools?)\b[:\s]*(.*?)(?:\n[ \t]*\n|$)`)

func benefitLabels() Labels {
	return Labels{
		{Pattern: re(`(?i)\bhealth\s*insurance\b|\bmedical\s*insurance\b|\bhealthcare\b`), Label: "Health insurance"},
		{Pattern: re(`(?i)\bdental\s*(?:insurance|care)\b`), Label: "Dental insurance"},
		{Pattern: re(`(?i)\bvision\s*insurance\b|\beye\s*care\b`), Label: "Vision insurance"},
		{Pattern: re(`(?i)\b401\s*\(?k\)?|\bretirement\s*plan|\bpension\b`), Label: "401(k)"},
		{Pattern: re(`(?i)\bpaid\s*time\s*off\b|\bpto\b|\bvacation\s*days?\b|\bannual\s*leave\b`), Label: "Paid time off"},
		{Pattern: re(`(?i)\bflexible\s*(?:hours|schedule)\b|\bflex\s*time\b`), Label: "Flexible hours"},
		{Pattern: re(`(?i)\bremote\s*work\b|\bwork\s*from\s*home\b|\bwfh\b`), Label: "Remote work"},
		{Pattern: re(`(?i)\bstock\s*options?\b|\bequity\b|\bshares\b`), Label: "Stock options"},
		{Pattern: re(`(?i)\bbonus(?:es)?\b`), Label: "Performance bonus"},
		{Pattern: re(`(?i)\btraining\b|\blearning\b|\beducation\b|\bcourses\b`), Label: "Professional development"},
		{Pattern: re(`(?i)\bgym\b|\bfitness\b|\bwellness\b`), Label: "Wellness programs"},
		{Pattern: re(`(?i)\bmaternity\b|\bpaternity\b|\bparental\s*leave\b`), Label: "Parental leave"},
		{Pattern: re(`(?i)\blife\s*insurance\b`), Label: "Life insurance"},
		{Pattern: re(`(?i)\bdisability\s*insurance\b`), Label: "Disability insurance"},
		{Pattern: re(`(?i)\bcommuter\b|\btransport(?:ation)?\b|\btravel\s*allowance\b`), Label: "Commuter benefits"},
		{Pattern: re(`(?i)\blunch(?:es)?\b|\bmeals?\b|\bfood\s*allowance\b`), Label: "Meal benefits"},
	}
}
