package patterns

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fixed vocabularies and fallback values.
const (
	DefaultTitle      = "Software Developer"
	DefaultCompany    = "Company Confidential"
	DefaultLocation   = "Remote"
	DefaultExperience = "2-5 years"
	DefaultEducation  = "Bachelor's degree"
	DefaultCategory   = "Information Technology"
	DefaultPriority   = "Medium"
	NoSponsorship     = "No Sponsorship Required"
)

var (
	DefaultJobTypes = []string{"Full-time"}
	DefaultSkills   = []string{"JavaScript", "React", "Node.js"}
	DefaultWorkAuth = []string{NoSponsorship}
)

func re(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }

const line = `([^\n\r]+)`

func titleRules() Rules {
	ok := LengthBetween(3, 80)
	rule := func(name, expr string) Rule {
		return Rule{Name: name, Pattern: re(expr), Normalize: StripDashes, Valid: ok}
	}
	// an optional article is skipped so "for a Backend Engineer" yields the role itself
	intro := `[:\s]+(?:an?\s+)?([^\n\r.,!]+)`
	return Rules{
		rule("flagged-first-line", `(?i)^\s*([^\n\r]+?)\s*[-–—]\s*(?:URGENT|HIGH|PRIORITY|HIRING)\b`),
		rule("job-title-label", `(?i)\bjob\s+title[:\s-]+`+line),
		rule("position-label", `(?i)\bposition[:\s-]+`+line),
		rule("role-label", `(?i)\brole[:\s-]+`+line),
		rule("looking-for", `(?i)\bwe\s+are\s+looking\s+for`+intro),
		rule("hiring", `(?i)\bhiring(?:\s+for)?`+intro),
		rule("join-us-as", `(?i)\bjoin\s+us\s+as`+intro),
		rule("seeking", `(?i)\bseeking`+intro),
		rule("opening-for", `(?i)\bopening\s+for`+intro),
		rule("vacancy-for", `(?i)\bvacancy\s+for`+intro),
	}
}

var companyStopList = []string{"the team", "our team", "us", "we", "this role", "this position"}

func companyRules() Rules {
	ok := AllOf(LengthBetween(2, 50), NotIn(companyStopList...))
	rule := func(name, expr string) Rule {
		return Rule{Name: name, Pattern: re(expr), Normalize: CutAtDash, Valid: ok}
	}
	name := `([A-Z][a-zA-Z \t&.\-]+)`
	return Rules{
		rule("company-label", `(?i)\bcompany(?:\s+name)?[:\s-]+`+line),
		rule("organization-label", `(?i)\borgani[sz]ation[:\s-]+`+line),
		rule("employer-label", `(?i)\bemployer[:\s-]+`+line),
		rule("at-name", `(?m)\bat\s+`+name+`(?:[ \t,.!]|$)`),
		rule("join-name", `(?im)\bjoin\s+`+name+`(?:[ \t,.!]|$)`),
		rule("work-at", `(?im)\bwork\s+(?:at|for|with)\s+`+name+`(?:[ \t,.!]|$)`),
		rule("is-hiring", `(?im)`+name+`\s+is\s+(?:looking|seeking|hiring)`),
		rule("about-name", `(?i)\babout\s+`+name+`[:\n]`),
	}
}

// workplace keywords resolve to a canonical label instead of the raw match
func workplaceLabel(groups []string) (string, bool) {
	switch strings.ToLower(groups[1]) {
	case "remote", "work from home", "wfh":
		return "Remote", true
	case "hybrid":
		return "Hybrid", true
	case "on-site", "onsite":
		return "On-site", true
	}
	return "", false
}

func locationRules() Rules {
	ok := AllOf(LengthBetween(2, 50), NotIn("home", "anywhere", "everywhere"))
	rule := func(name, expr string) Rule {
		return Rule{Name: name, Pattern: re(expr), Normalize: CutAtDash, Valid: ok}
	}
	place := `([^\n\r(]+)`
	return Rules{
		rule("location-label", `(?i)\blocation[:\s-]+`+place),
		rule("based-in", `(?i)\bbased\s+in[:\s-]+`+place),
		rule("office-label", `(?i)\boffice[:\s-]+`+place),
		rule("work-from", `(?i)\bwork\s+from[:\s-]+`+place),
		rule("workplace-label", `(?i)\bworkplace[:\s-]+`+place),
		rule("address-label", `(?i)\baddress[:\s-]+`+place),
		rule("known-city", `(?i)\b(Seattle,\s*WA|New York,\s*NY|San Francisco,\s*CA|Austin,\s*TX|Chicago,\s*IL|Boston,\s*MA|Los Angeles,\s*CA|Denver,\s*CO|Atlanta,\s*GA|Dallas,\s*TX)\b`),
		{Name: "workplace", Pattern: re(`(?i)\b(remote|hybrid|on-site|onsite|work from home|wfh)\b`), Value: workplaceLabel, Valid: ok},
		rule("city-state", `\b([A-Z][a-z]+,\s*[A-Z][A-Z])\b`),
		rule("city-country", `\b([A-Z][a-z]+,\s*[A-Z][a-z]+)\b`),
	}
}

func locationHints() Labels {
	return Labels{
		{Pattern: re(`(?i)\b(?:remote|work\s+from\s+home|wfh|distributed|anywhere)\b`), Label: "Remote"},
		{Pattern: re(`(?i)\bhybrid\b`), Label: "Hybrid"},
	}
}

// ExperienceBand maps a number of years onto the fixed band strings.
func ExperienceBand(years int) string {
	switch {
	case years >= 10:
		return "10+ years"
	case years >= 7:
		return "7-10 years"
	case years >= 5:
		return "5-7 years"
	case years >= 3:
		return "3-5 years"
	case years >= 2:
		return "2-3 years"
	case years >= 1:
		return "1-2 years"
	default:
		return "0-1 years"
	}
}

var digits = re(`\d+`)

func yearSpan(lo, hi string) (string, bool) {
	a, errA := strconv.Atoi(lo)
	b, errB := strconv.Atoi(hi)
	if errA != nil || errB != nil {
		return "", false
	}
	if a > b {
		a, b = b, a
	}
	if b > 60 {
		return "", false
	}
	return fmt.Sprintf("%d-%d years", a, b), true
}

func yearsRange(groups []string) (string, bool) {
	return yearSpan(groups[1], groups[2])
}

func yearsBand(groups []string) (string, bool) {
	nums := digits.FindAllString(groups[1], 2)
	switch len(nums) {
	case 2:
		return yearSpan(nums[0], nums[1])
	case 1:
		n, err := strconv.Atoi(nums[0])
		if err != nil || n > 60 {
			return "", false
		}
		return ExperienceBand(n), true
	}
	return "", false
}

func seniorityBand(groups []string) (string, bool) {
	level := strings.ToLower(groups[1])
	switch {
	case strings.Contains(level, "entry"), strings.Contains(level, "junior"), strings.Contains(level, "fresh"), strings.Contains(level, "new"):
		return "0-2 years", true
	case strings.Contains(level, "senior"):
		return "5-8 years", true
	case strings.Contains(level, "lead"), strings.Contains(level, "principal"):
		return "8+ years", true
	}
	return "", false
}

func experienceRules() Rules {
	years := `\s*(?:years?|yrs?)`
	span := `(\d+\s*[-–]\s*\d+|\d+\+?)`
	return Rules{
		{Name: "experience-required", Pattern: re(`(?i)\bexperience\s+required[:\s-]+` + span + years), Value: yearsBand},
		{Name: "range-of-experience", Pattern: re(`(?i)\b(\d+)[\s\-–]+(\d+)\+?` + years + `\s*(?:of\s*)?(?:experience|exp)`), Value: yearsRange},
		{Name: "years-of-experience", Pattern: re(`(?i)\b(\d+)\+?` + years + `\s*(?:of\s*)?(?:experience|exp)`), Value: yearsBand},
		{Name: "experience-label", Pattern: re(`(?i)\b(?:experience|exp)[:\s-]+` + span + years), Value: yearsBand},
		{Name: "minimum-years", Pattern: re(`(?i)\bminimum\s+(?:of\s+)?(\d+)` + years), Value: yearsBand},
		{Name: "at-least-years", Pattern: re(`(?i)\bat\s+least\s+(\d+)` + years), Value: yearsBand},
		{Name: "years-to-years", Pattern: re(`(?i)\b(\d+)\s*to\s*(\d+)` + years), Value: yearsRange},
		{Name: "seniority-word", Pattern: re(`(?i)\b(entry[\s-]?level|junior|senior|lead|principal)\b`), Value: seniorityBand},
		{Name: "graduate-word", Pattern: re(`(?i)\b(fresher|fresh\s+graduate|new\s+grad)`), Value: seniorityBand},
	}
}

func jobTypeLabels() Labels {
	return Labels{
		{Pattern: re(`(?i)\bfull[\s-]?time\b|\bpermanent\b|\bregular\b`), Label: "Full-time"},
		{Pattern: re(`(?i)\bpart[\s-]?time\b`), Label: "Part-time"},
		{Pattern: re(`(?i)\bcontract(?:or|ual)?s?\b|\bfreelancer?\b|\bconsult(?:ing|ant)\b`), Label: "Contract"},
		{Pattern: re(`(?i)\bintern(?:ship)?s?\b|\btrainee\b`), Label: "Internship"},
		{Pattern: re(`(?i)\btemporary\b|\btemp\b|\bseasonal\b`), Label: "Temporary"},
		{Pattern: re(`(?i)\bvolunteer`), Label: "Volunteer"},
	}
}

func educationLabels() Labels {
	return Labels{
		{Pattern: re(`(?i)\bbachelor|\bb\.?sc?\b|\bb\.?a\b|\bb\.?tech\b|\bundergraduate\b`), Label: "Bachelor's degree"},
		{Pattern: re(`(?i)\bmaster'?s?\b|\bm\.?sc?\b|\bm\.?a\b|\bmba\b|\bm\.?tech\b|\bpostgraduate\b`), Label: "Master's degree"},
		{Pattern: re(`(?i)\bph\.?\s?d\b|\bdoctora(?:te|l)\b`), Label: "PhD/Doctorate"},
		{Pattern: re(`(?i)\bassociate'?s?\s+(?:degree|of)\b`), Label: "Associate's degree"},
		{Pattern: re(`(?i)\bhigh\s*school\b`), Label: "High School Diploma"},
	}
}

func categoryLabels() Labels {
	return Labels{
		{Pattern: re(`(?i)\b(?:software|developer|engineer|programming|coding|frontend|front-end|backend|back-end|full-?stack)`), Label: "Software Development"},
		{Pattern: re(`(?i)\bdata\s*scientist|\bdata\s*analyst|\bmachine\s*learning\b|\bai\b|\banalytics\b`), Label: "Data Science & Analytics"},
		{Pattern: re(`(?i)\bsales\b|\bmarketing\b|\bbusiness\s*development\b|\baccount\s*manager\b`), Label: "Sales & Marketing"},
		{Pattern: re(`(?i)\bfinanc(?:e|ial)\b|\baccount(?:ing|ant)\b`), Label: "Finance & Accounting"},
		{Pattern: re(`(?i)\bhr\b|\bhuman\s*resources\b|\brecruiter\b|\btalent\b`), Label: "Human Resources"},
		{Pattern: re(`(?i)\bhealthcare\b|\bmedical\b|\bnurse\b|\bdoctor\b|\bclinical\b`), Label: "Healthcare"},
		{Pattern: re(`(?i)\bcustomer\s*service\b|\bsupport\b|\bhelp\s*desk\b`), Label: "Customer Service"},
		{Pattern: re(`(?i)\boperations\b|\blogistics\b|\bsupply\s*chain\b`), Label: "Operations"},
		{Pattern: re(`(?i)\blegal\b|\blawyer\b|\battorney\b|\bcompliance\b`), Label: "Legal"},
		{Pattern: re(`(?i)\beducation\b|\bteacher\b|\binstructor\b|\btraining\b`), Label: "Education"},
	}
}

// Order is the tie-break: Urgent beats High beats Low.
func priorityLabels() Labels {
	return Labels{
		{Pattern: re(`(?i)\burgent|\basap\b|\bimmediately\b|\bcritical\b|\bemergency\b`), Label: "Urgent"},
		{Pattern: re(`(?i)\bhigh\s*priority\b|\bimportant\b|\bfast\s*track`), Label: "High"},
		{Pattern: re(`(?i)\blow\s*priority\b|\bflexible\s+(?:start|timeline|deadline)\b|\bwhen\s*possible\b`), Label: "Low"},
	}
}

// noSponsorship also vetoes the "Will Sponsor" phrases it contains, as in
// "no visa sponsorship available".
var noSponsorship = re(`(?i)\bno\s*(?:visa\s+)?sponsorship\b|\bsponsorship\s+(?:is\s+)?not\s+available\b|\b(?:unable\s+to|will\s+not|won't|cannot|can't)\s+sponsor\b`)

func workAuthLabels() Labels {
	return Labels{
		{Pattern: re(`(?i)\bu\.?s\.?\s*citizen|\bcitizenship\s+required\b`), Label: "US Citizen"},
		{Pattern: re(`(?i)\bgreen\s*card\b|\bpermanent\s+resident`), Label: "Green Card Holder"},
		{Pattern: re(`(?i)\bh-?1b\b`), Label: "H1B Visa"},
		{Pattern: re(`(?i)\bl-?1\s*(?:visa|status)\b|\bl-1\b`), Label: "L1 Visa"},
		{Pattern: re(`(?i)\b(?:opt|cpt|f-?1)\b`), Label: "OPT/CPT"},
		{Pattern: re(`(?i)\btn\s*visa\b`), Label: "TN Visa"},
		{Pattern: noSponsorship, Label: NoSponsorship},
		{
			Pattern: re(`(?i)\bwill\s*sponsor\b|\bsponsorship\s+(?:is\s+)?available\b|\bvisa\s*sponsorship\s+(?:is\s+)?(?:available|provided|offered)\b`),
			Unless:  noSponsorship,
			Label:   "Will Sponsor",
		},
	}
}

func clientRules() Rules {
	ok := LengthBetween(2, 50)
	name := `([A-Z][a-zA-Z \t&.\-]+)`
	return Rules{
		{Name: "client-label", Pattern: re(`(?i)\bclient[:\s-]+` + line), Normalize: strings.TrimSpace, Valid: ok},
		{Name: "for-division", Pattern: re(`(?i)\bfor\s+` + name + `\s+(?:division|team|department)\b`), Normalize: strings.TrimSpace, Valid: ok},
		{Name: "on-behalf-of", Pattern: re(`(?i)\bon\s+behalf\s+of\s+` + name), Normalize: strings.TrimSpace, Valid: ok},
	}
}

func managerRules() Rules {
	ok := LengthBetween(2, 100)
	rule := func(name, expr string) Rule {
		return Rule{Name: name, Pattern: re(expr), Normalize: strings.TrimSpace, Valid: ok}
	}
	return Rules{
		rule("reporting-manager", `(?i)\breporting\s+manager[:\s-]+`+line),
		rule("report-to", `(?i)\breport(?:ing)?\s+to[:\s-]+`+line),
		rule("manager-label", `(?i)\bmanager[: \t-]+([^\n\r,]+(?:,[ \t]*[^\n\r]+)?)`),
		rule("supervisor-label", `(?i)\bsupervisor[: \t-]+`+line),
		rule("reports-to", `(?i)\breports\s+to[:\s-]+`+line),
	}
}
