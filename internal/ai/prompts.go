package ai

import (
	"fmt"
	"strings"
)

// DefaultSystemPrompt is the system instruction used when none is configured
const DefaultSystemPrompt = `You are a recruitment data specialist. You read job advertisements and fill in structured job-posting records.

- Use only facts stated in the advertisement. Never invent a company, salary, or requirement.
- When a field is not mentioned, use the documented default for that field.
- Keep responsibilities and requirements as short standalone sentences taken from the text.`

// DefaultUserPrompt is the user prompt template. The job description replaces %s.
const DefaultUserPrompt = `Extract a job-posting record from the advertisement below.

**Field rules:**
- jobTitle: the advertised role. Default "Software Developer".
- companyName: the hiring company. Default "Company Confidential".
- jobLocation: a city, "Remote" or "Hybrid". Default "Remote".
- jobType: any of Full-time, Part-time, Contract, Internship, Temporary, Volunteer. Default ["Full-time"].
- experienceRange: a band such as "0-1 years", "2-3 years", "3-5 years", "5-7 years", "7-10 years" or "10+ years". Default "2-5 years".
- skills: at most 10 distinct technical skills. Default ["JavaScript", "React", "Node.js"].
- salary: min and max as numbers, a currency code, and payRate of "per year", "per month" or "per hour". Default 50000 to 80000 USD per year.
- educationLevel: Default "Bachelor's degree".
- jobCategory: Default "Information Technology".
- priority: Urgent, High, Medium or Low. Default "Medium".
- workAuth: the sponsorship or work authorization statements. Default ["No Sponsorship Required"].
- clientName and reportingManager: empty when not mentioned.
- jobDescription: a short summary of the role.
- responsibilities and requirements: at most 8 items each, every item between 10 and 200 characters.

**Job Advertisement:**
-----
%s
-----`

// renderPrompts resolves the configured prompts against the defaults and
// places text into the user template.
func renderPrompts(system, user, text string) (string, string) {
	if strings.TrimSpace(system) == "" {
		system = DefaultSystemPrompt
	}
	if strings.TrimSpace(user) == "" {
		user = DefaultUserPrompt
	}

	if strings.Count(user, "%s") == 1 {
		return system, fmt.Sprintf(user, text)
	}
	return system, user + "\n\n-----\n" + text + "\n-----"
}
