package formatters

import (
	"fmt"
	"strings"

	"jobparser/internal/types"
)

// RecordTextFormatter renders an extracted record as plain text
type RecordTextFormatter struct{}

func (f *RecordTextFormatter) Format(data any) ([]byte, error) {
	rec, source, ok := recordOf(data)
	if !ok {
		return nil, fmt.Errorf("expected Record or ParseResult, got %T", data)
	}

	var out strings.Builder
	out.WriteString("=== JOB POSTING ===\n")
	if source != "" {
		fmt.Fprintf(&out, "(extracted by %s)\n", source)
	}
	out.WriteString("\n")

	for _, field := range scalarFields(rec) {
		fmt.Fprintf(&out, "%-18s %s\n", field.label+":", field.value)
	}
	out.WriteString("\n")

	writeTextList(&out, "SKILLS", rec.Skills)
	writeTextList(&out, "BENEFITS", rec.Benefits)
	writeTextList(&out, "WORK AUTHORIZATION", rec.WorkAuth)
	writeTextList(&out, "RESPONSIBILITIES", rec.Responsibilities)
	writeTextList(&out, "REQUIREMENTS", rec.Requirements)

	out.WriteString("=== DESCRIPTION ===\n")
	out.WriteString(rec.JobDescription)
	out.WriteString("\n")

	return []byte(out.String()), nil
}

func (f *RecordTextFormatter) SupportedType() string {
	return typeRecord
}

// RecordMarkdownFormatter renders an extracted record as markdown
type RecordMarkdownFormatter struct{}

func (f *RecordMarkdownFormatter) Format(data any) ([]byte, error) {
	rec, source, ok := recordOf(data)
	if !ok {
		return nil, fmt.Errorf("expected Record or ParseResult, got %T", data)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "# %s\n\n", rec.JobTitle)
	if source != "" {
		fmt.Fprintf(&out, "_Extracted by %s_\n\n", source)
	}

	out.WriteString("| Field | Value |\n|---|---|\n")
	for _, field := range scalarFields(rec) {
		fmt.Fprintf(&out, "| %s | %s |\n", field.label, escapeCell(field.value))
	}
	out.WriteString("\n")

	writeMarkdownList(&out, "Skills", rec.Skills)
	writeMarkdownList(&out, "Benefits", rec.Benefits)
	writeMarkdownList(&out, "Work Authorization", rec.WorkAuth)
	writeMarkdownList(&out, "Responsibilities", rec.Responsibilities)
	writeMarkdownList(&out, "Requirements", rec.Requirements)

	out.WriteString("## Description\n\n")
	out.WriteString(rec.JobDescription)
	out.WriteString("\n")

	return []byte(out.String()), nil
}

func (f *RecordMarkdownFormatter) SupportedType() string {
	return typeRecord
}

type labelledValue struct {
	label string
	value string
}

func scalarFields(rec types.Record) []labelledValue {
	fields := []labelledValue{
		{"Title", rec.JobTitle},
		{"Company", rec.CompanyName},
		{"Location", rec.JobLocation},
		{"Job Type", strings.Join(rec.JobType, ", ")},
		{"Experience", rec.ExperienceRange},
		{"Salary", FormatSalary(rec.Salary)},
		{"Education", rec.EducationLevel},
		{"Category", rec.JobCategory},
		{"Priority", rec.Priority},
	}
	if rec.ClientName != "" {
		fields = append(fields, labelledValue{"Client", rec.ClientName})
	}
	if rec.ReportingManager != "" {
		fields = append(fields, labelledValue{"Reporting Manager", rec.ReportingManager})
	}
	return fields
}

// FormatSalary renders a salary band as "USD 90,000 - 110,000 per year"
func FormatSalary(s types.Salary) string {
	return fmt.Sprintf("%s %s - %s %s", s.Currency, groupThousands(s.Min), groupThousands(s.Max), s.PayRate)
}

func groupThousands(v float64) string {
	whole := fmt.Sprintf("%.0f", v)
	if v != float64(int64(v)) {
		return fmt.Sprintf("%.2f", v)
	}
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var out strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

func writeTextList(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "=== %s ===\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
	out.WriteString("\n")
}

func writeMarkdownList(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
	out.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
