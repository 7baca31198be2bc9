package formatters

import (
	"fmt"
	"strings"

	"jobparser/internal/types"
)

// PublishTextFormatter renders the outcome of publishing a posting
type PublishTextFormatter struct{}

func (f *PublishTextFormatter) Format(data any) ([]byte, error) {
	resp, ok := data.(types.PublishResponse)
	if !ok {
		return nil, fmt.Errorf("expected PublishResponse, got %T", data)
	}

	var out strings.Builder
	p := resp.Posting
	fmt.Fprintf(&out, "=== POSTING %s ===\n\n", p.JobCode)
	fmt.Fprintf(&out, "%s at %s (%s)\n", p.JobTitle, p.Company, p.Location)
	fmt.Fprintf(&out, "Level: %s, Type: %s\n", p.ExperienceLevel, p.JobType)
	fmt.Fprintf(&out, "Salary: %s %d - %d %s\n\n", p.Salary.Currency, p.Salary.Min, p.Salary.Max, p.Salary.Period)

	out.WriteString("=== PUBLISHED TO ===\n")
	if len(resp.Results) == 0 {
		out.WriteString("nothing (dry run)\n")
	}
	for _, r := range resp.Results {
		out.WriteString(describeResult(r))
		out.WriteString("\n")
	}

	return []byte(out.String()), nil
}

func (f *PublishTextFormatter) SupportedType() string {
	return typePublishResponse
}

// PublishMarkdownFormatter renders the outcome of publishing a posting as markdown
type PublishMarkdownFormatter struct{}

func (f *PublishMarkdownFormatter) Format(data any) ([]byte, error) {
	resp, ok := data.(types.PublishResponse)
	if !ok {
		return nil, fmt.Errorf("expected PublishResponse, got %T", data)
	}

	var out strings.Builder
	p := resp.Posting
	fmt.Fprintf(&out, "# %s\n\n", p.JobTitle)
	fmt.Fprintf(&out, "**Job code:** `%s`  \n**Company:** %s  \n**Location:** %s\n\n", p.JobCode, p.Company, p.Location)

	out.WriteString("## Published To\n\n")
	if len(resp.Results) == 0 {
		out.WriteString("_Dry run, nothing was published._\n")
	}
	for _, r := range resp.Results {
		fmt.Fprintf(&out, "- %s\n", describeResult(r))
	}

	return []byte(out.String()), nil
}

func (f *PublishMarkdownFormatter) SupportedType() string {
	return typePublishResponse
}

func describeResult(r types.PublishResult) string {
	switch {
	case r.Duplicate:
		return fmt.Sprintf("%s: already stored", r.Publisher)
	case r.ID != "":
		return fmt.Sprintf("%s: %s", r.Publisher, r.ID)
	default:
		return fmt.Sprintf("%s: ok", r.Publisher)
	}
}

// SweepTextFormatter summarizes an inbox sweep
type SweepTextFormatter struct{}

func (f *SweepTextFormatter) Format(data any) ([]byte, error) {
	report, ok := data.(types.SweepReport)
	if !ok {
		return nil, fmt.Errorf("expected SweepReport, got %T", data)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Swept %s: %d processed, %d failed\n", report.Dir, report.Processed, report.Failed)
	for _, item := range report.Items {
		switch item.Status {
		case types.SweepFailed:
			fmt.Fprintf(&out, "  FAIL %s: %s\n", item.File, item.Error)
		default:
			fmt.Fprintf(&out, "  OK   %s -> %s %s\n", item.File, item.JobCode, item.Title)
		}
	}
	return []byte(out.String()), nil
}

func (f *SweepTextFormatter) SupportedType() string {
	return typeSweepReport
}
