// Package posting maps extracted records onto the create-job payload accepted
// by the job-storage service.
package posting

import (
	"fmt"
	"strings"
	"time"

	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

// Experience levels accepted by the job-storage service.
const (
	LevelEntry  = "Entry"
	LevelMid    = "Mid"
	LevelSenior = "Senior"
	LevelLead   = "Lead"
)

// Salary periods accepted by the job-storage service.
const (
	PeriodYearly  = "yearly"
	PeriodMonthly = "monthly"
	PeriodHourly  = "hourly"
)

// FallbackCompany is used when neither the employer nor the record names a company.
const FallbackCompany = "Your Company"

// Options carries what the record cannot know about a posting.
type Options struct {
	Employer       types.Employer
	DefaultCompany string
	Now            func() time.Time
}

// JobCode builds a posting code from a timestamp.
func JobCode(t time.Time) string {
	return fmt.Sprintf("JOB-%d", t.UnixMilli())
}

// ExperienceLevel maps an experience band onto the coarse level enum.
func ExperienceLevel(band string) string {
	switch {
	case strings.Contains(band, "0-1"), strings.Contains(band, "1-2"):
		return LevelEntry
	case strings.Contains(band, "2-3"), strings.Contains(band, "3-5"):
		return LevelMid
	case strings.Contains(band, "5-7"), strings.Contains(band, "7-10"):
		return LevelSenior
	case strings.Contains(band, "10+"):
		return LevelLead
	default:
		return LevelMid
	}
}

// Period maps a record pay rate onto the payload period enum.
func Period(payRate string) string {
	switch payRate {
	case patterns.PerYear:
		return PeriodYearly
	case patterns.PerMonth:
		return PeriodMonthly
	default:
		return PeriodHourly
	}
}

// FromRecord builds the payload for rec. The employer's company, when known,
// takes precedence over the company named in the text.
func FromRecord(rec types.Record, opts Options) types.Posting {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	company := firstNonEmpty(opts.Employer.Company, rec.CompanyName, opts.DefaultCompany, FallbackCompany)
	jobType := strings.Join(rec.JobType, ", ")
	if jobType == "" {
		jobType = patterns.DefaultJobTypes[0]
	}

	return types.Posting{
		JobCode:          JobCode(now()),
		JobTitle:         rec.JobTitle,
		Company:          company,
		CompanyLogo:      opts.Employer.LogoURL,
		Location:         rec.JobLocation,
		JobType:          jobType,
		Description:      rec.JobDescription,
		Responsibilities: strings.Join(rec.Responsibilities, "\n"),
		Requirements:     strings.Join(rec.Requirements, "\n"),
		Skills:           rec.Skills,
		ExperienceLevel:  ExperienceLevel(rec.ExperienceRange),
		Salary: types.PostingSalary{
			Min:      int(rec.Salary.Min),
			Max:      int(rec.Salary.Max),
			Currency: rec.Salary.Currency,
			Period:   Period(rec.Salary.PayRate),
		},
		Benefits:         rec.Benefits,
		EducationLevel:   rec.EducationLevel,
		JobCategory:      rec.JobCategory,
		Priority:         rec.Priority,
		ClientName:       rec.ClientName,
		ReportingManager: rec.ReportingManager,
		WorkAuth:         rec.WorkAuth,
		PostedBy:         opts.Employer.Email,
		EmployerEmail:    opts.Employer.Email,
		EmployerName:     opts.Employer.Name,
		EmployerCompany:  firstNonEmpty(opts.Employer.Company, company),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
