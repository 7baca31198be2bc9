package formatters

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"jobparser/internal/types"
)

func sampleRecord() types.Record {
	return types.Record{
		JobTitle:         "Senior Backend Engineer",
		CompanyName:      "Acme Corp",
		JobLocation:      "Austin, TX",
		JobType:          []string{"Full-time"},
		ExperienceRange:  "5-7 years",
		Skills:           []string{"Python", "AWS"},
		Salary:           types.Salary{Min: 90000, Max: 110000, Currency: "USD", PayRate: "per year"},
		Benefits:         []string{"Health insurance"},
		EducationLevel:   "Bachelor's degree",
		JobCategory:      "Software Development",
		Priority:         "Medium",
		WorkAuth:         []string{"No sponsorship"},
		JobDescription:   "Build payment systems.",
		Responsibilities: []string{"Design APIs"},
		Requirements:     []string{"Five years of Python"},
	}
}

func TestRegistryFormat(t *testing.T) {
	rec := sampleRecord()
	result := types.ParseResult{Record: rec, Source: types.SourceRules}

	tests := []struct {
		name     string
		data     any
		format   string
		contains []string
	}{
		{"record as text", rec, "text", []string{"=== JOB POSTING ===", "Company:", "Acme Corp", "USD 90,000 - 110,000 per year", "- Python"}},
		{"parse result as text", result, "text", []string{"(extracted by rules)", "Senior Backend Engineer"}},
		{"record as markdown", rec, "markdown", []string{"# Senior Backend Engineer", "| Location | Austin, TX |", "## Skills"}},
		{"record as json", rec, "json", []string{`"jobTitle": "Senior Backend Engineer"`}},
		{
			"publish response as text",
			types.PublishResponse{
				Posting: types.Posting{JobCode: "JOB-1", JobTitle: "Engineer", Company: "Acme"},
				Results: []types.PublishResult{{Publisher: "http", ID: "42"}, {Publisher: "postgres", Duplicate: true}},
			},
			"text",
			[]string{"=== POSTING JOB-1 ===", "http: 42", "postgres: already stored"},
		},
		{
			"dry run as markdown",
			types.PublishResponse{Posting: types.Posting{JobCode: "JOB-2", JobTitle: "Engineer"}},
			"markdown",
			[]string{"_Dry run, nothing was published._"},
		},
		{
			"sweep report",
			types.SweepReport{Dir: "inbox", Processed: 1, Failed: 1, Items: []types.SweepItem{
				{File: "a.txt", Status: types.SweepProcessed, JobCode: "JOB-3", Title: "Engineer"},
				{File: "b.txt", Status: types.SweepFailed, Error: "boom"},
			}},
			"text",
			[]string{"1 processed, 1 failed", "OK   a.txt -> JOB-3 Engineer", "FAIL b.txt: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := GlobalRegistry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format returned error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(string(out), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRegistryFormatErrors(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleRecord(), "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
	if _, err := GlobalRegistry.Format(map[string]int{"a": 1}, "text"); err == nil {
		t.Error("expected an error for text output of an unknown type")
	}
	if _, err := GlobalRegistry.Format(types.SweepReport{}, "xlsx"); err == nil {
		t.Error("expected an error for xlsx output of a sweep report")
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleRecord(), "json")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	var got types.Record
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Salary.Max != 110000 || len(got.Skills) != 2 {
		t.Errorf("unexpected decoded record: %+v", got)
	}
}

func TestXLSXFormatter(t *testing.T) {
	second := sampleRecord()
	second.JobTitle = "Data Analyst"

	out, err := GlobalRegistry.Format([]types.Record{sampleRecord(), second}, "xlsx")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	cells := map[string]string{
		"A1": "Title",
		"A2": "Senior Backend Engineer",
		"B2": "Acme Corp",
		"F2": "Python, AWS",
		"A3": "Data Analyst",
	}
	for cell, expected := range cells {
		got, err := wb.GetCellValue(xlsxSheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != expected {
			t.Errorf("%s = %q, expected %q", cell, got, expected)
		}
	}
}

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		salary   types.Salary
		expected string
	}{
		{types.Salary{Min: 1200000, Max: 1500000, Currency: "INR", PayRate: "per year"}, "INR 1,200,000 - 1,500,000 per year"},
		{types.Salary{Min: 40.5, Max: 49.5, Currency: "USD", PayRate: "per hour"}, "USD 40.50 - 49.50 per hour"},
		{types.Salary{Min: 900, Max: 1100, Currency: "EUR", PayRate: "per month"}, "EUR 900 - 1,100 per month"},
	}
	for _, tt := range tests {
		if got := FormatSalary(tt.salary); got != tt.expected {
			t.Errorf("FormatSalary(%+v) = %q, expected %q", tt.salary, got, tt.expected)
		}
	}
}

func TestGetSupportedFormats(t *testing.T) {
	got := strings.Join(GlobalRegistry.GetSupportedFormats(), ",")
	if got != "json,markdown,text,xlsx" {
		t.Errorf("unexpected formats %q", got)
	}
}
