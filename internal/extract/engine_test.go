package extract

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"jobparser/internal/errors"
	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

var sharedEngine = New(patterns.Default())

const acmePosting = "Senior Backend Engineer\n\nCompany: Acme Corp\nLocation: Austin, TX\n\nRequirements:\n- 5+ years experience\n- Python, AWS, Docker\n\nBenefits: Health insurance, 401k"

func TestParseAcmePosting(t *testing.T) {
	rec, err := sharedEngine.Parse(acmePosting)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if rec.JobTitle != "Senior Backend Engineer" {
		t.Errorf("expected title 'Senior Backend Engineer', got %q", rec.JobTitle)
	}
	if rec.CompanyName != "Acme Corp" {
		t.Errorf("expected company 'Acme Corp', got %q", rec.CompanyName)
	}
	if rec.JobLocation != "Austin, TX" {
		t.Errorf("expected location 'Austin, TX', got %q", rec.JobLocation)
	}
	if rec.ExperienceRange != "5-7 years" {
		t.Errorf("expected experience '5-7 years', got %q", rec.ExperienceRange)
	}
	for _, skill := range []string{"Python", "AWS", "Docker"} {
		if !slices.Contains(rec.Skills, skill) {
			t.Errorf("expected skills to include %q, got %v", skill, rec.Skills)
		}
	}
	for _, benefit := range []string{"Health insurance", "401(k)"} {
		if !slices.Contains(rec.Benefits, benefit) {
			t.Errorf("expected benefits to include %q, got %v", benefit, rec.Benefits)
		}
	}

	wantReqs := []string{"5+ years experience", "Python, AWS, Docker"}
	if !reflect.DeepEqual(rec.Requirements, wantReqs) {
		t.Errorf("expected requirements %v, got %v", wantReqs, rec.Requirements)
	}
	if strings.Contains(rec.JobDescription, "Python, AWS, Docker") {
		t.Errorf("expected requirements section to be removed from description, got %q", rec.JobDescription)
	}
	if !strings.Contains(rec.JobDescription, "Company: Acme Corp") {
		t.Errorf("expected description to keep the prose, got %q", rec.JobDescription)
	}
	if rec.ClientName != "" || rec.ReportingManager != "" {
		t.Errorf("expected empty client and manager, got %q and %q", rec.ClientName, rec.ReportingManager)
	}
	if problems := Check(rec); len(problems) > 0 {
		t.Errorf("record violates invariants: %v", problems)
	}
}

func TestParseRequiredFieldsAlwaysResolved(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"whitespace":   "   \n\t\n  ",
		"single word":  "hello",
		"emoji":        "🙂🙂🙂",
		"url only":     "https://example.com/jobs/123",
		"numbers only": "1234 5678 90",
		"long prose":   strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 40),
		"crlf posting": strings.ReplaceAll(acmePosting, "\n", "\r\n"),
		"dashes":       "- - -\n— — —\n| | |",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			rec, err := sharedEngine.Parse(input)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if problems := Check(rec); len(problems) > 0 {
				t.Errorf("record violates invariants: %v", problems)
			}
		})
	}
}

func TestParseEmptyInputUsesDefaults(t *testing.T) {
	rec, err := sharedEngine.Parse("")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := types.Record{
		JobTitle:         patterns.DefaultTitle,
		CompanyName:      patterns.DefaultCompany,
		JobLocation:      patterns.DefaultLocation,
		JobType:          []string{"Full-time"},
		ExperienceRange:  patterns.DefaultExperience,
		Skills:           []string{"JavaScript", "React", "Node.js"},
		Salary:           DefaultSalary(),
		Benefits:         []string{},
		EducationLevel:   patterns.DefaultEducation,
		JobCategory:      patterns.DefaultCategory,
		Priority:         "Medium",
		WorkAuth:         []string{patterns.NoSponsorship},
		JobDescription:   "...",
		Responsibilities: []string{},
		Requirements:     []string{},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("expected defaults\n%+v\ngot\n%+v", want, rec)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first, err := sharedEngine.Parse(acmePosting)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := sharedEngine.Parse(acmePosting)
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestParseConcurrentCallers(t *testing.T) {
	want, err := sharedEngine.Parse(acmePosting)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]types.Record, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = sharedEngine.Parse(acmePosting)
		}()
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("goroutine %d got a different record", i)
		}
	}
}

func TestParseContextMatchesParse(t *testing.T) {
	want, err := sharedEngine.Parse(acmePosting)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	got, err := sharedEngine.ParseContext(context.Background(), acmePosting)
	if err != nil {
		t.Fatalf("ParseContext returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseContext differs from Parse:\n%+v\n%+v", got, want)
	}
}

func TestParseContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sharedEngine.ParseContext(ctx, acmePosting)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParseFailureIsAllOrNothing(t *testing.T) {
	lib := patterns.Default()
	lib.Title = patterns.Rules{{Name: "broken"}} // nil pattern panics on use
	engine := New(lib)

	t.Run("Parse", func(t *testing.T) {
		rec, err := engine.Parse(acmePosting)
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.TypeOf(err) != errors.ErrorTypeParse {
			t.Errorf("expected parse error type, got %s", errors.TypeOf(err))
		}
		if !strings.Contains(err.Error(), "failed to parse job description") {
			t.Errorf("unexpected message: %v", err)
		}
		if !reflect.DeepEqual(rec, types.Record{}) {
			t.Errorf("expected zero record, got %+v", rec)
		}
	})

	t.Run("ParseContext", func(t *testing.T) {
		rec, err := engine.ParseContext(context.Background(), acmePosting)
		if errors.TypeOf(err) != errors.ErrorTypeParse {
			t.Errorf("expected parse error, got %v", err)
		}
		if !reflect.DeepEqual(rec, types.Record{}) {
			t.Errorf("expected zero record, got %+v", rec)
		}
	})
}

func TestDefaultedFields(t *testing.T) {
	rec, _ := sharedEngine.Parse("")
	got := DefaultedFields(rec)
	for _, field := range []string{"jobTitle", "companyName", "skills", "salary", "workAuth"} {
		if !slices.Contains(got, field) {
			t.Errorf("expected %s to be reported as defaulted, got %v", field, got)
		}
	}

	rec, _ = sharedEngine.Parse(acmePosting)
	got = DefaultedFields(rec)
	for _, field := range []string{"jobTitle", "companyName", "jobLocation", "skills", "experienceRange"} {
		if slices.Contains(got, field) {
			t.Errorf("did not expect %s to be reported as defaulted", field)
		}
	}
}

func TestValidateRejectsBrokenRecord(t *testing.T) {
	rec, _ := sharedEngine.Parse(acmePosting)
	rec.JobTitle = ""
	rec.Priority = "Whenever"
	rec.Salary.Min, rec.Salary.Max = 10, 5
	rec.Skills = append(rec.Skills, rec.Skills[0])

	err := Validate(rec)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if errors.TypeOf(err) != errors.ErrorTypeValidation {
		t.Errorf("expected validation error type, got %s", errors.TypeOf(err))
	}
	for _, want := range []string{"jobTitle is empty", "priority", "salary min exceeds max", "duplicates"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %v", want, err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	for b.Loop() {
		_, _ = sharedEngine.Parse(acmePosting)
	}
}

func BenchmarkParseContext(b *testing.B) {
	ctx := context.Background()
	for b.Loop() {
		_, _ = sharedEngine.ParseContext(ctx, acmePosting)
	}
}
