// Package extract turns free-form job description text into a types.Record.
//
// Every field has its own extractor. Each one is a pure function of the text
// and the pattern library and always terminates in a documented default, so
// an Engine never fails on odd input; Parse only reports an error when an
// extractor breaks unexpectedly, and then returns no record at all.
package extract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"jobparser/internal/errors"
	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

// Engine extracts records using one immutable pattern library. It is safe
// for concurrent use.
type Engine struct {
	lib *patterns.Library
}

// New returns an engine over lib, or over the built-in library when lib is nil.
func New(lib *patterns.Library) *Engine {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Engine{lib: lib}
}

// Library returns the pattern library the engine was built with.
func (e *Engine) Library() *patterns.Library {
	return e.lib
}

type fieldFunc func(e *Engine, text string, rec *types.Record)

// fields writes every record field; each entry touches a distinct field so
// they may run in parallel.
var fields = []fieldFunc{
	func(e *Engine, t string, r *types.Record) { r.JobTitle = e.Title(t) },
	func(e *Engine, t string, r *types.Record) { r.CompanyName = e.Company(t) },
	func(e *Engine, t string, r *types.Record) { r.JobLocation = e.Location(t) },
	func(e *Engine, t string, r *types.Record) { r.JobType = e.JobTypes(t) },
	func(e *Engine, t string, r *types.Record) { r.ExperienceRange = e.Experience(t) },
	func(e *Engine, t string, r *types.Record) { r.Skills = e.Skills(t) },
	func(e *Engine, t string, r *types.Record) { r.Salary = e.Salary(t) },
	func(e *Engine, t string, r *types.Record) { r.Benefits = e.Benefits(t) },
	func(e *Engine, t string, r *types.Record) { r.EducationLevel = e.Education(t) },
	func(e *Engine, t string, r *types.Record) { r.JobCategory = e.Category(t) },
	func(e *Engine, t string, r *types.Record) { r.Priority = e.Priority(t) },
	func(e *Engine, t string, r *types.Record) { r.ClientName = e.Client(t) },
	func(e *Engine, t string, r *types.Record) { r.ReportingManager = e.Manager(t) },
	func(e *Engine, t string, r *types.Record) { r.WorkAuth = e.WorkAuth(t) },
	func(e *Engine, t string, r *types.Record) { r.JobDescription = e.Description(t) },
	func(e *Engine, t string, r *types.Record) { r.Responsibilities = e.Responsibilities(t) },
	func(e *Engine, t string, r *types.Record) { r.Requirements = e.Requirements(t) },
}

func normalizeNewlines(text string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
}

func parseFailure(recovered any) error {
	return errors.NewParseError(errors.ErrCodeParseFailed, "failed to parse job description",
		fmt.Errorf("panic: %v", recovered))
}

// Parse extracts a complete record from text. On error the record is zero;
// there are no partial results.
func (e *Engine) Parse(text string) (rec types.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = types.Record{}, parseFailure(r)
		}
	}()

	text = normalizeNewlines(text)
	for _, f := range fields {
		f(e, text, &rec)
	}
	return rec, nil
}

// ParseContext is Parse with the field extractors fanned out across
// goroutines. The result is identical to Parse. A cancelled ctx abandons the
// record.
func (e *Engine) ParseContext(ctx context.Context, text string) (types.Record, error) {
	if err := ctx.Err(); err != nil {
		return types.Record{}, err
	}

	text = normalizeNewlines(text)
	var (
		rec      types.Record
		wg       sync.WaitGroup
		mu       sync.Mutex
		panicked any
	)
	for _, f := range fields {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if panicked == nil {
						panicked = r
					}
					mu.Unlock()
				}
			}()
			f(e, text, &rec)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return types.Record{}, ctx.Err()
	case <-done:
	}

	if panicked != nil {
		return types.Record{}, parseFailure(panicked)
	}
	return rec, nil
}
