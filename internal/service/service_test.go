package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"jobparser/internal/errors"
	"jobparser/internal/extract"
	"jobparser/internal/jobstore"
	"jobparser/internal/patterns"
	"jobparser/internal/types"
)

const description = `Senior Backend Engineer
Acme Corp is hiring in Austin, TX.
Requirements:
- 5+ years of experience with Python and AWS
Salary: $120,000 - $150,000 per year`

var fixedNow = func() time.Time { return time.UnixMilli(1700000000000) }

type memoryCache struct {
	mu     sync.Mutex
	data   map[string]types.Record
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]types.Record{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (types.Record, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return types.Record{}, false, c.getErr
	}
	rec, ok := c.data[key]
	return rec, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, rec types.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = rec
	return nil
}

type recordingPublisher struct {
	name     string
	err      error
	received []types.Posting
}

func (p *recordingPublisher) Name() string { return p.name }

func (p *recordingPublisher) Publish(_ context.Context, posting types.Posting) (types.PublishResult, error) {
	p.received = append(p.received, posting)
	if p.err != nil {
		return types.PublishResult{}, p.err
	}
	return types.PublishResult{Publisher: p.name, ID: posting.JobCode}, nil
}

func TestParseUsesCache(t *testing.T) {
	c := newMemoryCache()
	svc := New(nil, Options{Cache: c, Now: fixedNow})
	ctx := context.Background()

	first, err := svc.Parse(ctx, description)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if first.Source != types.SourceRules || first.LibraryVersion != patterns.BuiltinVersion {
		t.Errorf("unexpected first result: source %q version %q", first.Source, first.LibraryVersion)
	}
	if first.Record.JobTitle != "Senior Backend Engineer" {
		t.Errorf("unexpected title %q", first.Record.JobTitle)
	}

	second, err := svc.Parse(ctx, description)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if second.Source != types.SourceCache {
		t.Errorf("second parse should be served from cache, got %q", second.Source)
	}
	if second.Record.JobTitle != first.Record.JobTitle {
		t.Error("cached record should match the parsed one")
	}

	stats := svc.Stats()
	if stats.Parses != 2 || stats.CacheHits != 1 || stats.ParseFailures != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestParseSurvivesCacheFailure(t *testing.T) {
	c := newMemoryCache()
	c.getErr = fmt.Errorf("redis down")
	svc := New(nil, Options{Cache: c})

	result, err := svc.Parse(context.Background(), description)
	if err != nil {
		t.Fatalf("a cache failure must not fail the parse: %v", err)
	}
	if result.Source != types.SourceRules {
		t.Errorf("expected rules source, got %q", result.Source)
	}
}

func TestSwapEngineChangesCacheKey(t *testing.T) {
	c := newMemoryCache()
	svc := New(nil, Options{Cache: c})
	ctx := context.Background()

	if _, err := svc.Parse(ctx, description); err != nil {
		t.Fatal(err)
	}

	lib, err := patterns.Default().With(patterns.Overlay{
		Skills: []patterns.OverlaySkill{{Name: "Svelte", Category: "frontend"}},
		Digest: "0123456789abcdef0123",
	})
	if err != nil {
		t.Fatalf("With returned error: %v", err)
	}
	svc.SwapEngine(extract.New(lib))

	result, err := svc.Parse(ctx, description)
	if err != nil {
		t.Fatal(err)
	}
	if result.Source != types.SourceRules {
		t.Errorf("a new library version must not reuse cached records, got %q", result.Source)
	}
	if result.LibraryVersion == patterns.BuiltinVersion || svc.LibraryVersion() != result.LibraryVersion {
		t.Errorf("unexpected library version %q", result.LibraryVersion)
	}
}

func TestPublish(t *testing.T) {
	employer := types.Employer{Email: "hr@acme.test", Name: "Dana", Company: "Acme Corp"}

	tests := []struct {
		name        string
		req         types.PublishRequest
		publisher   *recordingPublisher
		expectError errors.ErrorType
		expectSent  int
	}{
		{
			name:       "parses text and publishes",
			req:        types.PublishRequest{Text: description, Employer: employer},
			publisher:  &recordingPublisher{name: "jobstore"},
			expectSent: 1,
		},
		{
			name:       "dry run publishes nothing",
			req:        types.PublishRequest{Text: description, Employer: employer, DryRun: true},
			publisher:  &recordingPublisher{name: "jobstore"},
			expectSent: 0,
		},
		{
			name:        "needs text or record",
			req:         types.PublishRequest{Employer: employer},
			publisher:   &recordingPublisher{name: "jobstore"},
			expectError: errors.ErrorTypeValidation,
		},
		{
			name:        "invalid employer email",
			req:         types.PublishRequest{Text: description, Employer: types.Employer{Email: "not-an-email"}},
			publisher:   &recordingPublisher{name: "jobstore"},
			expectError: errors.ErrorTypeValidation,
		},
		{
			name:        "publisher failure",
			req:         types.PublishRequest{Text: description},
			publisher:   &recordingPublisher{name: "jobstore", err: errors.NewNetworkError(errors.ErrCodePublishFailed, "down", nil)},
			expectError: errors.ErrorTypeNetwork,
			expectSent:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(nil, Options{Publishers: []jobstore.Publisher{tt.publisher}, Now: fixedNow})

			resp, err := svc.Publish(context.Background(), tt.req)
			if len(tt.publisher.received) != tt.expectSent {
				t.Errorf("expected %d postings sent, got %d", tt.expectSent, len(tt.publisher.received))
			}
			if tt.expectError != "" {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if errors.TypeOf(err) != tt.expectError {
					t.Errorf("expected %s error, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Posting.JobCode != "JOB-1700000000000" || resp.Posting.Company != "Acme Corp" {
				t.Errorf("unexpected posting %+v", resp.Posting)
			}
			if len(resp.Results) != tt.expectSent {
				t.Errorf("expected %d results, got %d", tt.expectSent, len(resp.Results))
			}
		})
	}
}

func TestPublishRecord(t *testing.T) {
	pub := &recordingPublisher{name: "postgres"}
	svc := New(nil, Options{Publishers: []jobstore.Publisher{pub}, Now: fixedNow, DefaultCompany: "Staffing Co"})

	rec, err := extract.New(nil).Parse("Data Analyst wanted. SQL and Excel required.")
	if err != nil {
		t.Fatal(err)
	}
	rec.CompanyName = ""

	resp, err := svc.Publish(context.Background(), types.PublishRequest{Record: &rec})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if resp.Posting.Company != "Staffing Co" {
		t.Errorf("empty company should use the configured default, got %q", resp.Posting.Company)
	}
	if svc.Stats().Parses != 0 {
		t.Error("publishing a record must not parse")
	}
	if svc.Stats().Publishes != 1 {
		t.Errorf("expected one publish, got %d", svc.Stats().Publishes)
	}
}

func TestPublishWithoutPublishers(t *testing.T) {
	svc := New(nil, Options{})
	_, err := svc.Publish(context.Background(), types.PublishRequest{Text: description})
	if errors.TypeOf(err) != errors.ErrorTypeConfig {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestParseConcurrentWithSwap(t *testing.T) {
	svc := New(nil, Options{Cache: newMemoryCache()})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Parse(context.Background(), fmt.Sprintf("%s\nReference %d", description, i)); err != nil {
				t.Errorf("Parse returned error: %v", err)
			}
		}()
	}
	svc.SwapEngine(extract.New(nil))
	wg.Wait()

	if got := svc.Stats().Parses; got != 8 {
		t.Errorf("expected 8 parses, got %d", got)
	}
}
