// Package inbox sweeps a directory of pasted job descriptions on a cron
// schedule, publishing each one and filing it under processed/ or failed/.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"jobparser/internal/common"
	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/observability"
	"jobparser/internal/types"
	"jobparser/internal/utils"
)

const (
	processedDir = "processed"
	failedDir    = "failed"
	markerSuffix = ".published"
)

// Publisher is the part of the service the sweeper drives
type Publisher interface {
	Publish(ctx context.Context, req types.PublishRequest) (types.PublishResponse, error)
}

// Options holds the optional sweeper settings
type Options struct {
	Employer    types.Employer
	MaxFileSize int64
	Metrics     *observability.Metrics
	Logger      *errors.Logger
}

// Sweeper processes inbox files. Only one sweep runs at a time.
type Sweeper struct {
	publisher Publisher
	cfg       config.InboxConfig
	employer  types.Employer
	files     *common.FileProcessor
	metrics   *observability.Metrics
	logger    *errors.Logger

	sweeping sync.Mutex
	mu       sync.Mutex
	cron     *cron.Cron
}

// New creates a sweeper for cfg.Dir
func New(publisher Publisher, cfg config.InboxConfig, opts Options) *Sweeper {
	if cfg.Pattern == "" {
		cfg.Pattern = "*.txt"
	}
	logger := opts.Logger
	if logger == nil {
		logger = errors.Discard()
	}
	return &Sweeper{
		publisher: publisher,
		cfg:       cfg,
		employer:  opts.Employer,
		files:     common.NewFileProcessor(logger, opts.MaxFileSize),
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// Start registers the sweep on the configured schedule and runs one sweep
// right away so a backlog is not left waiting for the first tick.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.cfg.Schedule == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "inbox schedule is required", nil)
	}

	c := cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	if _, err := c.AddFunc(s.cfg.Schedule, func() { s.sweep(ctx) }); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid inbox schedule %q", s.cfg.Schedule), fmt.Errorf("cron.AddFunc: %w", err))
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	c.Start()
	s.logger.Info("Inbox sweeper started", "dir", s.cfg.Dir, "schedule", s.cfg.Schedule)

	go s.sweep(ctx)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("Inbox sweeper stopped", "dir", s.cfg.Dir)
}

func (s *Sweeper) sweep(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.LogError(err, "Inbox sweep failed", "dir", s.cfg.Dir)
		return
	}
	if len(report.Items) > 0 {
		s.logger.Info("Inbox sweep complete",
			"dir", report.Dir,
			"processed", report.Processed,
			"failed", report.Failed)
	}
}

// RunOnce processes every matching file currently in the inbox. A file
// failure is recorded in the report; only a listing failure or
// cancellation returns an error.
func (s *Sweeper) RunOnce(ctx context.Context) (types.SweepReport, error) {
	s.sweeping.Lock()
	defer s.sweeping.Unlock()

	report := types.SweepReport{Dir: s.cfg.Dir, Items: []types.SweepItem{}}

	files, err := utils.ListFiles(s.cfg.Dir, s.cfg.Pattern)
	if err != nil {
		return report, errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot list inbox", err)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if strings.HasSuffix(file, markerSuffix) {
			continue
		}

		item := s.processFile(ctx, file)
		report.Items = append(report.Items, item)
		if item.Status == types.SweepProcessed {
			report.Processed++
		} else {
			report.Failed++
		}
		s.metrics.RecordSweepFile(ctx, item.Status)
	}
	return report, nil
}

func (s *Sweeper) processFile(ctx context.Context, file string) types.SweepItem {
	item := types.SweepItem{File: filepath.Base(file)}

	code, resumed := readMarker(file)
	if resumed {
		// Published by an earlier sweep whose move failed; only the move is left.
		item.Status = types.SweepProcessed
		item.JobCode = code
		s.logger.Warn("Inbox file already published, retrying move", "file", item.File, "jobCode", code)
	} else {
		resp, err := s.publishFile(ctx, file)
		if err != nil {
			item.Status = types.SweepFailed
			item.Error = err.Error()
			s.logger.LogError(err, "Inbox file failed", "file", item.File)
		} else {
			item.Status = types.SweepProcessed
			item.JobCode = resp.Posting.JobCode
			item.Title = resp.Posting.JobTitle
		}
	}

	target := filepath.Join(s.cfg.Dir, processedDir)
	if item.Status == types.SweepFailed {
		target = filepath.Join(s.cfg.Dir, failedDir)
	}
	if _, err := utils.MoveFile(file, target); err != nil {
		s.logger.LogError(err, "Failed to move inbox file", "file", item.File, "target", target)
		if item.Status == types.SweepProcessed && s.cfg.Publish && !resumed {
			s.keepMarker(file, item.JobCode)
		}
		if item.Error == "" {
			item.Status = types.SweepFailed
			item.Error = err.Error()
		}
		return item
	}
	if resumed {
		if err := os.Remove(markerPath(file)); err != nil && !os.IsNotExist(err) {
			s.logger.LogError(err, "Failed to remove publish marker", "file", item.File)
		}
	}
	return item
}

// keepMarker records that file was already published under jobCode. The
// next sweep then retries the move without publishing again.
func (s *Sweeper) keepMarker(file, jobCode string) {
	if err := os.WriteFile(markerPath(file), []byte(jobCode+"\n"), 0600); err != nil {
		s.logger.LogError(errors.NewIOError(errors.ErrCodeFileNotWritable, "cannot write publish marker", err),
			"Inbox file was published but left in the inbox; the next sweep will publish it again",
			"file", filepath.Base(file), "jobCode", jobCode)
		return
	}
	s.logger.Warn("Inbox file published but not moved, marker written",
		"file", filepath.Base(file), "jobCode", jobCode)
}

func markerPath(file string) string {
	return file + markerSuffix
}

func readMarker(file string) (string, bool) {
	data, err := os.ReadFile(markerPath(file))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// publishFile validates without publishing when the inbox is not set to publish
func (s *Sweeper) publishFile(ctx context.Context, file string) (types.PublishResponse, error) {
	text, err := s.files.ReadFile(file)
	if err != nil {
		return types.PublishResponse{}, err
	}
	if err := common.ValidateText(text, 0); err != nil {
		return types.PublishResponse{}, err
	}
	return s.publisher.Publish(ctx, types.PublishRequest{
		Text:     text,
		Employer: s.employer,
		DryRun:   !s.cfg.Publish,
	})
}

// cronLogger routes cron's own logging through the application logger
type cronLogger struct {
	logger *errors.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.LogError(err, "cron: "+msg, keysAndValues...)
}
