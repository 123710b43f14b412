package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"RationalPrice/internal/analysis"
	"RationalPrice/internal/collector"
	"RationalPrice/internal/notifier"
	"RationalPrice/internal/report"

	"github.com/robfig/cron/v3"
)

// Sender delivers a formatted report. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options control what a run writes besides the returned result.
type Options struct {
	Out       io.Writer // summary and table; nil discards
	Rows      int // trailing periods in the table; <= 0 prints none
	Precision int
	CSVPath   string
}

// Scheduler runs the analysis pipeline, once or on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Params    analysis.Params
	Notifier  Sender
	Options   Options
	Ctx       context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. sender may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, params analysis.Params, sender Sender, opts Options) *Scheduler {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Params:    params,
		Notifier:  sender,
		Options:   opts,
		Ctx:       ctx,
	}
}

// Register adds the periodic analysis task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.task); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the scheduled task immediately.
func (s *Scheduler) RunNow() {
	s.task()
}

func (s *Scheduler) task() {
	if _, err := s.RunOnce(s.Ctx); err != nil {
		log.Printf("[ERROR] analysis run: %v", err)
		s.trySend(fmt.Sprintf("❌ analysis failed: %v", err))
	}
}

// RunOnce collects prices, computes the ex-post rational series and writes
// every configured report. Runs are serialised.
func (s *Scheduler) RunOnce(ctx context.Context) (*analysis.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[INFO] running analysis for %s", s.Collector.Symbol)
	series, err := s.Collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	log.Printf("[INFO] %d points from %s", len(series.Points), series.Source)

	res, err := analysis.Run(series.Symbol, series.Points, s.Params)
	if err != nil {
		return nil, err
	}

	if _, err := io.WriteString(s.Options.Out, report.FormatSummary(res, s.Options.Precision)); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	if s.Options.Rows > 0 {
		if err := report.WriteTable(s.Options.Out, res, s.Options.Rows, s.Options.Precision); err != nil {
			return nil, fmt.Errorf("write table: %w", err)
		}
	}
	if s.Options.CSVPath != "" {
		if err := report.WriteCSVFile(s.Options.CSVPath, res); err != nil {
			return nil, err
		}
		log.Printf("[INFO] wrote %d rows to %s", len(res.Rows), s.Options.CSVPath)
	}
	s.trySend(notifier.FormatReport(res))
	return res, nil
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
