// Package contract checks that every configured source still answers with a
// page the decoder understands. It backs the worker's scheduled run.
package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/slo"
	"newsfeed/internal/observability/tracing"
)

// SourceLister returns the sources to check.
type SourceLister interface {
	ListActive(ctx context.Context) ([]entity.Source, error)
}

// PageLoader loads and decodes one page of a source.
type PageLoader interface {
	Page(ctx context.Context, src entity.Source, page int) (*decode.Page, error)
}

// Result is the outcome of checking one source.
type Result struct {
	Source   string
	Entries  int
	Skipped  int
	Kinds    map[string]int
	Fields   map[string]int // skipped entries by failing field
	Duration time.Duration
	Err      error
}

// OK reports whether the source returned a decodable page.
func (r Result) OK() bool { return r.Err == nil }

// Report summarizes one run.
type Report struct {
	Results  []Result
	Sources  int
	Failed   int
	Entries  int
	Skipped  int
	Breached []string
	Duration time.Duration
}

// Monitor fetches the first page of every active source and records how well
// it decodes.
type Monitor struct {
	Sources     SourceLister
	Pages       PageLoader
	Tracker     *slo.Tracker // optional
	Parallelism int
	Timeout     time.Duration // per source; zero means no limit
}

// Run checks all active sources. Individual source failures end up in the
// report; only listing the sources or cancellation fails the run.
func (m *Monitor) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	srcs, err := m.Sources.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}

	limit := m.Parallelism
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(srcs))
	var mu sync.Mutex
	var breached []string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, src := range srcs {
		eg.Go(func() error {
			res := m.check(egCtx, src)
			results[i] = res
			if m.Tracker != nil {
				if st := m.Tracker.Observe(src.Name, res.OK(), res.Entries, res.Skipped); st.Breached {
					mu.Lock()
					breached = append(breached, src.Name)
					mu.Unlock()
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("contract run: %w", err)
	}

	report := &Report{Results: results, Sources: len(srcs), Breached: breached, Duration: time.Since(start)}
	for _, r := range results {
		if !r.OK() {
			report.Failed++
			continue
		}
		report.Entries += r.Entries
		report.Skipped += r.Skipped
	}

	slog.Info("contract check completed",
		slog.Int("sources", report.Sources),
		slog.Int("failed", report.Failed),
		slog.Int("entries", report.Entries),
		slog.Int("skipped", report.Skipped),
		slog.Any("breached", report.Breached),
		slog.Duration("duration", report.Duration))
	return report, nil
}

func (m *Monitor) check(ctx context.Context, src entity.Source) Result {
	ctx, span := tracing.Start(ctx, "contract.Check", attribute.String("feed.source", src.Name))
	defer span.End()

	start := time.Now()
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	res := Result{Source: src.Name}
	page, err := m.Pages.Page(ctx, src, 1)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		tracing.Fail(span, err)
		level := slog.LevelWarn
		if errors.Is(err, decode.ErrPayloadCorrupted) {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "contract check failed",
			slog.String("source", src.Name),
			slog.String("path", src.Path),
			slog.Any("error", err))
		return res
	}

	res.Entries = len(page.Entries)
	res.Skipped = len(page.Skipped)
	span.SetAttributes(
		attribute.Int("feed.entries", res.Entries),
		attribute.Int("feed.skipped", res.Skipped),
	)
	res.Kinds = make(map[string]int)
	for _, e := range page.Entries {
		res.Kinds[e.Kind.String()]++
	}
	if len(page.Skipped) > 0 {
		res.Fields = make(map[string]int)
		for _, s := range page.Skipped {
			res.Fields[s.Field]++
		}
		slog.Warn("source drops entries",
			slog.String("source", src.Name),
			slog.Int("skipped", res.Skipped),
			slog.Any("fields", res.Fields))
	}
	return res
}
