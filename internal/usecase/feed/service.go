package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
	"newsfeed/internal/observability/tracing"
	"newsfeed/internal/usecase/ad"
	"newsfeed/internal/utils/text"
)

// BackendClient fetches raw page bodies from the news backend.
type BackendClient interface {
	FetchPage(ctx context.Context, path string, page int) ([]byte, error)
}

// FeedReader reads an external syndication feed into a page.
type FeedReader interface {
	ReadFeed(ctx context.Context, feedURL string) (*decode.Page, error)
}

// AdTracker starts the lifecycle of every ad handed out to a client.
type AdTracker interface {
	Track(a *entity.Advertisement) *ad.Lifecycle
}

// ContentFetchConfig controls article text enrichment.
type ContentFetchConfig struct {
	Parallelism int // Maximum number of concurrent content fetches
	Threshold   int // Minimum text length before fetching full content
}

// Service loads feed pages from configured sources.
type Service struct {
	Backend       BackendClient
	RSS           FeedReader
	Content       ContentFetcher // optional; nil disables enrichment
	Ads           AdTracker      // optional; nil leaves ads untracked
	contentConfig ContentFetchConfig
}

// NewService creates a feed Service. rss, content and ads may be nil.
func NewService(backend BackendClient, rss FeedReader, content ContentFetcher, ads AdTracker, cfg ContentFetchConfig) *Service {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return &Service{
		Backend:       backend,
		RSS:           rss,
		Content:       content,
		Ads:           ads,
		contentConfig: cfg,
	}
}

// Page loads one page of src.
//
// API sources are fetched from the backend and decoded; a body that is not
// valid JSON fails with decode.ErrPayloadCorrupted. RSS sources are read
// through the feed reader. Articles with short text are then enriched and ads
// are tracked.
func (s *Service) Page(ctx context.Context, src entity.Source, page int) (*decode.Page, error) {
	ctx, span := tracing.Start(ctx, "feed.Page",
		attribute.String("feed.source", src.Name),
		attribute.String("feed.source_type", src.SourceType),
		attribute.Int("feed.page", page),
	)
	defer span.End()

	p, err := s.load(ctx, src, page)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}

	s.enrich(ctx, p)
	s.track(p)

	span.SetAttributes(
		attribute.Int("feed.entries", len(p.Entries)),
		attribute.Int("feed.skipped", len(p.Skipped)),
	)
	return p, nil
}

func (s *Service) load(ctx context.Context, src entity.Source, page int) (*decode.Page, error) {
	switch strings.ToUpper(src.SourceType) {
	case "", entity.SourceTypeAPI:
		if s.Backend == nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, entity.SourceTypeAPI)
		}
		body, err := s.Backend.FetchPage(ctx, src.Path, page)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
		}
		p, err := decode.DecodePage(body)
		if err != nil {
			metrics.RecordBackendFetchError(src.Name, "corrupted")
			slog.Warn("backend returned undecodable page",
				slog.String("source", src.Name),
				slog.Int("bytes", len(body)),
				slog.Any("error", err))
			return nil, fmt.Errorf("decode %s: %w", src.Name, err)
		}
		return p, nil
	case entity.SourceTypeRSS:
		if s.RSS == nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, entity.SourceTypeRSS)
		}
		p, err := s.RSS.ReadFeed(ctx, src.Path)
		if err != nil {
			return nil, fmt.Errorf("read feed %s: %w", src.Name, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSourceType, src.SourceType)
	}
}

// enrich fills in article text from the article page when the backend sent
// less than the threshold. Failures keep the backend text.
func (s *Service) enrich(ctx context.Context, p *decode.Page) {
	if s.Content == nil {
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.contentConfig.Parallelism)

	for i := range p.Entries {
		a := p.Entries[i].Article
		if a == nil {
			continue
		}
		if text.CountRunes(a.Text) >= s.contentConfig.Threshold {
			metrics.RecordContentFetchSkipped()
			continue
		}
		target := a.TextURL
		if target == "" {
			target = a.URL
		}
		if target == "" {
			continue
		}
		eg.Go(func() error {
			s.enhanceArticle(egCtx, a, target)
			return nil
		})
	}
	_ = eg.Wait()
}

func (s *Service) enhanceArticle(ctx context.Context, a *entity.Article, target string) {
	start := time.Now()
	fetched, err := s.Content.FetchContent(ctx, target)
	dur := time.Since(start)

	if err != nil {
		metrics.RecordContentFetchFailed(dur)
		level := slog.LevelWarn
		if errors.Is(err, ErrPrivateIP) || errors.Is(err, ErrInvalidURL) {
			level = slog.LevelDebug
		}
		slog.Log(ctx, level, "content fetch failed, keeping backend text",
			slog.String("article_id", a.ID),
			slog.String("url", target),
			slog.Any("error", err))
		return
	}
	metrics.RecordContentFetchSuccess(dur)

	// Extracted text shorter than what the backend sent is usually a failed extraction.
	if text.CountRunes(fetched) > text.CountRunes(a.Text) {
		a.Text = fetched
	}
}

func (s *Service) track(p *decode.Page) {
	if s.Ads == nil {
		return
	}
	for i := range p.Entries {
		if adv := p.Entries[i].Advertisement; adv != nil {
			s.Ads.Track(adv)
		}
	}
}
