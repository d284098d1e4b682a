// Package rssfeed reads RSS/Atom feeds into the same page model the backend
// decoder produces, so syndicated sources can be served next to API sources.
package rssfeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/resilience/circuitbreaker"
	"newsfeed/internal/resilience/retry"
)

// Reader fetches and parses feeds with retry and a circuit breaker.
type Reader struct {
	client         *http.Client
	userAgent      string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	now            func() time.Time
}

// NewReader creates a Reader using client for HTTP.
func NewReader(client *http.Client, userAgent string) *Reader {
	if userAgent == "" {
		userAgent = "newsfeed/1.0"
	}
	return &Reader{
		client:         client,
		userAgent:      userAgent,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		now:            time.Now,
	}
}

// ReadFeed fetches feedURL and maps every item to an article entry.
func (r *Reader) ReadFeed(ctx context.Context, feedURL string) (*decode.Page, error) {
	feed, err := retry.Do(ctx, r.retryConfig, func() (*gofeed.Feed, error) {
		return circuitbreaker.Run(r.circuitBreaker, func() (*gofeed.Feed, error) {
			return r.fetch(ctx, feedURL)
		})
	})
	if err != nil {
		return nil, err
	}
	return r.toPage(feed), nil
}

func (r *Reader) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = r.userAgent
	fp.Client = r.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func (r *Reader) toPage(feed *gofeed.Feed) *decode.Page {
	page := &decode.Page{Entries: make([]entity.FeedEntry, 0, len(feed.Items))}

	for i, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			page.Skipped = append(page.Skipped, decode.SkippedEntry{
				Index:  i,
				ID:     it.GUID,
				Kind:   entity.KindArticle,
				Field:  "title",
				Reason: "missing",
			})
			continue
		}
		a := r.toArticle(it)
		page.Entries = append(page.Entries, entity.NewArticleEntry(a.ID, a.Title, a))
	}
	return page
}

func (r *Reader) toArticle(it *gofeed.Item) *entity.Article {
	id := it.GUID
	if id == "" {
		id = uuid.NewString()
	}

	published := r.now()
	if it.PublishedParsed != nil {
		published = *it.PublishedParsed
	}
	updated := published
	if it.UpdatedParsed != nil {
		updated = *it.UpdatedParsed
	}

	a := &entity.Article{
		ID:            id,
		Title:         strings.TrimSpace(it.Title),
		URL:           it.Link,
		TextURL:       it.Link,
		Timestamp:     published.Unix(),
		DatePublished: published.Unix(),
		DateUpdated:   updated.Unix(),
		ShortText:     it.Description,
	}

	// Content takes priority, Description is the fallback.
	html := it.Content
	if html == "" {
		html = it.Description
	}
	if html != "" {
		a.TextHTML = html
		a.Body = decode.NodesFromHTML(html)
	}

	if it.Image != nil && it.Image.URL != "" {
		a.Image = &entity.ImageRef{ID: uuid.NewString(), Title: it.Image.Title, Thumb: it.Image.URL}
	} else {
		for _, enc := range it.Enclosures {
			if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
				a.Image = &entity.ImageRef{ID: uuid.NewString(), Thumb: enc.URL}
				break
			}
		}
	}

	for _, c := range it.Categories {
		if c = strings.TrimSpace(c); c != "" {
			a.Tags = append(a.Tags, entity.Tag{ID: c, Title: c})
		}
	}
	return a
}
