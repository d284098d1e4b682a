// Command feedcat decodes a feed page or a push payload and prints the
// normalized entries as JSON.
//
//	feedcat page.json
//	curl -s https://api.example.com/v2/news | feedcat
//	feedcat https://api.example.com/v2/news?page=2
//	feedcat --push message.json
//
// Entries that fail to decode are listed under "skipped". A corrupted payload
// exits with status 2.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/infra/backend"
	"newsfeed/internal/infra/reporter"
	"newsfeed/internal/observability/logging"
	"newsfeed/internal/resilience/retry"
	"newsfeed/internal/usecase/ad"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type options struct {
	Push        bool          `long:"push" description:"Input is push message data: a JSON object of string values"`
	Compact     bool          `short:"c" long:"compact" description:"Print compact JSON"`
	SimulateAds bool          `long:"simulate-ads" description:"Show and close every ad entry, logging the events a client would report"`
	CloseReason string        `long:"close-reason" default:"close_button" choice:"close_button" choice:"timer" choice:"click_through" choice:"load_failed" description:"Reason used by --simulate-ads"`
	Timeout     time.Duration `long:"timeout" default:"15s" description:"Timeout for URL input"`
	Retries     int           `long:"retries" default:"1" description:"Attempts for URL input"`
	LogLevel    string        `long:"log-level" env:"LOG_LEVEL" default:"warn" description:"Log level (debug, info, warn, error)"`
	Version     bool          `short:"v" long:"version" description:"Print the version and exit"`

	Args struct {
		Input string `positional-arg-name:"INPUT" description:"File path, http(s) URL, or - for stdin (default)"`
	} `positional-args:"yes"`
}

// output is what feedcat prints.
type output struct {
	Entries []entity.FeedEntry    `json:"entries"`
	Skipped []decode.SkippedEntry `json:"skipped,omitempty"`
}

const (
	exitOK        = 0
	exitUsage     = 1
	exitCorrupted = 2
	exitFailed    = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "feedcat"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return exitOK
		}
		fmt.Fprintf(stderr, "feedcat: %v\n", err)
		return exitUsage
	}
	if opts.Version {
		fmt.Fprintln(stdout, "feedcat", Version)
		return exitOK
	}

	logger := logging.NewLogger(logging.Options{Level: opts.LogLevel, Format: "text", Output: stderr})
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	data, err := readInput(ctx, opts, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "feedcat: %v\n", err)
		return exitFailed
	}

	out, err := decodeInput(opts.Push, data)
	if err != nil {
		fmt.Fprintf(stderr, "feedcat: %v\n", err)
		if errors.Is(err, decode.ErrPayloadCorrupted) {
			return exitCorrupted
		}
		return exitFailed
	}

	if opts.SimulateAds {
		reason, err := ad.ParseCloseReason(opts.CloseReason)
		if err != nil {
			fmt.Fprintf(stderr, "feedcat: %v\n", err)
			return exitUsage
		}
		events := logging.NewLogger(logging.Options{Level: "info", Format: "text", Output: stderr})
		simulateAds(context.Background(), events, out.Entries, reason)
	}

	enc := json.NewEncoder(stdout)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "feedcat: write output: %v\n", err)
		return exitFailed
	}
	return exitOK
}

func readInput(ctx context.Context, opts options, stdin io.Reader) ([]byte, error) {
	input := opts.Args.Input
	switch {
	case input == "" || input == "-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		client, err := backend.NewClient(backend.Config{
			Name:      "feedcat",
			BaseURL:   input,
			Timeout:   opts.Timeout,
			UserAgent: "feedcat/" + Version,
		}, nil)
		if err != nil {
			return nil, err
		}
		rc := retry.BackendConfig()
		rc.MaxAttempts = max(opts.Retries, 1)
		return client.WithRetryConfig(rc).FetchURL(ctx, input)
	default:
		return os.ReadFile(input)
	}
}

func decodeInput(push bool, data []byte) (*output, error) {
	if push {
		var msg map[string]string
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("push message: %w", err)
		}
		entry, err := decode.DecodePush(msg)
		if err != nil {
			return nil, err
		}
		return &output{Entries: []entity.FeedEntry{entry}}, nil
	}

	page, err := decode.DecodePage(data)
	if err != nil {
		return nil, err
	}
	return &output{Entries: page.Entries, Skipped: page.Skipped}, nil
}

// simulateAds walks every ad entry through shown and close, so the events a
// client would report appear in the log.
func simulateAds(ctx context.Context, logger *slog.Logger, entries []entity.FeedEntry, reason ad.CloseReason) {
	registry := ad.NewRegistry(reporter.Log{Logger: logger})
	defer registry.Shutdown()

	for _, e := range entries {
		if e.Kind != entity.KindAdvertisement || e.Advertisement == nil {
			continue
		}
		lc := registry.Track(e.Advertisement)
		if reason != ad.LoadFailed {
			lc.MarkShown(ctx)
		}
		if _, err := lc.Close(ctx, reason); err != nil {
			logger.Warn("ad close rejected", slog.String("entry", e.ID), slog.Any("error", err))
		}
	}
}
