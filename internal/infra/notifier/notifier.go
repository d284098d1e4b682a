// Package notifier delivers contract alerts to chat webhooks. Slack and
// Discord are supported; both can be enabled at once through Multi.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"newsfeed/internal/usecase/contract"
	pkgconfig "newsfeed/pkg/config"
)

// Config configures one webhook.
type Config struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// SlackConfigFromEnv reads SLACK_ENABLED, SLACK_WEBHOOK_URL and NOTIFY_TIMEOUT.
// An invalid URL disables the notifier with a warning.
func SlackConfigFromEnv(logger *slog.Logger) Config {
	return configFromEnv(logger, "SLACK", "hooks.slack.com", "/services/")
}

// DiscordConfigFromEnv reads DISCORD_ENABLED, DISCORD_WEBHOOK_URL and NOTIFY_TIMEOUT.
// An invalid URL disables the notifier with a warning.
func DiscordConfigFromEnv(logger *slog.Logger) Config {
	return configFromEnv(logger, "DISCORD", "discord.com", "/api/webhooks/")
}

func configFromEnv(logger *slog.Logger, prefix, host, pathPrefix string) Config {
	if !pkgconfig.GetEnvBool(prefix+"_ENABLED", false) {
		return Config{}
	}
	webhookURL := pkgconfig.GetEnvString(prefix+"_WEBHOOK_URL", "")
	if err := validateWebhookURL(webhookURL, host, pathPrefix); err != nil {
		logger.Warn("invalid webhook URL, disabling notifications",
			slog.String("notifier", strings.ToLower(prefix)),
			slog.Any("error", err))
		return Config{}
	}
	return Config{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    pkgconfig.GetEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
	}
}

func validateWebhookURL(raw, host, pathPrefix string) error {
	if raw == "" {
		return errors.New("webhook URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse webhook URL: %w", err)
	}
	if u.Scheme != "https" {
		return errors.New("webhook URL must use https")
	}
	if u.Host != host {
		return fmt.Errorf("webhook host must be %s, got %q", host, u.Host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		return fmt.Errorf("webhook path must start with %s", pathPrefix)
	}
	return nil
}

// Noop drops every alert.
type Noop struct{}

func (Noop) Notify(context.Context, contract.Alert) error { return nil }

// Multi sends each alert to every notifier and joins their errors.
func Multi(notifiers ...contract.Notifier) contract.Notifier {
	switch len(notifiers) {
	case 0:
		return Noop{}
	case 1:
		return notifiers[0]
	}
	return multi(notifiers)
}

type multi []contract.Notifier

func (m multi) Notify(ctx context.Context, a contract.Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// headline is the one-line summary shared by every format.
func headline(a contract.Alert) string {
	if a.Kind == contract.AlertBreached {
		return fmt.Sprintf("Source %s is missing its contract objectives", a.Status.Source)
	}
	return fmt.Sprintf("Source %s recovered", a.Status.Source)
}

// details renders the windowed status and the last error.
func details(a contract.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Availability %.1f%% over %d checks, skipped entries %.2f%%",
		a.Status.Availability*100, a.Status.Checks, a.Status.SkipRatio*100)
	if a.LastError != "" {
		fmt.Fprintf(&b, "\nLast error: %s", a.LastError)
	}
	return b.String()
}
