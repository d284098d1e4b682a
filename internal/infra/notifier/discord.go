package notifier

import (
	"context"
	"time"

	"newsfeed/internal/usecase/contract"
)

// Discord posts alerts to a Discord webhook as embeds.
type Discord struct {
	hook *webhook
}

// NewDiscord creates a Discord notifier limited to 30 messages per minute.
func NewDiscord(cfg Config) *Discord {
	return &Discord{hook: newWebhook("discord", cfg, 0.5, 3)}
}

// DiscordPayload is the webhook body.
type DiscordPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter is the embed footer.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxDiscordTitle       = 256
	maxDiscordDescription = 4096

	discordRed   = 15548997 // #ED4245
	discordGreen = 5763719  // #57F287
)

func buildDiscordPayload(a contract.Alert) DiscordPayload {
	color := discordRed
	if a.Kind == contract.AlertRecovered {
		color = discordGreen
	}
	return DiscordPayload{Embeds: []DiscordEmbed{{
		Title:       truncate(headline(a), maxDiscordTitle),
		Description: truncate(details(a), maxDiscordDescription),
		Color:       color,
		Footer:      DiscordEmbedFooter{Text: a.Status.Source},
		Timestamp:   a.At.UTC().Format(time.RFC3339),
	}}}
}

// Notify posts a.
func (d *Discord) Notify(ctx context.Context, a contract.Alert) error {
	return d.hook.send(ctx, a.Status.Source, buildDiscordPayload(a))
}
