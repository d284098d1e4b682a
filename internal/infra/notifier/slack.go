package notifier

import (
	"context"
	"fmt"
	"time"

	"newsfeed/internal/usecase/contract"
)

// Slack posts alerts to a Slack incoming webhook using Block Kit.
type Slack struct {
	hook *webhook
}

// NewSlack creates a Slack notifier limited to one message per second.
func NewSlack(cfg Config) *Slack {
	return &Slack{hook: newWebhook("slack", cfg, 1, 1)}
}

// SlackPayload is the incoming webhook body.
type SlackPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a Block Kit block.
type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

// SlackText is a Block Kit text object.
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSlackSection  = 3000
	maxSlackFallback = 150
)

func buildSlackPayload(a contract.Alert) SlackPayload {
	icon := ":red_circle:"
	if a.Kind == contract.AlertRecovered {
		icon = ":large_green_circle:"
	}
	title := headline(a)
	section := fmt.Sprintf("%s *%s*\n%s", icon, title, details(a))
	return SlackPayload{
		Text: truncate(title, maxSlackFallback),
		Blocks: []SlackBlock{
			{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: truncate(section, maxSlackSection)}},
			{Type: "context", Elements: []SlackText{{Type: "mrkdwn", Text: a.At.UTC().Format(time.RFC3339)}}},
		},
	}
}

// Notify posts a.
func (s *Slack) Notify(ctx context.Context, a contract.Alert) error {
	return s.hook.send(ctx, a.Status.Source, buildSlackPayload(a))
}
