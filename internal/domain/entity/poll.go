package entity

import (
	"fmt"
	"math"
)

// PollOption is one choice of a poll.
type PollOption struct {
	ID      string `json:"item_id"`
	Label   string `json:"title"`
	Votes   int64  `json:"num"`
	Percent string `json:"percent"`
}

// Poll is the payload of a poll entry.
// Selected is local interaction state and is the only field mutated after decode.
type Poll struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	WebTitle     string       `json:"web_title,omitempty"`
	ShortText    string       `json:"short_text,omitempty"`
	Text         string       `json:"text"`
	Icon         string       `json:"icon,omitempty"`
	Date         int64        `json:"date"`
	URL          string       `json:"url,omitempty"`
	StartDate    int64        `json:"start_date,omitempty"`
	TillDate     int64        `json:"till_date,omitempty"`
	TillDateISO  string       `json:"till_date_iso,omitempty"`
	PNID         string       `json:"pnid,omitempty"`
	ViewCount    int64        `json:"view_count"`
	CommentCount int64        `json:"comment_count"`
	CanVote      bool         `json:"can_vote"`
	NoAuth       bool         `json:"no_auth"`
	HideResult   bool         `json:"hide_result"`
	Image        *ImageRef    `json:"image,omitempty"`
	InfoMsg      string       `json:"info_msg,omitempty"`
	InfoURL      string       `json:"info_url,omitempty"`
	AuthMsg      string       `json:"auth_msg,omitempty"`
	TotalVotes   int64        `json:"total_votes"`
	Options      []PollOption `json:"options"`
	Selected     string       `json:"selected,omitempty"`
}

// Select records the user's choice. It fails when voting is closed or the
// option does not belong to the poll.
func (p *Poll) Select(optionID string) error {
	if !p.CanVote {
		return ErrVotingClosed
	}
	for _, o := range p.Options {
		if o.ID == optionID {
			p.Selected = optionID
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
}

// VoteSum returns the sum of the option vote counts.
func (p *Poll) VoteSum() int64 {
	var sum int64
	for _, o := range p.Options {
		sum += o.Votes
	}
	return sum
}

// PercentConsistent reports whether option votes add up to TotalVotes.
// The backend does not guarantee this; the result is advisory only.
func (p *Poll) PercentConsistent() bool {
	return p.VoteSum() == p.TotalVotes
}

// FormatPercent renders votes as a share of total, e.g. "42%". A zero total yields "0%".
func FormatPercent(votes, total int64) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int64(math.Round(float64(votes)*100/float64(total))))
}
