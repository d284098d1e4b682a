package ad

import (
	"fmt"
	"strings"
)

// State is the display state of one ad instance.
type State int

const (
	// NotReady is the initial state: the asset has not been displayed yet.
	NotReady State = iota
	// ReadyToShow is accepted as a source state but no transition produces it.
	ReadyToShow
	// Showed means the asset was displayed and the impression was reported.
	Showed
	// Closed is terminal.
	Closed
)

var stateNames = []string{"not_ready", "ready_to_show", "showed", "closed"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CloseReason records why an ad was closed.
type CloseReason int

const (
	// CloseButton is the explicit close control.
	CloseButton CloseReason = iota + 1
	// Timer is the auto-close countdown reaching the skip time.
	Timer
	// ClickThrough is the user following the ad link.
	ClickThrough
	// LoadFailed is the asset failing to load. It is the only reason accepted before Showed.
	LoadFailed
)

var reasonNames = map[CloseReason]string{
	CloseButton:  "close_button",
	Timer:        "timer",
	ClickThrough: "click_through",
	LoadFailed:   "load_failed",
}

func (r CloseReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return ""
}

// MarshalText renders the reason by name.
func (r CloseReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseCloseReason maps a reason name to a CloseReason.
func ParseCloseReason(name string) (CloseReason, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range reasonNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReason, name)
}
