// Package slo tracks the backend contract objectives the worker checks: how
// often a source answers with a decodable page, and how many of its entries
// the decoder has to drop.
package slo

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// AvailabilityObjective is the share of checks that must return a decodable page.
	AvailabilityObjective = 0.99

	// SkipRatioObjective is the largest acceptable share of skipped entries.
	SkipRatioObjective = 0.01

	// DefaultWindow is the number of recent checks kept per source.
	DefaultWindow = 24
)

var (
	// ContractAvailability is the windowed share of successful checks per source.
	ContractAvailability = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slo_contract_availability_ratio",
			Help: "Share of recent contract checks that returned a decodable page, target: 0.99",
		},
		[]string{"source"},
	)

	// ContractSkipRatio is the windowed share of skipped entries per source.
	ContractSkipRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slo_contract_skip_ratio",
			Help: "Share of recently decoded entries that were skipped, target: 0.01",
		},
		[]string{"source"},
	)

	// ContractBreached is 1 while a source misses either objective.
	ContractBreached = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slo_contract_breached",
			Help: "1 if the source currently misses a contract objective",
		},
		[]string{"source"},
	)
)

type sample struct {
	ok      bool
	entries int
	skipped int
}

// Status is the windowed view of one source.
type Status struct {
	Source       string  `json:"source"`
	Checks       int     `json:"checks"`
	Availability float64 `json:"availability"`
	SkipRatio    float64 `json:"skip_ratio"`
	Breached     bool    `json:"breached"`
}

// Tracker keeps the last window checks of each source and publishes the
// resulting ratios as gauges. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	window  int
	samples map[string][]sample
}

// NewTracker creates a Tracker. A window below 1 uses DefaultWindow.
func NewTracker(window int) *Tracker {
	if window < 1 {
		window = DefaultWindow
	}
	return &Tracker{window: window, samples: make(map[string][]sample)}
}

// Observe records one check. A failed check counts against availability only.
func (t *Tracker) Observe(source string, ok bool, entries, skipped int) Status {
	t.mu.Lock()
	s := append(t.samples[source], sample{ok: ok, entries: entries, skipped: skipped})
	if len(s) > t.window {
		s = s[len(s)-t.window:]
	}
	t.samples[source] = s
	st := summarize(source, s)
	t.mu.Unlock()

	ContractAvailability.WithLabelValues(source).Set(st.Availability)
	ContractSkipRatio.WithLabelValues(source).Set(st.SkipRatio)
	breached := 0.0
	if st.Breached {
		breached = 1
	}
	ContractBreached.WithLabelValues(source).Set(breached)
	return st
}

// Snapshot returns the status of every observed source, sorted by name.
func (t *Tracker) Snapshot() []Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Status, 0, len(t.samples))
	for source, s := range t.samples {
		out = append(out, summarize(source, s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func summarize(source string, s []sample) Status {
	var ok, entries, skipped int
	for _, x := range s {
		if !x.ok {
			continue
		}
		ok++
		entries += x.entries
		skipped += x.skipped
	}
	st := Status{Source: source, Checks: len(s)}
	if len(s) > 0 {
		st.Availability = float64(ok) / float64(len(s))
	}
	if total := entries + skipped; total > 0 {
		st.SkipRatio = float64(skipped) / float64(total)
	}
	st.Breached = st.Availability < AvailabilityObjective || st.SkipRatio > SkipRatioObjective
	return st
}
