package ad_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/usecase/ad"
)

// recordingReporter collects reported events.
type recordingReporter struct {
	mu     sync.Mutex
	events []ad.Event
	err    error
}

func (r *recordingReporter) Report(_ context.Context, ev ad.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingReporter) count(typ ad.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// manualClock delivers ticks only when the test calls Tick.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) NewTicker(time.Duration) ad.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	m.tickers = append(m.tickers, t)
	return t
}

// Tick delivers one tick to the most recent ticker. It reports false when the
// ticker was stopped instead of receiving the tick.
func (m *manualClock) Tick() bool {
	m.mu.Lock()
	m.now = m.now.Add(time.Second)
	t := m.tickers[len(m.tickers)-1]
	now := m.now
	m.mu.Unlock()

	select {
	case t.c <- now:
		return true
	case <-t.stopped:
		return false
	}
}

func (m *manualClock) tickerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

func (t *manualTicker) C() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }

func newAd(p entity.Placement) *entity.Advertisement {
	return &entity.Advertisement{AdID: 5, BannerID: 17, Placement: p, InstanceID: "inst-1"}
}

func TestLifecycle_MarkShownTwiceReportsOnce(t *testing.T) {
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementFeedTop), rep)

	assert.True(t, lc.MarkShown(context.Background()))
	assert.False(t, lc.MarkShown(context.Background()))

	assert.Equal(t, ad.Showed, lc.State())
	assert.Equal(t, 1, rep.count(ad.EventImpression))

	ev := rep.events[0]
	assert.Equal(t, "inst-1", ev.InstanceID)
	assert.Equal(t, int64(5), ev.AdID)
	assert.Equal(t, int64(17), ev.BannerID)
}

func TestLifecycle_CloseTwiceReportsOnce(t *testing.T) {
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementFeedTop), rep)
	lc.MarkShown(context.Background())

	closed, err := lc.Close(context.Background(), ad.CloseButton)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = lc.Close(context.Background(), ad.ClickThrough)
	require.NoError(t, err)
	assert.False(t, closed)

	assert.Equal(t, ad.Closed, lc.State())
	assert.Equal(t, ad.CloseButton, lc.Reason())
	assert.Equal(t, 1, rep.count(ad.EventClose))
}

func TestLifecycle_MarkShownAfterCloseIsNoop(t *testing.T) {
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementFeedTop), rep)

	_, err := lc.Close(context.Background(), ad.LoadFailed)
	require.NoError(t, err)

	assert.False(t, lc.MarkShown(context.Background()))
	assert.Equal(t, 0, rep.count(ad.EventImpression))
	assert.Equal(t, 1, rep.count(ad.EventClose))
}

func TestLifecycle_CloseBeforeShown(t *testing.T) {
	for _, reason := range []ad.CloseReason{ad.CloseButton, ad.Timer, ad.ClickThrough} {
		lc := ad.NewLifecycle(newAd(entity.PlacementFeedTop), nil)
		closed, err := lc.Close(context.Background(), reason)
		assert.False(t, closed)
		assert.True(t, errors.Is(err, ad.ErrInvalidTransition), "reason %s", reason)
		assert.Equal(t, ad.NotReady, lc.State())
	}
}

func TestLifecycle_ReporterFailureKeepsTransition(t *testing.T) {
	rep := &recordingReporter{err: errors.New("sink down")}
	lc := ad.NewLifecycle(newAd(entity.PlacementFeedTop), rep)

	assert.True(t, lc.MarkShown(context.Background()))
	assert.False(t, lc.MarkShown(context.Background()))
	assert.Equal(t, ad.Showed, lc.State())
	assert.Equal(t, 1, rep.count(ad.EventImpression))
}

func TestLifecycle_CountdownAutoCloses(t *testing.T) {
	clock := newManualClock()
	rep := &recordingReporter{}
	skip := int64(3)
	a := newAd(entity.PlacementFullscreen)
	a.SkipTime = &skip

	lc := ad.NewLifecycle(a, rep, ad.WithClock(clock))
	lc.MarkShown(context.Background())
	assert.Equal(t, int64(3), lc.Remaining())

	require.True(t, clock.Tick())
	require.True(t, clock.Tick())
	assert.Equal(t, ad.Showed, lc.State())
	require.True(t, clock.Tick())

	require.Eventually(t, func() bool { return lc.State() == ad.Closed }, time.Second, time.Millisecond)
	assert.Equal(t, ad.Timer, lc.Reason())
	assert.Equal(t, 1, rep.count(ad.EventClose))

	lc.Teardown()
	assert.False(t, clock.Tick(), "ticker must be stopped after auto-close")
}

func TestLifecycle_DefaultSkipTime(t *testing.T) {
	clock := newManualClock()
	lc := ad.NewLifecycle(newAd(entity.PlacementSplash), nil, ad.WithClock(clock))
	lc.MarkShown(context.Background())

	assert.Equal(t, entity.DefaultSkipTime, lc.Remaining())
	for i := int64(0); i < entity.DefaultSkipTime; i++ {
		require.True(t, clock.Tick())
	}
	require.Eventually(t, func() bool { return lc.State() == ad.Closed }, time.Second, time.Millisecond)
}

func TestLifecycle_NonAutoClosingPlacementHasNoCountdown(t *testing.T) {
	clock := newManualClock()
	lc := ad.NewLifecycle(newAd(entity.PlacementSticky), nil, ad.WithClock(clock))
	lc.MarkShown(context.Background())

	assert.Equal(t, 0, clock.tickerCount())
	assert.Equal(t, int64(0), lc.Remaining())
}

func TestLifecycle_TeardownStopsCountdown(t *testing.T) {
	clock := newManualClock()
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementFullscreen), rep, ad.WithClock(clock))
	lc.MarkShown(context.Background())

	require.True(t, clock.Tick())
	lc.Teardown()

	assert.False(t, clock.Tick(), "no tick may be delivered after teardown")
	assert.Equal(t, ad.Showed, lc.State())
	assert.Equal(t, 0, rep.count(ad.EventClose))
}

func TestLifecycle_TeardownIsFinal(t *testing.T) {
	clock := newManualClock()
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementSplash), rep, ad.WithClock(clock))

	lc.Teardown()
	assert.True(t, lc.Released())

	assert.False(t, lc.MarkShown(context.Background()))
	assert.Equal(t, ad.NotReady, lc.State())
	assert.Equal(t, int64(0), lc.Remaining())
	assert.Equal(t, 0, clock.tickerCount(), "no countdown may start after teardown")

	closed, err := lc.Close(context.Background(), ad.LoadFailed)
	assert.False(t, closed)
	assert.ErrorIs(t, err, ad.ErrReleased)
	assert.Equal(t, 0, rep.count(ad.EventImpression))
	assert.Equal(t, 0, rep.count(ad.EventClose))
}

func TestLifecycle_ManualCloseStopsCountdown(t *testing.T) {
	clock := newManualClock()
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementFullscreen), rep, ad.WithClock(clock))
	lc.MarkShown(context.Background())

	_, err := lc.Close(context.Background(), ad.CloseButton)
	require.NoError(t, err)
	lc.Teardown()

	assert.False(t, clock.Tick())
	assert.Equal(t, 1, rep.count(ad.EventClose))
	assert.Equal(t, ad.CloseButton, lc.Reason())
}

func TestLifecycle_ConcurrentMarkShown(t *testing.T) {
	rep := &recordingReporter{}
	lc := ad.NewLifecycle(newAd(entity.PlacementFeedTop), rep)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lc.MarkShown(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rep.count(ad.EventImpression))
}

func TestParseCloseReason(t *testing.T) {
	r, err := ad.ParseCloseReason("Click_Through")
	require.NoError(t, err)
	assert.Equal(t, ad.ClickThrough, r)

	_, err = ad.ParseCloseReason("swipe")
	assert.ErrorIs(t, err, ad.ErrUnknownReason)
}

func TestFanout(t *testing.T) {
	a := &recordingReporter{}
	b := &recordingReporter{err: errors.New("b failed")}
	c := &recordingReporter{}

	err := ad.Fanout(a, b, c).Report(context.Background(), ad.Event{Type: ad.EventClose})

	require.Error(t, err)
	assert.Len(t, a.events, 1)
	assert.Len(t, c.events, 1)
}
