package app

import "time"

// Ticker is the subset of *time.Ticker the countdown needs.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Clock creates tickers; tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type systemClock struct{}

type systemTicker struct{ t *time.Ticker }

func (systemClock) NewTicker(d time.Duration) Ticker { return systemTicker{t: time.NewTicker(d)} }

func (t systemTicker) Chan() <-chan time.Time { return t.t.C }
func (t systemTicker) Stop()                  { t.t.Stop() }

// SystemClock is backed by time.NewTicker.
var SystemClock Clock = systemClock{}

// Timer is the countdown's scheduled callback. It is owned by a single goroutine (the player
// loop), which selects on C; arming an armed timer does nothing, so re-rendering never adds a
// second ticker.
type Timer struct {
	clock  Clock
	period time.Duration
	ticker Ticker
}

func NewTimer(clock Clock, period time.Duration) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	if period <= 0 {
		period = time.Second
	}
	return &Timer{clock: clock, period: period}
}

func (t *Timer) Arm() {
	if t.ticker != nil {
		return
	}
	t.ticker = t.clock.NewTicker(t.period)
}

func (t *Timer) Disarm() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	t.ticker = nil
}

func (t *Timer) Armed() bool {
	return t.ticker != nil
}

// C is nil while disarmed, so a select on it blocks.
func (t *Timer) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.Chan()
}
