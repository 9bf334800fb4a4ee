package timer

import (
	"fmt"
	"sync"
	"time"
)

// Countdown is a per-session timer that counts whole seconds down to zero.
// A zero total means no limit: the countdown never runs and never expires.
//
// Each scheduled tick carries the generation it was scheduled in. Pause and
// Reset bump the generation and stop the pending tick, so a tick that is
// already queued when they run is discarded instead of decrementing.
type Countdown struct {
	mu sync.Mutex

	clock        Clock
	totalSeconds int
	secondsLeft  int
	running      bool
	expired      bool
	generation   uint64
	pending      Stopper

	onExpire func()
	onTick   func(secondsLeft int)
}

type Option func(*Countdown)

// WithClock replaces the runtime clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(t *Countdown) { t.clock = c }
}

// WithExpiryHandler is called once per countdown run when it reaches zero.
func WithExpiryHandler(f func()) Option {
	return func(t *Countdown) { t.onExpire = f }
}

// WithTickHandler is called after every decrement.
func WithTickHandler(f func(secondsLeft int)) Option {
	return func(t *Countdown) { t.onTick = f }
}

func NewCountdown(totalSeconds int, opts ...Option) *Countdown {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	t := &Countdown{
		clock:        RealClock(),
		totalSeconds: totalSeconds,
		secondsLeft:  totalSeconds,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Start begins or resumes the countdown. It is a no-op when already running,
// expired, or unlimited.
func (t *Countdown) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.expired || t.totalSeconds == 0 || t.secondsLeft == 0 {
		return
	}
	t.running = true
	t.scheduleLocked()
}

// Pause stops the countdown. The tick in flight, if any, is cancelled.
func (t *Countdown) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	t.cancelLocked()
}

// Reset stops the countdown, restores the full time and clears expiry.
func (t *Countdown) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.running = false
	t.expired = false
	t.secondsLeft = t.totalSeconds
}

func (t *Countdown) SecondsLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.secondsLeft
}

func (t *Countdown) TotalSeconds() int {
	return t.totalSeconds
}

func (t *Countdown) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Countdown) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expired
}

func (t *Countdown) Unlimited() bool {
	return t.totalSeconds == 0
}

func (t *Countdown) scheduleLocked() {
	gen := t.generation
	t.pending = t.clock.AfterFunc(time.Second, func() { t.tick(gen) })
}

func (t *Countdown) cancelLocked() {
	t.generation++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Countdown) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || !t.running {
		t.mu.Unlock()
		return
	}

	t.secondsLeft--
	fire := false
	if t.secondsLeft <= 0 {
		t.secondsLeft = 0
		t.running = false
		t.pending = nil
		fire = !t.expired
		t.expired = true
	} else {
		t.scheduleLocked()
	}
	left := t.secondsLeft
	onTick, onExpire := t.onTick, t.onExpire
	t.mu.Unlock()

	if onTick != nil {
		onTick(left)
	}
	if fire && onExpire != nil {
		onExpire()
	}
}

// Format renders seconds as mm:ss.
func Format(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
