package matchclock

import (
	"errors"
	"fmt"
	"time"
)

const (
	HalfLength  = 45 * time.Minute
	MaxStoppage = 15
)

var (
	ErrCannotAdvanceHalf = errors.New("cannot start second half")
	ErrNotInStoppage     = errors.New("stoppage time can only be adjusted during stoppage")
)

// State is the serializable form of a Clock.
type State struct {
	Half      int
	Elapsed   time.Duration
	Running   bool
	ResumedAt time.Time
	Stoppage  [2]int
}

// Clock tracks match time across two halves with announced stoppage time.
// It is not safe for concurrent use.
type Clock struct {
	now       func() time.Time
	half      int
	base      time.Duration
	running   bool
	resumedAt time.Time
	stoppage  [2]int
}

func New(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, half: 1}
}

func (c *Clock) Elapsed() time.Duration {
	if !c.running {
		return c.base
	}
	return c.base + c.now().Sub(c.resumedAt)
}

func (c *Clock) Running() bool {
	return c.running
}

func (c *Clock) Half() int {
	return c.half
}

// Start runs the clock. Calling it while running has no effect.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.resumedAt = c.now()
}

func (c *Clock) Pause() {
	if !c.running {
		return
	}
	c.base = c.Elapsed()
	c.running = false
}

func (c *Clock) Reset() {
	c.half = 1
	c.base = 0
	c.running = false
	c.resumedAt = time.Time{}
	c.stoppage = [2]int{}
}

// NextHalf moves a paused clock to the start of the second half once the
// first half and its announced stoppage have been played.
func (c *Clock) NextHalf() error {
	if c.half != 1 {
		return fmt.Errorf("%w: already in half %d", ErrCannotAdvanceHalf, c.half)
	}
	if c.running {
		return fmt.Errorf("%w: pause the clock first", ErrCannotAdvanceHalf)
	}
	required := HalfLength + time.Duration(c.stoppage[0])*time.Minute
	if c.base < required {
		return fmt.Errorf("%w: first half runs until %d minutes", ErrCannotAdvanceHalf, int(required/time.Minute))
	}
	c.half = 2
	c.base = HalfLength
	return nil
}

func (c *Clock) halfEnd() time.Duration {
	return time.Duration(c.half) * HalfLength
}

func (c *Clock) InStoppage() bool {
	return c.Elapsed() >= c.halfEnd()
}

// AdjustStoppage changes the announced stoppage of the current half by delta
// minutes, clamped to [0, MaxStoppage].
func (c *Clock) AdjustStoppage(delta int) (int, error) {
	if !c.InStoppage() {
		return 0, ErrNotInStoppage
	}
	idx := c.half - 1
	c.stoppage[idx] = min(max(c.stoppage[idx]+delta, 0), MaxStoppage)
	return c.stoppage[idx], nil
}

// Stoppage returns the announced stoppage minutes of the current half.
func (c *Clock) Stoppage() int {
	return c.stoppage[c.half-1]
}

// Minute is the whole match minute used to timestamp events.
func (c *Clock) Minute() int {
	return int(c.Elapsed() / time.Minute)
}

// Label renders the clock as MM:SS, or 45+N / 90+N during stoppage.
func (c *Clock) Label() string {
	elapsed := c.Elapsed()
	if end := c.halfEnd(); elapsed >= end {
		extra := int((elapsed - end) / time.Minute)
		return fmt.Sprintf("%d+%d", int(end/time.Minute), extra)
	}
	total := int(elapsed / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (c *Clock) State() State {
	return State{
		Half:      c.half,
		Elapsed:   c.base,
		Running:   c.running,
		ResumedAt: c.resumedAt,
		Stoppage:  c.stoppage,
	}
}

// Restore loads a saved state. A clock saved while running keeps counting
// from its original resume instant.
func (c *Clock) Restore(s State) {
	c.half = s.Half
	if c.half != 2 {
		c.half = 1
	}
	c.base = max(s.Elapsed, 0)
	c.running = s.Running && !s.ResumedAt.IsZero()
	c.resumedAt = s.ResumedAt
	for i, v := range s.Stoppage {
		c.stoppage[i] = min(max(v, 0), MaxStoppage)
	}
}
