package runner

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Sink receives clipboard text.
type Sink interface {
	SetText(text string) error
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks. Tests substitute a fake.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules with time.AfterFunc.
var SystemClock Clock = systemClock{}

// ClearPolicy decides how a new timed copy interacts with a clear that is
// still pending from an earlier copy.
type ClearPolicy string

const (
	// ClearIndependent schedules one clear per copy. An older clear still
	// fires and may wipe a newer secret early.
	ClearIndependent ClearPolicy = "independent"
	// ClearSupersede cancels the pending clear before scheduling a new one.
	ClearSupersede ClearPolicy = "supersede"
)

// ParseClearPolicy validates a policy name. Empty means ClearIndependent.
func ParseClearPolicy(s string) (ClearPolicy, error) {
	switch ClearPolicy(s) {
	case "", ClearIndependent:
		return ClearIndependent, nil
	case ClearSupersede:
		return ClearSupersede, nil
	default:
		return "", fmt.Errorf("unknown clear policy: %s", s)
	}
}

// DefaultClearDelay is how long a copied secret stays on the clipboard.
const DefaultClearDelay = 5 * time.Second

// Clipboard copies text to a sink, optionally clearing it after a delay.
type Clipboard struct {
	sink   Sink
	clock  Clock
	delay  time.Duration
	policy ClearPolicy
	logger *slog.Logger

	mu      sync.Mutex
	pending Timer
	wg      sync.WaitGroup
}

// NewClipboard creates a clipboard over sink. Zero delay means
// DefaultClearDelay and a nil clock means SystemClock.
func NewClipboard(sink Sink, clock Clock, delay time.Duration, policy ClearPolicy, logger *slog.Logger) *Clipboard {
	if clock == nil {
		clock = SystemClock
	}
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	if policy == "" {
		policy = ClearIndependent
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Clipboard{sink: sink, clock: clock, delay: delay, policy: policy, logger: logger}
}

// Delay returns the auto-clear delay.
func (c *Clipboard) Delay() time.Duration { return c.delay }

// Copy sets the clipboard without scheduling a clear.
func (c *Clipboard) Copy(text string) error {
	if err := c.sink.SetText(text); err != nil {
		return fmt.Errorf("failed to set clipboard: %w", err)
	}
	return nil
}

// CopyTimed sets the clipboard and schedules it to be overwritten with an
// empty string after the delay.
func (c *Clipboard) CopyTimed(text string) error {
	if err := c.Copy(text); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policy == ClearSupersede && c.pending != nil {
		if c.pending.Stop() {
			c.wg.Done()
		}
		c.pending = nil
	}

	c.wg.Add(1)
	var t Timer
	t = c.clock.AfterFunc(c.delay, func() {
		defer c.wg.Done()

		// Clipboard managers may keep the old value regardless.
		if err := c.sink.SetText(""); err != nil {
			c.logger.Warn("clipboard clear failed", "error", err)
		} else {
			c.logger.Debug("clipboard cleared")
		}

		c.mu.Lock()
		if c.pending == t {
			c.pending = nil
		}
		c.mu.Unlock()
	})
	c.pending = t
	return nil
}

// Stop cancels the pending clear under ClearSupersede. Independent clears
// are fire-and-forget and keep running.
func (c *Clipboard) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policy != ClearSupersede || c.pending == nil {
		return
	}
	if c.pending.Stop() {
		c.wg.Done()
	}
	c.pending = nil
}

// Wait blocks until every scheduled clear has fired or been cancelled.
func (c *Clipboard) Wait() {
	c.wg.Wait()
}
