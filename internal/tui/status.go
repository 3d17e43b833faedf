package tui

import (
	"time"

	"github.com/colonyops/mort/internal/core/browse"
)

const (
	defaultStatusTTL   = 5 * time.Second
	statusTickInterval = 100 * time.Millisecond
)

type statusTickMsg struct{}

// StatusController keeps the latest notification on the status line until
// its TTL runs out. A newer notification replaces the current one.
type StatusController struct {
	current   *browse.Notify
	remaining time.Duration
	ticking   bool
}

func NewStatusController() *StatusController {
	return &StatusController{}
}

// Push shows n for the default TTL.
func (c *StatusController) Push(n browse.Notify) {
	c.current = &n
	c.remaining = defaultStatusTTL
}

// Tick counts down the TTL by d and drops the notification once expired.
func (c *StatusController) Tick(d time.Duration) {
	if c.current == nil {
		return
	}
	c.remaining -= d
	if c.remaining <= 0 {
		c.current = nil
	}
}

// Dismiss clears the status line.
func (c *StatusController) Dismiss() {
	c.current = nil
}

// Current returns the notification on display, if any.
func (c *StatusController) Current() (browse.Notify, bool) {
	if c.current == nil {
		return browse.Notify{}, false
	}
	return *c.current, true
}

// Ticking returns whether the tick timer is currently running.
func (c *StatusController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *StatusController) SetTicking(v bool) {
	c.ticking = v
}
