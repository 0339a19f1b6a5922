// Package pid implements the discrete-time PI regulator driving the
// follower's steering command, gated by a minimum sample period.
package pid

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Config holds the regulator's tunable gains and limits.
type Config struct {
	Kp       float64
	Ki       float64
	IMax     float64
	DeltaMax float64 // output saturation, reserved for limiting if reinstated
	EMax     float64 // reference error scale, reserved
	Ta       float64 // minimum sample period, seconds
}

// Controller is a stateful discrete PI regulator. It is not safe for
// concurrent use; the follower facade owns it exclusively.
type Controller struct {
	cfg      Config
	clock    clock.Clock
	integral float64
	lastTick time.Time
	hasTick  bool
}

// New constructs a Controller using the real wall clock.
func New(cfg Config) *Controller {
	return NewWithClock(cfg, clock.New())
}

// NewWithClock constructs a Controller against an injected clock, so tests
// can advance time deterministically instead of sleeping.
func NewWithClock(cfg Config, c clock.Clock) *Controller {
	return &Controller{cfg: cfg, clock: c}
}

// Reset zeroes the integrator and the sample-period timer. Called on every
// reconfigure and at goal start.
func (c *Controller) Reset() {
	c.integral = 0
	c.hasTick = false
}

// Tick computes the next steering delta from error e. It returns
// ok == false when fewer than Ta seconds have elapsed since the previous
// accepted tick; the caller must keep using the previously issued command
// in that case. The very first call after construction or Reset is always
// accepted, using dt = Ta for the integral contribution since there is no
// prior tick to measure elapsed time against.
func (c *Controller) Tick(e float64) (delta float64, ok bool) {
	now := c.clock.Now()

	dt := c.cfg.Ta
	if c.hasTick {
		dt = now.Sub(c.lastTick).Seconds()
		if dt < c.cfg.Ta {
			return 0, false
		}
	}

	c.integral = clampAbs(c.integral+dt*e, c.cfg.IMax)
	c.lastTick = now
	c.hasTick = true

	return c.cfg.Kp*e + c.cfg.Ki*c.integral, true
}

// Integral returns the current clamped integrator value, |i| <= IMax.
func (c *Controller) Integral() float64 {
	return c.integral
}

func clampAbs(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
