package core

import "math"

// Cooldown gates a repeatable action by elapsed time.
// It is a pure function of timestamps: Ready(now) holds iff now-last >= Interval.
type Cooldown struct {
	Interval int64 // Milliseconds between actions
	last     int64 // Timestamp of the last Fire
}

// NewCooldown creates a gate that starts cooling down at now.
func NewCooldown(interval, now int64) Cooldown {
	return Cooldown{Interval: interval, last: now}
}

// NewReadyCooldown creates a gate that is ready immediately.
func NewReadyCooldown(interval int64) Cooldown {
	return Cooldown{Interval: interval, last: math.MinInt64 / 2}
}

// Ready reports whether the action may fire at now.
func (c Cooldown) Ready(now int64) bool {
	return now-c.last >= c.Interval
}

// Fire records that the action happened at now.
func (c *Cooldown) Fire(now int64) {
	c.last = now
}

// TryFire fires and returns true if the gate is ready.
func (c *Cooldown) TryFire(now int64) bool {
	if !c.Ready(now) {
		return false
	}
	c.last = now
	return true
}

// SetInterval changes the interval without touching the last timestamp.
func (c *Cooldown) SetInterval(interval int64) {
	c.Interval = interval
}

// Ramp shortens the interval by step, never going below floor.
func (c *Cooldown) Ramp(step, floor int64) {
	next := c.Interval - step
	if next < floor {
		next = floor
	}
	c.Interval = next
}

// Remaining returns milliseconds until Ready, or 0 if already ready.
func (c Cooldown) Remaining(now int64) int64 {
	r := c.Interval - (now - c.last)
	if r < 0 {
		return 0
	}
	return r
}
