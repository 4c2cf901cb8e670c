package core

// FrameClock tracks elapsed simulation time in milliseconds.
// It only moves when the owner advances it, so a suspended simulation
// accumulates no time.
type FrameClock struct {
	now   int64
	frame int64 // Frame delta in milliseconds
}

// NewFrameClock creates a clock for the given tick rate.
func NewFrameClock(tickRate int) FrameClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	frame := int64(1000 / tickRate)
	if frame < 1 {
		frame = 1
	}
	return FrameClock{frame: frame}
}

// Now returns elapsed milliseconds since start.
func (c FrameClock) Now() int64 {
	return c.now
}

// Delta returns the frame delta in milliseconds.
func (c FrameClock) Delta() int64 {
	return c.frame
}

// Tick advances the clock by one frame and returns the new time.
func (c *FrameClock) Tick() int64 {
	c.now += c.frame
	return c.now
}

// Advance moves the clock forward by ms.
func (c *FrameClock) Advance(ms int64) {
	if ms > 0 {
		c.now += ms
	}
}
