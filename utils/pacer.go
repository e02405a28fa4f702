package utils

import "time"

// Pacer enforces a fixed pause between successive requests.
// The first call to Wait returns immediately; every later call sleeps for Delay.
type Pacer struct {
	Delay time.Duration

	sleep   func(time.Duration)
	started bool
}

// NewPacer creates a Pacer sleeping rateLimitMs milliseconds between calls.
func NewPacer(rateLimitMs int) *Pacer {
	return &Pacer{
		Delay: time.Duration(rateLimitMs) * time.Millisecond,
		sleep: time.Sleep,
	}
}

// WithSleep replaces the sleep function. Tests use it to record pauses.
func (p *Pacer) WithSleep(sleep func(time.Duration)) *Pacer {
	p.sleep = sleep
	return p
}

// Wait pauses before the next request unless it is the first one.
func (p *Pacer) Wait() {
	if !p.started {
		p.started = true
		return
	}
	if p.Delay > 0 {
		p.sleep(p.Delay)
	}
}
