/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package timing holds the bus timing constants and the clock the engine
// busy-waits on.
package timing

import (
	"time"
)

// Clock is a monotonic time source with microsecond resolution.
// Delay blocks the caller until the deadline has passed; it never yields
// early and is never cancelled.
type Clock interface {
	Now() time.Duration
	Delay(d time.Duration)
}

type Timing struct {
	HalfPhase      time.Duration `toml:"half_phase"`
	HandlerCost    time.Duration `toml:"handler_cost"`
	Settle         time.Duration `toml:"settle"`
	HostRequest    time.Duration `toml:"host_request"`
	ByteDelay      time.Duration `toml:"byte_delay"`
	AckDelay       time.Duration `toml:"ack_delay"`
	ResponseWindow time.Duration `toml:"response_window"`
	ResetDelay     time.Duration `toml:"reset_delay"`
	PowerUp        time.Duration `toml:"power_up"`
	RepeatInterval time.Duration `toml:"repeat_interval"`
	RepeatGap      time.Duration `toml:"repeat_gap"`
	Poll           time.Duration `toml:"poll"`
}

// Default is calibrated for an edge handler that runs inline with the
// bit-banging loop and holds every falling edge for HandlerCost. Backends
// that poll the clock from a separate goroutine run with HandlerCost zeroed.
var Default = Timing{
	HalfPhase:      20 * time.Microsecond,
	HandlerCost:    5 * time.Microsecond,
	Settle:         5 * time.Microsecond,
	HostRequest:    100 * time.Microsecond,
	ByteDelay:      time.Millisecond,
	AckDelay:       50 * time.Microsecond,
	ResponseWindow: time.Millisecond,
	ResetDelay:     500 * time.Millisecond,
	PowerUp:        2 * time.Second,
	RepeatInterval: 270 * time.Millisecond,
	RepeatGap:      40 * time.Millisecond,
	Poll:           10 * time.Microsecond,
}

// LowPhase is how long the transmitter itself holds the clock low.
// The edge handler's cost makes up the rest of the half period.
func (t Timing) LowPhase() time.Duration {
	if t.HandlerCost >= t.HalfPhase {
		return 0
	}
	return t.HalfPhase - t.HandlerCost
}

func (t Timing) HighPhase() time.Duration {
	return t.HalfPhase
}

func (t Timing) BitCell() time.Duration {
	return 2 * t.HalfPhase
}

// Delays longer than this sleep first and spin for the remainder.
const spinWindow = 200 * time.Microsecond

type Monotonic struct {
	start time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (c *Monotonic) Now() time.Duration {
	return time.Since(c.start)
}

func (c *Monotonic) Delay(d time.Duration) {
	deadline := c.Now() + d
	if d > spinWindow {
		time.Sleep(d - spinWindow)
	}
	for c.Now() < deadline {
	}
}
