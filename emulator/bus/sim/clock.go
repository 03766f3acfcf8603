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

// Package sim is a virtual PS/2 bus: two wired-AND lines, a virtual clock
// and a motherboard model on the other end.
package sim

import (
	"sort"
	"time"
)

type event struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// Clock is a virtual timing.Clock. Delay advances time and runs every
// scheduled event that falls due, in order.
type Clock struct {
	now    time.Duration
	seq    uint64
	events []event

	paced bool
	start time.Time
}

func NewClock() *Clock {
	return &Clock{}
}

// NewPacedClock returns a clock that never runs ahead of wall time by more
// than a millisecond.
func NewPacedClock() *Clock {
	return &Clock{paced: true, start: time.Now()}
}

func (c *Clock) Now() time.Duration {
	return c.now
}

func (c *Clock) Delay(d time.Duration) {
	c.AdvanceTo(c.now + d)
}

// At schedules fn to run when the clock reaches t. Events in the past run
// on the next advance.
func (c *Clock) At(t time.Duration, fn func()) {
	c.seq++
	ev := event{at: t, seq: c.seq, fn: fn}
	i := sort.Search(len(c.events), func(i int) bool {
		e := c.events[i]
		return e.at > t || (e.at == t && e.seq > ev.seq)
	})
	c.events = append(c.events, event{})
	copy(c.events[i+1:], c.events[i:])
	c.events[i] = ev
}

func (c *Clock) After(d time.Duration, fn func()) {
	c.At(c.now+d, fn)
}

func (c *Clock) Pending() int {
	return len(c.events)
}

func (c *Clock) AdvanceTo(t time.Duration) {
	for len(c.events) > 0 && c.events[0].at <= t {
		ev := c.events[0]
		c.events = c.events[1:]
		if ev.at > c.now {
			c.now = ev.at
		}
		ev.fn()
	}
	if t > c.now {
		c.now = t
	}

	if c.paced {
		if ahead := c.now - time.Since(c.start); ahead > time.Millisecond {
			time.Sleep(ahead)
		}
	}
}
