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

package ps2

import (
	"sync/atomic"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/bus"
	"github.com/andreas-jonsson/virtualps2/emulator/timing"
)

// Monitor runs on every clock transition and raises the pending command
// flag when the host has held the clock low for longer than the request
// threshold with data low. It is the only code that runs outside the main
// loop; the flag and the low-phase start are shared through atomics.
type Monitor struct {
	bus   bus.Bus
	clock timing.Clock

	settle    time.Duration
	threshold time.Duration

	lowSince int64
	seenLow  int32
	pending  int32
}

func NewMonitor(b bus.Bus, c timing.Clock, t timing.Timing) *Monitor {
	return &Monitor{
		bus:       b,
		clock:     c,
		settle:    t.Settle,
		threshold: t.HostRequest,
	}
}

// Edge is the clock transition handler.
func (m *Monitor) Edge(rising bool) {
	now := m.clock.Now()
	if !rising {
		atomic.StoreInt64(&m.lowSince, int64(now+m.settle))
		atomic.StoreInt32(&m.seenLow, 1)
		return
	}
	// A rise without a falling edge before it has no low time to measure.
	if atomic.SwapInt32(&m.seenLow, 0) == 0 {
		return
	}

	low := now - time.Duration(atomic.LoadInt64(&m.lowSince))
	if low > m.threshold && !m.bus.Data() {
		atomic.StoreInt32(&m.pending, 1)
	}
}

// Pending reports whether a host command is waiting to be clocked in.
func (m *Monitor) Pending() bool {
	return atomic.LoadInt32(&m.pending) != 0
}

func (m *Monitor) Clear() {
	atomic.StoreInt32(&m.pending, 0)
}

// Poll watches the clock line in a tight loop and calls Edge on every
// transition. It stands in for an edge interrupt on backends that cannot
// deliver one, and returns when done is closed.
func (m *Monitor) Poll(done <-chan struct{}) {
	last := m.bus.Clock()
	for i := 0; ; i++ {
		if i&0x3FF == 0 {
			select {
			case <-done:
				return
			default:
			}
		}
		if c := m.bus.Clock(); c != last {
			last = c
			m.Edge(c)
		}
	}
}
