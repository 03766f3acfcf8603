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

package sim

import (
	"fmt"
	"math/bits"
	"time"
)

const frameTimeout = 2 * time.Millisecond

// Frame is one device-to-host byte as decoded by the host.
type Frame struct {
	Value    byte
	Parity   bool
	ParityOK bool
	StopOK   bool

	// Edges holds the time of each of the 11 falling clock edges.
	Edges []time.Duration
}

func (f Frame) String() string {
	return fmt.Sprintf("0x%02X", f.Value)
}

// Step is one scripted host command together with the number of device
// frames the host waits for before moving on.
type Step struct {
	Cmd     byte
	Replies int
}

// Host plays the motherboard side of the bus. It samples device frames on
// falling clock edges, and sends commands with the request-to-send sequence
// followed by data bits clocked by the device.
type Host struct {
	bus   *Bus
	clock *Clock

	// Inhibit is how long the clock is held low to request to send.
	Inhibit time.Duration
	// Gap is the pause between a completed reply and the next scripted step.
	Gap time.Duration

	Frames  []Frame
	Sent    []byte
	Unacked []byte
	OnFrame func(Frame)

	sending bool
	txByte  byte
	txEdge  int

	rxBits   int
	rxVal    uint16
	rxEdges  []time.Duration
	lastEdge time.Duration

	script  []Step
	waiting int
}

// NewHost attaches a host model to b.
func NewHost(b *Bus) *Host {
	h := &Host{
		bus:     b,
		clock:   b.clock,
		Inhibit: 120 * time.Microsecond,
		Gap:     500 * time.Microsecond,
	}
	b.host = h
	return h
}

// Send starts a request-to-send for cmd at the current time.
func (h *Host) Send(cmd byte) {
	now := h.clock.Now()
	h.bus.hostClock(false)
	h.clock.At(now+h.Inhibit-10*time.Microsecond, func() {
		h.bus.hostDataLine(false)
	})
	h.clock.At(now+h.Inhibit, func() {
		h.sending = true
		h.txByte = cmd
		h.txEdge = 0
		h.bus.hostClock(true)
	})
}

// HoldClock pulls the clock low for d and releases it again, optionally
// holding data low over the same period. No byte follows.
func (h *Host) HoldClock(d time.Duration, dataLow bool) {
	now := h.clock.Now()
	h.bus.hostClock(false)
	if dataLow {
		h.bus.hostDataLine(false)
	}
	h.clock.At(now+d, func() {
		h.bus.hostClock(true)
	})
	if dataLow {
		h.clock.At(now+d+50*time.Microsecond, func() {
			h.bus.hostDataLine(true)
		})
	}
}

// Run queues steps. The first one is sent right away if the host is quiet.
func (h *Host) Run(steps ...Step) {
	h.script = append(h.script, steps...)
	if h.waiting == 0 && !h.sending {
		h.next()
	}
}

// Done reports whether the script has completed.
func (h *Host) Done() bool {
	return len(h.script) == 0 && h.waiting == 0 && !h.sending
}

func (h *Host) Bytes() []byte {
	b := make([]byte, len(h.Frames))
	for i, f := range h.Frames {
		b[i] = f.Value
	}
	return b
}

func (h *Host) Reset() {
	h.Frames = nil
	h.Sent = nil
	h.Unacked = nil
}

func (h *Host) next() {
	if len(h.script) == 0 {
		return
	}
	st := h.script[0]
	h.script = h.script[1:]
	h.waiting = st.Replies
	h.Send(st.Cmd)
}

func (h *Host) edge(rising, device bool) {
	if rising || !device {
		return
	}
	now := h.clock.Now()

	if h.sending {
		h.txEdge++
		switch {
		case h.txEdge <= 8:
			h.bus.hostDataLine(h.txByte>>(h.txEdge-1)&1 == 1)
		case h.txEdge == 9:
			h.bus.hostDataLine(bits.OnesCount8(h.txByte)%2 == 0)
		case h.txEdge == 10:
			h.bus.hostDataLine(true)
		case h.txEdge == 11:
			h.sending = false
			if h.bus.Data() {
				h.Unacked = append(h.Unacked, h.txByte)
			} else {
				h.Sent = append(h.Sent, h.txByte)
			}
			if h.waiting == 0 {
				h.clock.After(h.Gap, h.next)
			}
		}
		return
	}

	if h.rxBits > 0 && now-h.lastEdge > frameTimeout {
		h.rxBits = 0
		h.rxVal = 0
		h.rxEdges = nil
	}
	if h.rxBits == 0 && h.bus.Data() {
		return
	}

	h.lastEdge = now
	h.rxEdges = append(h.rxEdges, now)
	if h.bus.Data() {
		h.rxVal |= 1 << uint(h.rxBits)
	}
	h.rxBits++

	if h.rxBits == 11 {
		f := Frame{
			Value:  byte(h.rxVal >> 1),
			Parity: h.rxVal&(1<<9) != 0,
			StopOK: h.rxVal&(1<<10) != 0,
			Edges:  h.rxEdges,
		}
		ones := bits.OnesCount8(f.Value)
		if f.Parity {
			ones++
		}
		f.ParityOK = ones%2 == 1

		h.rxBits = 0
		h.rxVal = 0
		h.rxEdges = nil
		h.frame(f)
	}
}

func (h *Host) frame(f Frame) {
	h.Frames = append(h.Frames, f)
	if h.OnFrame != nil {
		h.OnFrame(f)
	}
	if h.waiting > 0 {
		h.waiting--
		if h.waiting == 0 {
			h.clock.After(h.Gap, h.next)
		}
	}
}
