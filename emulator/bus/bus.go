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

// Package bus models the two open-collector PS/2 lines as seen from the
// keyboard side.
package bus

// State is the combined level of both lines. Bit 0 is the clock line and
// bit 1 the data line.
type State byte

const (
	BothLow   State = iota // clock low, data low
	ClockHigh              // clock high, data low
	DataHigh               // clock low, data high
	Idle                   // clock high, data high
)

func (s State) String() string {
	switch s {
	case BothLow:
		return "clk=0 data=0"
	case ClockHigh:
		return "clk=1 data=0"
	case DataHigh:
		return "clk=0 data=1"
	default:
		return "clk=1 data=1"
	}
}

// Bus gives access to the clock and data lines. A line reads true when it
// is high. Setting a line false drives it low, setting it true releases it
// and lets the pull-up (or the other side) decide the level.
type Bus interface {
	Clock() bool
	Data() bool
	SetClock(high bool)
	SetData(high bool)
}

// EdgeHandler is called on every clock line transition.
type EdgeHandler func(rising bool)

// EdgeSource is implemented by backends that can report clock transitions.
type EdgeSource interface {
	OnClockEdge(h EdgeHandler)
}

// Indicator is the single status output of the keyboard.
type Indicator interface {
	SetIndicator(on bool)
}

// Sample reads both lines. It never caches.
func Sample(b Bus) State {
	var s State
	if b.Clock() {
		s |= 1
	}
	if b.Data() {
		s |= 2
	}
	return s
}

type nullIndicator struct{}

func (nullIndicator) SetIndicator(bool) {}

// NullIndicator discards indicator changes.
var NullIndicator Indicator = nullIndicator{}
