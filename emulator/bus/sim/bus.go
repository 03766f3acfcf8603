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
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/bus"
)

// Transition is one recorded change of the wired-AND line levels.
type Transition struct {
	At          time.Duration
	Clock, Data bool
	ByDevice    bool
}

// Bus is a pair of open-collector lines shared by the device and the host.
// A line is high only while neither side drives it.
type Bus struct {
	clock *Clock

	// EdgeCost is charged to the clock after every falling edge the device
	// drives, modelling the time the edge handler steals on real hardware.
	EdgeCost time.Duration

	devClk, devData   bool
	hostClk, hostData bool

	handlers []bus.EdgeHandler
	host     *Host

	Transitions []Transition
	Record      bool

	Indicator []bool
}

func NewBus(c *Clock) *Bus {
	return &Bus{
		clock:    c,
		devClk:   true,
		devData:  true,
		hostClk:  true,
		hostData: true,
	}
}

func (b *Bus) Clock() bool {
	return b.devClk && b.hostClk
}

func (b *Bus) Data() bool {
	return b.devData && b.hostData
}

func (b *Bus) SetClock(high bool) {
	falling := b.setClock(&b.devClk, high, true)
	if falling && b.EdgeCost > 0 {
		b.clock.Delay(b.EdgeCost)
	}
}

func (b *Bus) SetData(high bool) {
	b.setData(&b.devData, high, true)
}

func (b *Bus) OnClockEdge(h bus.EdgeHandler) {
	b.handlers = append(b.handlers, h)
}

func (b *Bus) SetIndicator(on bool) {
	b.Indicator = append(b.Indicator, on)
}

// IndicatorOn reports the last indicator level.
func (b *Bus) IndicatorOn() bool {
	if len(b.Indicator) == 0 {
		return false
	}
	return b.Indicator[len(b.Indicator)-1]
}

func (b *Bus) hostClock(high bool) {
	b.setClock(&b.hostClk, high, false)
}

func (b *Bus) hostDataLine(high bool) {
	b.setData(&b.hostData, high, false)
}

func (b *Bus) setClock(line *bool, high, device bool) (falling bool) {
	before := b.Clock()
	*line = high
	after := b.Clock()
	if before == after {
		return false
	}

	b.record(device)
	for _, h := range b.handlers {
		h(after)
	}
	if b.host != nil {
		b.host.edge(after, device)
	}
	return device && !after
}

func (b *Bus) setData(line *bool, high, device bool) {
	before := b.Data()
	*line = high
	if before != b.Data() {
		b.record(device)
	}
}

func (b *Bus) record(device bool) {
	if b.Record {
		b.Transitions = append(b.Transitions, Transition{
			At:       b.clock.Now(),
			Clock:    b.Clock(),
			Data:     b.Data(),
			ByDevice: device,
		})
	}
}
