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
	"math/bits"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/bus"
)

// Parity returns the odd parity bit for b: set when b has an even number
// of ones.
func Parity(b byte) bool {
	return bits.OnesCount8(b)%2 == 0
}

// toggle clocks one bit cell.
func (m *Device) toggle() {
	m.bus.SetClock(false)
	m.clock.Delay(m.timing.LowPhase())
	m.bus.SetClock(true)
	m.clock.Delay(m.timing.HighPhase())
}

// waitIdle spins until both lines are released. It gives up only when the
// host has requested to send, since the host then keeps data low until the
// request is served. There is no timeout.
func (m *Device) waitIdle() bool {
	for bus.Sample(m.bus) != bus.Idle {
		if m.monitor.Pending() {
			return false
		}
		m.clock.Delay(m.timing.Poll)
	}
	return true
}

// transmit sends one device-to-host frame: start bit, eight data bits
// LSB first, odd parity and stop bit. It blocks for the whole frame and
// nothing is verified. It returns false if the byte was not sent because
// the host claimed the bus first.
func (m *Device) transmit(b byte, preDelay time.Duration) bool {
	m.clock.Delay(preDelay)
	if !m.waitIdle() {
		return false
	}

	m.bus.SetData(false)
	m.toggle()

	ones := 0
	for i := uint(0); i < 8; i++ {
		bit := b>>i&1 == 1
		if bit {
			ones++
		}
		m.bus.SetData(bit)
		m.toggle()
	}

	m.bus.SetData(ones%2 == 0)
	m.toggle()

	m.bus.SetData(true)
	m.toggle()

	m.record(false, b)
	return true
}

// receive clocks in one host-to-device byte and acknowledges it on the
// data line. The parity bit is clocked but not checked.
func (m *Device) receive() byte {
	m.clock.Delay(m.timing.HalfPhase)

	var b byte
	for i := uint(0); i < 9; i++ {
		m.bus.SetClock(false)
		m.clock.Delay(m.timing.LowPhase())
		m.bus.SetClock(true)
		if i < 8 && m.bus.Data() {
			b |= 1 << i
		}
		m.clock.Delay(m.timing.HighPhase())
	}

	m.toggle()
	m.bus.SetData(false)
	m.toggle()
	m.bus.SetData(true)

	m.record(true, b)
	return b
}

func (m *Device) record(fromHost bool, b byte) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.RecordByte(fromHost, b, m.clock.Now()); err != nil {
		m.log.Print("trace: ", err)
		m.recorder = nil
	}
}
