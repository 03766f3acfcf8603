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

import "github.com/andreas-jonsson/virtualps2/emulator/bus"

const (
	CmdSetLEDs   = 0xED
	CmdEcho      = 0xEE
	CmdScanSet   = 0xF0
	CmdReadID    = 0xF2
	CmdSetRate   = 0xF3
	CmdResend    = 0xFE
	CmdReset     = 0xFF
	RespAck      = 0xFA
	RespSelfTest = 0xAA
)

const (
	ledNumLock  = 0x02
	scanSet2    = 0x02
	defaultRate = 0x2B
)

var keyboardID = []byte{0xAB, 0x83}

// command runs the interpreter for one received byte. Payload bytes are
// recognised by remembering the byte received before them.
func (m *Device) command(b byte) {
	if m.verbose {
		m.log.Printf("PS/2 command: 0x%02X (last 0x%02X)", b, m.lastCommand)
	}

	if b != CmdResend {
		if !m.transmit(RespAck, m.timing.AckDelay) {
			m.lastCommand = b
			return
		}
	}
	if b == CmdReset {
		m.defaults()
	}

	m.clock.Delay(m.timing.ResponseWindow)
	if m.uncontested() {
		switch b {
		case CmdReset:
			m.transmit(RespSelfTest, m.timing.ResetDelay)
		case CmdReadID:
			for _, id := range keyboardID {
				if !m.transmit(id, m.timing.AckDelay) {
					break
				}
			}
		case CmdEcho:
			m.transmit(CmdEcho, m.timing.AckDelay)
		}
	}

	switch m.lastCommand {
	case CmdSetRate:
		m.rate = b
	case CmdSetLEDs:
		m.status = b
		m.indicator.SetIndicator(b&ledNumLock != 0)
	case CmdScanSet:
		if b == 0 {
			m.transmit(scanSet2, m.timing.AckDelay)
		}
	}
	m.lastCommand = b
}

// uncontested reports whether the host has left the bus alone since the
// last acknowledgement.
func (m *Device) uncontested() bool {
	return !m.monitor.Pending() && bus.Sample(m.bus) == bus.Idle
}

func (m *Device) defaults() {
	m.rate = defaultRate
	m.status = 0
	m.translator.Repeat.Clear()
	m.indicator.SetIndicator(false)
}
