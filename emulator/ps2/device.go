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
	"context"
	"errors"
	"log"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/bus"
	"github.com/andreas-jonsson/virtualps2/emulator/debug"
	"github.com/andreas-jonsson/virtualps2/emulator/hid"
	"github.com/andreas-jonsson/virtualps2/emulator/keyboard"
	"github.com/andreas-jonsson/virtualps2/emulator/timing"
)

const MaxEvents = 64

var ErrQueueFull = errors.New("key event queue is full")

// Recorder receives every complete byte seen on the bus.
type Recorder interface {
	RecordByte(fromHost bool, b byte, at time.Duration) error
}

type Config struct {
	Timing    timing.Timing
	QueueSize int
	Indicator bus.Indicator
	Recorder  Recorder
	Logger    *log.Logger
	Verbose   bool
}

// State is a snapshot of the device registers.
type State struct {
	LastCommand byte
	Status      byte
	Rate        byte
	Repeating   hid.Key
	Armed       bool
}

// Device is a PS/2 keyboard on a two wire bus. Everything but the edge
// monitor runs on the goroutine that calls Step or Run.
type Device struct {
	bus       bus.Bus
	clock     timing.Clock
	timing    timing.Timing
	monitor   *Monitor
	indicator bus.Indicator
	recorder  Recorder
	log       *log.Logger
	verbose   bool

	translator  *keyboard.Translator
	events      chan hid.KeyEvent
	lastCommand byte
	status      byte
	rate        byte
}

// NewDevice creates a device on b. If b can report clock edges the monitor
// is attached to it, otherwise the caller must drive Monitor().Poll.
func NewDevice(b bus.Bus, c timing.Clock, cfg Config) *Device {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = MaxEvents
	}
	if cfg.Indicator == nil {
		cfg.Indicator = bus.NullIndicator
	}
	if cfg.Logger == nil {
		cfg.Logger = debug.Log
	}

	m := &Device{
		bus:        b,
		clock:      c,
		timing:     cfg.Timing,
		monitor:    NewMonitor(b, c, cfg.Timing),
		indicator:  cfg.Indicator,
		recorder:   cfg.Recorder,
		log:        cfg.Logger,
		verbose:    cfg.Verbose,
		translator: keyboard.NewTranslator(cfg.Timing.RepeatInterval),
		events:     make(chan hid.KeyEvent, cfg.QueueSize),
		rate:       defaultRate,
	}
	if es, ok := b.(bus.EdgeSource); ok {
		es.OnClockEdge(m.monitor.Edge)
	}
	return m
}

func (m *Device) Name() string {
	return "PS/2 Keyboard"
}

func (m *Device) Monitor() *Monitor {
	return m.monitor
}

// Reset drops queued key events and restores power-on defaults.
func (m *Device) Reset() {
	m.lastCommand = 0
	m.defaults()
	for {
		select {
		case <-m.events:
		default:
			return
		}
	}
}

func (m *Device) State() State {
	return State{
		LastCommand: m.lastCommand,
		Status:      m.status,
		Rate:        m.rate,
		Repeating:   m.translator.Repeat.Key(),
		Armed:       m.translator.Repeat.Armed(),
	}
}

// PushKeyEvent queues ev for the main loop. It is safe to call from any
// goroutine and never blocks.
func (m *Device) PushKeyEvent(ev hid.KeyEvent) error {
	select {
	case m.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// HandleKeyEvent translates ev and puts the result on the bus. It must be
// called from the main loop.
func (m *Device) HandleKeyEvent(ev hid.KeyEvent) {
	if m.verbose {
		m.log.Print("Key event: ", ev)
	}
	if ev.Modifiers&hid.ModMask == 0 {
		m.indicator.SetIndicator(ev.Pressed)
	}
	m.send(m.translator.Translate(ev, m.clock.Now()))
}

// Step runs one main loop iteration: serve a host command, then at most
// one queued key event, then autorepeat.
func (m *Device) Step() {
	m.serve()

	select {
	case ev := <-m.events:
		m.HandleKeyEvent(ev)
	default:
	}

	m.repeat()
	m.clock.Delay(m.timing.Poll)
}

// Run waits for the power-up delay and steps the device until ctx is done.
func (m *Device) Run(ctx context.Context) error {
	m.clock.Delay(m.timing.PowerUp)
	m.log.Print("PS/2 keyboard active")

	for i := 0; ; i++ {
		if i&0xFF == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		m.Step()
	}
}

func (m *Device) serve() {
	for m.monitor.Pending() {
		m.monitor.Clear()
		m.command(m.receive())
	}
}

// send puts a scan code sequence on the bus one byte at a time. A host
// command that arrives between two bytes is served before the next one.
func (m *Device) send(seq []byte) {
	for i := 0; i < len(seq); {
		m.serve()
		if m.transmit(seq[i], m.timing.ByteDelay) {
			i++
		}
	}
}

func (m *Device) repeat() {
	r := &m.translator.Repeat
	if !r.Due(m.clock.Now()) {
		return
	}
	m.send(r.Break())
	m.clock.Delay(m.timing.RepeatGap)
	m.send(r.Make())
	r.Rearm(m.clock.Now())
}
