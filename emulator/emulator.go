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

package emulator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/bus"
	"github.com/andreas-jonsson/virtualps2/emulator/bus/gpio"
	"github.com/andreas-jonsson/virtualps2/emulator/bus/sim"
	"github.com/andreas-jonsson/virtualps2/emulator/config"
	"github.com/andreas-jonsson/virtualps2/emulator/debug"
	"github.com/andreas-jonsson/virtualps2/emulator/dialog"
	"github.com/andreas-jonsson/virtualps2/emulator/hid"
	"github.com/andreas-jonsson/virtualps2/emulator/ps2"
	"github.com/andreas-jonsson/virtualps2/emulator/timing"
	"github.com/andreas-jonsson/virtualps2/emulator/trace"
	"github.com/andreas-jonsson/virtualps2/platform"
)

// biosScript is what a typical BIOS sends to the keyboard during POST.
var biosScript = []sim.Step{
	{Cmd: ps2.CmdReset, Replies: 2},
	{Cmd: ps2.CmdReadID, Replies: 3},
	{Cmd: ps2.CmdSetLEDs, Replies: 1},
	{Cmd: 0x02, Replies: 1},
	{Cmd: ps2.CmdScanSet, Replies: 1},
	{Cmd: 0x00, Replies: 2},
	{Cmd: ps2.CmdSetRate, Replies: 1},
	{Cmd: 0x20, Replies: 1},
	{Cmd: ps2.CmdSetLEDs, Replies: 1},
	{Cmd: 0x00, Replies: 1},
}

type backend struct {
	bus       bus.Bus
	clock     timing.Clock
	indicator bus.Indicator
	host      *sim.Host
	polled    bool
	timing    timing.Timing
	close     func() error
}

// polledTiming drops the handler compensation for backends where the edge
// monitor polls from its own goroutine and does not stall the bit loop.
func polledTiming(t timing.Timing) timing.Timing {
	t.HandlerCost = 0
	return t
}

func openBackend(cfg config.Config, paced bool) (*backend, error) {
	switch cfg.Backend {
	case "sim":
		c := sim.NewClock()
		if paced {
			c = sim.NewPacedClock()
		}
		b := sim.NewBus(c)
		b.EdgeCost = cfg.Timing.HandlerCost

		h := sim.NewHost(b)
		h.OnFrame = func(f sim.Frame) {
			if !f.ParityOK || !f.StopOK {
				log.Printf("Host: bad frame %v", f)
			}
		}
		c.At(cfg.Timing.PowerUp+10*time.Millisecond, func() {
			h.Run(biosScript...)
		})
		return &backend{bus: b, clock: c, indicator: b, host: h, timing: cfg.Timing, close: func() error { return nil }}, nil
	case "gpio":
		b, err := gpio.Open(gpio.Config{
			Chip:  cfg.GPIO.Chip,
			Clock: cfg.GPIO.Clock,
			Data:  cfg.GPIO.Data,
			LED:   cfg.GPIO.LED,
		})
		if err != nil {
			return nil, fmt.Errorf("could not open GPIO: %w", err)
		}
		c, err := timing.NewRaw()
		if err != nil {
			b.Close()
			return nil, err
		}
		return &backend{bus: b, clock: c, indicator: b, polled: true, timing: polledTiming(cfg.Timing), close: b.Close}, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}

type indicators []bus.Indicator

func (s indicators) SetIndicator(on bool) {
	for _, i := range s {
		i.SetIndicator(on)
	}
}

// statusRecorder shows the latest bus bytes on the platform and forwards
// them to the trace, if any. The platform is updated from its own goroutine
// so the bus loop never waits for it. Only the newest status is kept.
type statusRecorder struct {
	next ps2.Recorder
	last []string

	mu     sync.Mutex
	latest string
	notify chan struct{}
}

func newStatusRecorder(p platform.Platform, next ps2.Recorder) *statusRecorder {
	r := &statusRecorder{next: next, notify: make(chan struct{}, 1)}
	go func() {
		for range r.notify {
			r.mu.Lock()
			s := r.latest
			r.mu.Unlock()
			p.SetStatus(s)
		}
	}()
	return r
}

func (r *statusRecorder) RecordByte(fromHost bool, b byte, at time.Duration) error {
	s := fmt.Sprintf("%02X", b)
	if fromHost {
		s = ">" + s
	}
	r.last = append(r.last, s)
	if len(r.last) > 16 {
		r.last = r.last[1:]
	}

	r.mu.Lock()
	r.latest = "Bus: " + strings.Join(r.last, " ")
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}

	if r.next != nil {
		return r.next.RecordByte(fromHost, b, at)
	}
	return nil
}

func (r *statusRecorder) Close() {
	close(r.notify)
}

// Start returns the main loop for cfg.
func Start(cfg config.Config) func(platform.Platform) {
	return func(p platform.Platform) {
		if err := emuLoop(cfg, p); err != nil {
			dialog.ShowErrorMessage(err.Error())
		}
	}
}

func emuLoop(cfg config.Config, p platform.Platform) error {
	be, err := openBackend(cfg, true)
	if err != nil {
		return err
	}
	defer be.close()

	if cfg.CPU >= 0 {
		if err := timing.Realtime(cfg.CPU); err != nil {
			log.Print("Could not set up real-time scheduling: ", err)
		}
	}

	var rec ps2.Recorder
	if cfg.Trace != "" {
		tw, err := trace.Create(cfg.Trace)
		if err != nil {
			return fmt.Errorf("could not create trace: %w", err)
		}
		defer tw.Close()
		rec = tw
		log.Print("Recording bus traffic to: ", cfg.Trace)
	}
	status := newStatusRecorder(p, rec)
	defer status.Close()

	dev := ps2.NewDevice(be.bus, be.clock, ps2.Config{
		Timing:    be.timing,
		QueueSize: cfg.QueueSize,
		Indicator: indicators{be.indicator, p},
		Recorder:  status,
		Logger:    debug.Log,
		Verbose:   cfg.Verbose,
	})
	log.Printf("%s on %s backend, %s key source", dev.Name(), cfg.Backend, cfg.Source)

	p.SetKeyboardHandler(func(ev hid.KeyEvent) {
		if err := dev.PushKeyEvent(ev); err != nil {
			log.Print(err)
		}
	})
	defer p.SetKeyboardHandler(nil)

	if be.polled {
		done, stopped := make(chan struct{}), make(chan struct{})
		go func() {
			dev.Monitor().Poll(done)
			close(stopped)
		}()
		defer func() {
			close(done)
			<-stopped
		}()
	}

	for !dialog.ShutdownRequested() {
		var restart int32
		ctx, cancel := context.WithCancel(context.Background())
		go watchDialog(ctx, cancel, &restart)

		dev.Run(ctx)
		cancel()

		if atomic.LoadInt32(&restart) != 0 {
			log.Print("Keyboard reset requested")
			dev.Reset()
		}
	}
	return nil
}

// watchDialog cancels the bus loop on quit or restart requests.
func watchDialog(ctx context.Context, cancel context.CancelFunc, restart *int32) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dialog.ShutdownRequested() {
				cancel()
				return
			}
			if dialog.RestartRequested() {
				atomic.StoreInt32(restart, 1)
				cancel()
				return
			}
		}
	}
}
