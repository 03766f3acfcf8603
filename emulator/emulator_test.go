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
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/config"
	"github.com/andreas-jonsson/virtualps2/emulator/hid"
	"github.com/andreas-jonsson/virtualps2/emulator/ps2"
)

func TestBIOSScript(t *testing.T) {
	cfg := config.Default()
	cfg.Timing.PowerUp = 0

	be, err := openBackend(cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer be.close()

	dev := ps2.NewDevice(be.bus, be.clock, ps2.Config{
		Timing:    be.timing,
		Indicator: be.indicator,
		Logger:    log.New(io.Discard, "", 0),
	})

	end := be.clock.Now() + 2*time.Second
	for !be.host.Done() || be.clock.Now() < cfg.Timing.PowerUp+20*time.Millisecond {
		if be.clock.Now() > end {
			t.Fatalf("script did not finish, got % X", be.host.Bytes())
		}
		dev.Step()
	}

	want := []byte{
		ps2.RespAck, ps2.RespSelfTest,
		ps2.RespAck, 0xAB, 0x83,
		ps2.RespAck, ps2.RespAck,
		ps2.RespAck, ps2.RespAck, 0x02,
		ps2.RespAck, ps2.RespAck,
		ps2.RespAck, ps2.RespAck,
	}
	if got := be.host.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("got % X\nwant % X", got, want)
	}
	if s := dev.State(); s.Rate != 0x20 || s.Status != 0 {
		t.Errorf("state %+v", s)
	}

	be.host.Reset()
	dev.HandleKeyEvent(hid.KeyEvent{Key: hid.KeyEnter, Pressed: true})
	if got := be.host.Bytes(); !bytes.Equal(got, []byte{0x5A}) {
		t.Errorf("enter: got % X", got)
	}
}

func TestBackendTiming(t *testing.T) {
	cfg := config.Default()
	be, err := openBackend(cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer be.close()

	if be.timing != cfg.Timing {
		t.Errorf("sim timing %+v", be.timing)
	}

	polled := polledTiming(cfg.Timing)
	if polled.HandlerCost != 0 {
		t.Errorf("handler cost %v", polled.HandlerCost)
	}
	if polled.LowPhase() != cfg.Timing.HalfPhase {
		t.Errorf("low phase %v, want %v", polled.LowPhase(), cfg.Timing.HalfPhase)
	}
	if cfg.Timing.HandlerCost == 0 {
		t.Error("default timing was modified")
	}
}

func TestUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "serial"
	if _, err := openBackend(cfg, false); !errors.Is(err, config.ErrUnknownBackend) {
		t.Errorf("got %v", err)
	}
}

type statusPlatform struct {
	mu     sync.Mutex
	status string
	gate   chan struct{}
}

func (p *statusPlatform) SetIndicator(bool)                     {}
func (p *statusPlatform) SetTitle(string)                       {}
func (p *statusPlatform) SetKeyboardHandler(func(hid.KeyEvent)) {}

func (p *statusPlatform) SetStatus(s string) {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

func (p *statusPlatform) get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

type countRecorder int

func (c *countRecorder) RecordByte(bool, byte, time.Duration) error {
	*c++
	return nil
}

func TestStatusRecorder(t *testing.T) {
	p := &statusPlatform{}
	var next countRecorder
	r := newStatusRecorder(p, &next)
	defer r.Close()

	for i := 0; i < 20; i++ {
		r.RecordByte(i == 0, byte(i), 0)
	}
	if next != 20 {
		t.Errorf("forwarded %d bytes", next)
	}
	if len(r.last) != 16 || r.last[15] != "13" {
		t.Errorf("history %v", r.last)
	}

	r.RecordByte(true, 0xED, 0)
	deadline := time.Now().Add(5 * time.Second)
	for !strings.HasSuffix(p.get(), ">ED") {
		if time.Now().After(deadline) {
			t.Fatalf("status %q", p.get())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStatusRecorderSlowPlatform(t *testing.T) {
	p := &statusPlatform{gate: make(chan struct{})}
	r := newStatusRecorder(p, nil)
	defer r.Close()

	for i := 0; i < 40; i++ {
		r.RecordByte(false, byte(i), 0)
	}
	r.RecordByte(true, 0xF4, 0)
	close(p.gate)

	deadline := time.Now().Add(5 * time.Second)
	for !strings.HasSuffix(p.get(), "26 27 >F4") {
		if time.Now().After(deadline) {
			t.Fatalf("status %q", p.get())
		}
		time.Sleep(time.Millisecond)
	}
}
