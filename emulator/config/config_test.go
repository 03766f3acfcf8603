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

package config

import (
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/etc/vps2.toml", []byte(`
backend = "gpio"
source = "usb"

[gpio]
chip = "/dev/gpiochip1"
clock = 5
data = 6
led = 13

[usb]
vid = 0x046D

[timing]
repeat_interval = "300ms"
power_up = "0s"
`), 0644)

	c, err := Load(fs, "/etc/vps2.toml")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	if c.Backend != "gpio" || c.Source != "usb" {
		t.Errorf("backend %q, source %q", c.Backend, c.Source)
	}
	if c.GPIO != (GPIO{Chip: "/dev/gpiochip1", Clock: 5, Data: 6, LED: 13}) {
		t.Errorf("gpio %+v", c.GPIO)
	}
	if c.USB.VID != 0x046D || c.USB.PID != 0 {
		t.Errorf("usb %+v", c.USB)
	}
	if c.Timing.RepeatInterval != 300*time.Millisecond || c.Timing.PowerUp != 0 {
		t.Errorf("timing %+v", c.Timing)
	}
	if c.Timing.HalfPhase != Default().Timing.HalfPhase {
		t.Error("unset timing value lost its default")
	}
	if c.QueueSize != 64 {
		t.Errorf("queue size %d", c.QueueSize)
	}
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "bad.toml", []byte("backend = "), 0644)
	afero.WriteFile(fs, "unknown.toml", []byte("colour = \"blue\""), 0644)

	tests := []struct {
		name string
		path string
	}{
		{"missing", "missing.toml"},
		{"syntax", "bad.toml"},
		{"unknown key", "unknown.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(fs, tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if c, err := Load(fs, ""); err != nil || c.Backend != "sim" {
		t.Errorf("empty path: %+v, %v", c, err)
	}
}

func TestSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	want := Default()
	want.Backend = "gpio"
	want.Trace = "bus.pcap"
	want.USB = USB{VID: 0x1234, PID: 0xABCD}
	want.Timing.RepeatGap = 35 * time.Millisecond

	if err := Save(fs, "out.toml", want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(fs, "out.toml")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"default", func(*Config) {}, nil},
		{"backend", func(c *Config) { c.Backend = "serial" }, ErrUnknownBackend},
		{"source", func(c *Config) { c.Source = "x11" }, ErrUnknownSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	c := Default()
	c.Timing.HandlerCost = c.Timing.HalfPhase
	if c.Validate() == nil {
		t.Error("expected timing error")
	}
}

func TestFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := NewFlags(fs)
	err := fs.Parse([]string{"-backend", "gpio", "-gpio-led", "4", "-usb-vid", "0x046d", "-usb-pid", "c31c", "-repeat", "200ms"})
	if err != nil {
		t.Fatal(err)
	}

	c := Default()
	c.Source = "sdl"
	c.GPIO.Chip = "/dev/gpiochip3"
	f.Apply(&c)

	if c.Backend != "gpio" || c.GPIO.LED != 4 {
		t.Errorf("flags not applied: %+v", c)
	}
	if c.USB != (USB{VID: 0x046D, PID: 0xC31C}) {
		t.Errorf("usb %+v", c.USB)
	}
	if c.Timing.RepeatInterval != 200*time.Millisecond {
		t.Errorf("repeat %v", c.Timing.RepeatInterval)
	}
	if c.Source != "sdl" || c.GPIO.Chip != "/dev/gpiochip3" {
		t.Error("unset flags replaced loaded settings")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "/env.toml")
	if p := Path(""); p != "/env.toml" {
		t.Errorf("got %q", p)
	}
	if p := Path("/flag.toml"); p != "/flag.toml" {
		t.Errorf("got %q", p)
	}
}
