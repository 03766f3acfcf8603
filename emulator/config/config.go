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
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/andreas-jonsson/virtualps2/emulator/timing"
	"github.com/spf13/afero"
)

// EnvPath names the settings file when -config is not given.
const EnvPath = "VPS2_CONFIG"

var (
	ErrUnknownBackend = errors.New("unknown bus backend")
	ErrUnknownSource  = errors.New("unknown key source")
)

type GPIO struct {
	Chip  string `toml:"chip"`
	Clock uint32 `toml:"clock"`
	Data  uint32 `toml:"data"`
	// LED is the indicator line, or negative for none.
	LED int `toml:"led"`
}

type USB struct {
	VID uint16 `toml:"vid"`
	PID uint16 `toml:"pid"`
}

type Config struct {
	Backend   string `toml:"backend"`
	Source    string `toml:"source"`
	Trace     string `toml:"trace"`
	Verbose   bool   `toml:"verbose"`
	QueueSize int    `toml:"queue_size"`
	// CPU is the core the bus loop is pinned to, or negative to not pin.
	CPU int `toml:"cpu"`

	GPIO   GPIO          `toml:"gpio"`
	USB    USB           `toml:"usb"`
	Timing timing.Timing `toml:"timing"`
}

func Default() Config {
	return Config{
		Backend:   "sim",
		Source:    "tcell",
		QueueSize: 64,
		CPU:       -1,
		GPIO: GPIO{
			Chip:  "/dev/gpiochip0",
			Clock: 17,
			Data:  27,
			LED:   -1,
		},
		Timing: timing.Default,
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case "sim", "gpio":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	switch c.Source {
	case "tcell", "sdl", "usb", "none":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("invalid queue size: %d", c.QueueSize)
	}
	if c.Timing.HandlerCost >= c.Timing.HalfPhase {
		return fmt.Errorf("handler cost %v leaves no low phase", c.Timing.HandlerCost)
	}
	return nil
}

// Path returns p, or the file named by the environment if p is empty.
func Path(p string) string {
	if p != "" {
		return p
	}
	return os.Getenv(EnvPath)
}

// Load reads the settings file at path on top of the defaults. An empty
// path gives the defaults.
func Load(fs afero.Fs, path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return c, fmt.Errorf("could not read config: %w", err)
	}
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return c, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return c, fmt.Errorf("unknown settings in %s: %v", path, keys)
	}
	return c, nil
}

// Save writes c to path in the same format Load reads.
func Save(fs afero.Fs, path string, c Config) error {
	fp, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(fp).Encode(c); err != nil {
		fp.Close()
		return fmt.Errorf("could not encode config: %w", err)
	}
	return fp.Close()
}

// Flags holds command-line overrides. Only flags that were set on the
// command line replace loaded settings.
type Flags struct {
	fs *flag.FlagSet
	c  Config
}

func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, c: Default()}
	c := &f.c

	fs.StringVar(&c.Backend, "backend", c.Backend, "Bus backend (sim, gpio)")
	fs.StringVar(&c.Source, "source", c.Source, "Key event source (tcell, sdl, usb, none)")
	fs.StringVar(&c.Trace, "trace", c.Trace, "Record bus traffic to a pcap file")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "Log every key event and host command")
	fs.IntVar(&c.QueueSize, "queue", c.QueueSize, "Key event queue size")
	fs.IntVar(&c.CPU, "cpu", c.CPU, "Pin the bus loop to this CPU core")

	fs.StringVar(&c.GPIO.Chip, "gpio-chip", c.GPIO.Chip, "GPIO character device")
	fs.Var(uint32Value{&c.GPIO.Clock}, "gpio-clock", "GPIO line offset of the PS/2 clock")
	fs.Var(uint32Value{&c.GPIO.Data}, "gpio-data", "GPIO line offset of the PS/2 data")
	fs.IntVar(&c.GPIO.LED, "gpio-led", c.GPIO.LED, "GPIO line offset of the indicator LED")

	fs.Var(uint16Value{&c.USB.VID}, "usb-vid", "USB keyboard vendor ID")
	fs.Var(uint16Value{&c.USB.PID}, "usb-pid", "USB keyboard product ID")

	fs.DurationVar(&c.Timing.PowerUp, "power-up", c.Timing.PowerUp, "Delay before the keyboard becomes active")
	fs.DurationVar(&c.Timing.RepeatInterval, "repeat", c.Timing.RepeatInterval, "Autorepeat interval")
	fs.DurationVar(&c.Timing.ResetDelay, "reset-delay", c.Timing.ResetDelay, "Emulated self-test time")
	return f
}

// Apply copies every flag set on the command line into dst.
func (f *Flags) Apply(dst *Config) {
	src := &f.c
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			dst.Backend = src.Backend
		case "source":
			dst.Source = src.Source
		case "trace":
			dst.Trace = src.Trace
		case "verbose":
			dst.Verbose = src.Verbose
		case "queue":
			dst.QueueSize = src.QueueSize
		case "cpu":
			dst.CPU = src.CPU
		case "gpio-chip":
			dst.GPIO.Chip = src.GPIO.Chip
		case "gpio-clock":
			dst.GPIO.Clock = src.GPIO.Clock
		case "gpio-data":
			dst.GPIO.Data = src.GPIO.Data
		case "gpio-led":
			dst.GPIO.LED = src.GPIO.LED
		case "usb-vid":
			dst.USB.VID = src.USB.VID
		case "usb-pid":
			dst.USB.PID = src.USB.PID
		case "power-up":
			dst.Timing.PowerUp = src.Timing.PowerUp
		case "repeat":
			dst.Timing.RepeatInterval = src.Timing.RepeatInterval
		case "reset-delay":
			dst.Timing.ResetDelay = src.Timing.ResetDelay
		}
	})
}

type uint32Value struct{ p *uint32 }

func (v uint32Value) String() string {
	if v.p == nil {
		return "0"
	}
	return fmt.Sprint(*v.p)
}

func (v uint32Value) Set(s string) error {
	var n uint32
	if _, err := fmt.Sscan(s, &n); err != nil {
		return err
	}
	*v.p = n
	return nil
}

type uint16Value struct{ p *uint16 }

func (v uint16Value) String() string {
	if v.p == nil {
		return "0x0000"
	}
	return fmt.Sprintf("0x%04X", *v.p)
}

func (v uint16Value) Set(s string) error {
	var n uint16
	if _, err := fmt.Sscanf(s, "0x%x", &n); err != nil {
		if _, err := fmt.Sscanf(s, "%x", &n); err != nil {
			return err
		}
	}
	*v.p = n
	return nil
}
