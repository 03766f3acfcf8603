//go:build linux

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

package gpio

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/andreas-jonsson/virtualps2/emulator/debug"
)

const (
	getLineHandleIoctl = 0xC16CB403
	getLineValuesIoctl = 0xC040B408
	setLineValuesIoctl = 0xC040B409
)

const (
	requestOutput    = 1 << 1
	requestOpenDrain = 1 << 3
)

const consumer = "virtualps2"

// handleRequest is struct gpiohandle_request from linux/gpio.h.
type handleRequest struct {
	LineOffsets   [64]uint32
	Flags         uint32
	DefaultValues [64]uint8
	ConsumerLabel [32]byte
	Lines         uint32
	Fd            int32
}

// handleData is struct gpiohandle_data.
type handleData struct {
	Values [64]uint8
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

type line struct {
	fd     int
	offset uint32
	warn   sync.Once
}

// fail reports the first failed access to the line. Later failures are
// silent so the bit loop is not flooded.
func (l *line) fail(op string, err error) {
	l.warn.Do(func() {
		debug.Log.Printf("GPIO: could not %s line %d: %v", op, l.offset, err)
	})
}

func requestLine(chip *os.File, offset uint32, flags uint32, high bool) (*line, error) {
	req := handleRequest{Flags: flags, Lines: 1}
	req.LineOffsets[0] = offset
	if high {
		req.DefaultValues[0] = 1
	}
	copy(req.ConsumerLabel[:], consumer)

	if err := ioctl(chip.Fd(), getLineHandleIoctl, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("could not request line %d: %w", offset, err)
	}
	return &line{fd: int(req.Fd), offset: offset}, nil
}

func (l *line) get() bool {
	var d handleData
	if err := ioctl(uintptr(l.fd), getLineValuesIoctl, unsafe.Pointer(&d)); err != nil {
		l.fail("read", err)
		return true
	}
	return d.Values[0] != 0
}

func (l *line) set(high bool) {
	var d handleData
	if high {
		d.Values[0] = 1
	}
	if err := ioctl(uintptr(l.fd), setLineValuesIoctl, unsafe.Pointer(&d)); err != nil {
		l.fail("write", err)
	}
}

func (l *line) close() error {
	return unix.Close(l.fd)
}

// Bus drives the PS/2 lines through a GPIO character device. Clock and data
// are open-drain outputs with external pull-ups, so reading a line returns
// the wired level.
type Bus struct {
	chip        *os.File
	clock, data *line
	led         *line
}

type Config struct {
	Chip        string
	Clock, Data uint32
	// LED is the indicator line offset, or negative for none.
	LED int
}

func Open(cfg Config) (*Bus, error) {
	chip, err := os.OpenFile(cfg.Chip, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	b := &Bus{chip: chip}

	if b.clock, err = requestLine(chip, cfg.Clock, requestOutput|requestOpenDrain, true); err != nil {
		b.Close()
		return nil, err
	}
	if b.data, err = requestLine(chip, cfg.Data, requestOutput|requestOpenDrain, true); err != nil {
		b.Close()
		return nil, err
	}
	if cfg.LED >= 0 {
		if b.led, err = requestLine(chip, uint32(cfg.LED), requestOutput, false); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *Bus) Clock() bool {
	return b.clock.get()
}

func (b *Bus) Data() bool {
	return b.data.get()
}

func (b *Bus) SetClock(high bool) {
	b.clock.set(high)
}

func (b *Bus) SetData(high bool) {
	b.data.set(high)
}

func (b *Bus) SetIndicator(on bool) {
	if b.led != nil {
		b.led.set(on)
	}
}

func (b *Bus) Close() error {
	for _, l := range []*line{b.clock, b.data, b.led} {
		if l != nil {
			l.close()
		}
	}
	return b.chip.Close()
}
