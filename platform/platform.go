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

package platform

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/bus"
	"github.com/andreas-jonsson/virtualps2/emulator/hid"
)

var ErrNoKeyboard = errors.New("no USB keyboard found")

type internalPlatform interface{}

type Config func(internalPlatform) error

// Platform is where key events come from. It also shows the keyboard
// indicator and a status line where it has a display.
type Platform interface {
	bus.Indicator

	SetTitle(title string)
	SetStatus(msg string)
	SetKeyboardHandler(h func(hid.KeyEvent))
}

var Instance Platform

// Start runs mainLoop on the named key source. Sources that need the main
// thread keep it until mainLoop returns.
func Start(source string, mainLoop func(Platform), configs ...Config) error {
	switch source {
	case "tcell":
		return tcellStart(mainLoop, configs...)
	case "sdl":
		return sdlStart(mainLoop, configs...)
	case "usb":
		return usbStart(mainLoop, configs...)
	case "none":
		return headlessStart(mainLoop, configs...)
	}
	return fmt.Errorf("unknown key source: %q", source)
}

// usbFilter restricts which USB keyboards are considered. Zero matches
// any.
type usbFilter struct {
	vid, pid uint16
}

func (f *usbFilter) match(vid, pid uint16) bool {
	return (f.vid == 0 || f.vid == vid) && (f.pid == 0 || f.pid == pid)
}

func ConfigWithUSBDevice(vid, pid uint16) Config {
	return func(p internalPlatform) error {
		if f, ok := p.(interface{ filter() *usbFilter }); ok {
			*f.filter() = usbFilter{vid: vid, pid: pid}
		}
		return nil
	}
}

// handler holds the keyboard callback shared by all sources.
type handler struct {
	sync.Mutex
	h func(hid.KeyEvent)
}

func (p *handler) SetKeyboardHandler(h func(hid.KeyEvent)) {
	p.Lock()
	p.h = h
	p.Unlock()
}

func (p *handler) emit(evs ...hid.KeyEvent) {
	p.Lock()
	defer p.Unlock()
	if p.h == nil {
		return
	}
	for _, ev := range evs {
		p.h(ev)
	}
}

// tap sends presses for keys and the matching releases, in reverse order,
// after hold. Terminals only report key presses.
func (p *handler) tap(hold time.Duration, keys ...hid.KeyEvent) {
	if len(keys) == 0 {
		return
	}
	p.emit(keys...)

	go func() {
		time.Sleep(hold)
		release := make([]hid.KeyEvent, len(keys))
		for i, ev := range keys {
			ev.Pressed = false
			release[len(keys)-1-i] = ev
		}
		p.emit(release...)
	}()
}

// keyDown returns the press event for usage k, turning modifier usages into
// modifier events.
func keyDown(k hid.Key) hid.KeyEvent {
	if m, ok := hid.ModifierKey(k); ok {
		return hid.KeyEvent{Pressed: true, Modifiers: m}
	}
	return hid.KeyEvent{Key: k, Pressed: true}
}

type headlessPlatform struct {
	handler
}

func headlessStart(mainLoop func(Platform), configs ...Config) error {
	p := &headlessPlatform{}
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			return err
		}
	}
	Instance = p
	mainLoop(p)
	return nil
}

func (*headlessPlatform) SetTitle(string)   {}
func (*headlessPlatform) SetStatus(string)  {}
func (*headlessPlatform) SetIndicator(bool) {}
