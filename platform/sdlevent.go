//go:build sdl

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
	"log"
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/dialog"
	"github.com/andreas-jonsson/virtualps2/emulator/hid"
	"github.com/veandco/go-sdl2/sdl"
)

func (p *sdlPlatform) initializeSDLEvents() error {
	var err error
	sdl.Do(func() {
		err = sdl.InitSubSystem(sdl.INIT_EVENTS)
	})
	if err != nil {
		return err
	}

	p.quitChan = make(chan struct{})
	registerCleanup(p, shutdownSDLEvents)

	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()

		for {
			select {
			case <-p.quitChan:
				close(p.quitChan)
				return
			case <-ticker.C:
				sdl.Do(func() {
					for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
						switch ev := event.(type) {
						case *sdl.QuitEvent:
							dialog.AskToQuit()
						case *sdl.KeyboardEvent:
							p.sdlProcessKey(ev)
						}
					}
					p.render()
				})
			}
		}
	}()
	return nil
}

func shutdownSDLEvents(p *sdlPlatform) {
	p.quitChan <- struct{}{}
	<-p.quitChan
	sdl.Do(func() {
		sdl.QuitSubSystem(sdl.INIT_EVENTS)
	})
}

func (p *sdlPlatform) sdlProcessKey(ev *sdl.KeyboardEvent) {
	if ev.Repeat != 0 {
		return
	}
	keyUp := ev.Type == sdl.KEYUP

	if ev.Keysym.Scancode == sdl.SCANCODE_F12 {
		if keyUp {
			dialog.MainMenu()
		}
		return
	}

	if ke, ok := sdlScanToKeyEvent(ev.Keysym.Scancode, !keyUp); ok {
		// The handler is called from the SDL thread, it must not block.
		p.emit(ke)
	} else {
		log.Printf("Invalid key \"%s\"", sdl.GetKeyName(ev.Keysym.Sym))
	}
}

// sdlScanToKeyEvent relies on SDL scancodes being USB HID usage IDs.
func sdlScanToKeyEvent(scan sdl.Scancode, pressed bool) (hid.KeyEvent, bool) {
	if scan < sdl.SCANCODE_A || scan > sdl.SCANCODE_RGUI {
		return hid.KeyEvent{}, false
	}
	ev := keyDown(hid.Key(scan))
	ev.Pressed = pressed
	return ev, true
}
