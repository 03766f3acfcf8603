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
	"github.com/gdamore/tcell"
)

const tapTime = 10 * time.Millisecond

func (p *tcellPlatform) initializeTcellEvents() {
	go func() {
		s := p.screen
		for {
			switch ev := s.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyF12 {
					dialog.Quit()
					return
				}
				p.pushKeyEvent(ev)
			case *tcell.EventResize:
				s.Sync()
				p.draw()
			case *tcell.EventInterrupt:
				if _, ok := ev.Data().(redrawEvent); ok {
					p.draw()
				}
			}
		}
	}()
}

func (p *tcellPlatform) draw() {
	p.mu.Lock()
	title, status, led := p.title, p.status, p.indicator
	p.mu.Unlock()

	s := p.screen
	s.Clear()

	style := tcell.StyleDefault
	drawString(s, 0, 0, style.Bold(true), title)

	ledStyle := style.Foreground(tcell.ColorGray)
	if led {
		ledStyle = style.Foreground(tcell.ColorLime)
	}
	drawString(s, 0, 2, style, "Indicator:")
	drawString(s, 11, 2, ledStyle, "●")

	drawString(s, 0, 4, style, status)
	drawString(s, 0, 6, style.Foreground(tcell.ColorGray), "Type to send scan codes. F12 quits.")
	s.Show()
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (p *tcellPlatform) pushKeyEvent(ev *tcell.EventKey) {
	keys := createEventsFromTCELL(ev)
	if len(keys) == 0 {
		log.Printf("Unknown key: %s", ev.Name())
		return
	}
	p.tap(tapTime, keys...)
}

// createEventsFromTCELL returns the key presses that type ev, modifiers
// first.
func createEventsFromTCELL(ev *tcell.EventKey) []hid.KeyEvent {
	var keys []hid.KeyEvent
	mods := ev.Modifiers()

	k, shift := hid.KeyNone, false
	switch key := ev.Key(); {
	case key == tcell.KeyRune:
		if r := ev.Rune(); r >= 0x20 && r < 0x7F {
			rk := runeKeys[r-0x20]
			k, shift = rk.key, rk.shift
		}
	case key == tcell.KeyBacktab:
		k, shift = hid.KeyTab, true
	case namedKeys[key] != hid.KeyNone:
		k = namedKeys[key]
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		k = hid.KeyA + hid.Key(key-tcell.KeyCtrlA)
		mods |= tcell.ModCtrl
	}
	if k == hid.KeyNone {
		return nil
	}

	if mods&tcell.ModCtrl != 0 {
		keys = append(keys, keyDown(hid.KeyLeftCtrl))
	}
	if mods&tcell.ModShift != 0 || shift {
		keys = append(keys, keyDown(hid.KeyLeftShift))
	}
	if mods&tcell.ModAlt != 0 {
		keys = append(keys, keyDown(hid.KeyLeftAlt))
	}
	return append(keys, keyDown(k))
}

var namedKeys = map[tcell.Key]hid.Key{
	tcell.KeyEnter:      hid.KeyEnter,
	tcell.KeyTab:        hid.KeyTab,
	tcell.KeyBackspace:  hid.KeyBackspace,
	tcell.KeyBackspace2: hid.KeyBackspace,
	tcell.KeyEscape:     hid.KeyEscape,
	tcell.KeyUp:         hid.KeyUp,
	tcell.KeyDown:       hid.KeyDown,
	tcell.KeyLeft:       hid.KeyLeft,
	tcell.KeyRight:      hid.KeyRight,
	tcell.KeyInsert:     hid.KeyInsert,
	tcell.KeyDelete:     hid.KeyDelete,
	tcell.KeyHome:       hid.KeyHome,
	tcell.KeyEnd:        hid.KeyEnd,
	tcell.KeyPgUp:       hid.KeyPageUp,
	tcell.KeyPgDn:       hid.KeyPageDown,
	tcell.KeyPrint:      hid.KeyPrintScreen,
	tcell.KeyPause:      hid.KeyPause,
	tcell.KeyF1:         hid.KeyF1,
	tcell.KeyF2:         hid.KeyF2,
	tcell.KeyF3:         hid.KeyF3,
	tcell.KeyF4:         hid.KeyF4,
	tcell.KeyF5:         hid.KeyF5,
	tcell.KeyF6:         hid.KeyF6,
	tcell.KeyF7:         hid.KeyF7,
	tcell.KeyF8:         hid.KeyF8,
	tcell.KeyF9:         hid.KeyF9,
	tcell.KeyF10:        hid.KeyF10,
	tcell.KeyF11:        hid.KeyF11,
}

// runeKeys maps printable ASCII, starting at space, to a US layout key.
var runeKeys = [95]struct {
	key   hid.Key
	shift bool
}{
	{hid.KeySpace, false},
	{hid.Key1, true},
	{hid.KeyApostrophe, true},
	{hid.Key3, true},
	{hid.Key4, true},
	{hid.Key5, true},
	{hid.Key7, true},
	{hid.KeyApostrophe, false},
	{hid.Key9, true},
	{hid.Key0, true},
	{hid.Key8, true},
	{hid.KeyEqual, true},
	{hid.KeyComma, false},
	{hid.KeyMinus, false},
	{hid.KeyDot, false},
	{hid.KeySlash, false},
	{hid.Key0, false},
	{hid.Key1, false},
	{hid.Key2, false},
	{hid.Key3, false},
	{hid.Key4, false},
	{hid.Key5, false},
	{hid.Key6, false},
	{hid.Key7, false},
	{hid.Key8, false},
	{hid.Key9, false},
	{hid.KeySemicolon, true},
	{hid.KeySemicolon, false},
	{hid.KeyComma, true},
	{hid.KeyEqual, false},
	{hid.KeyDot, true},
	{hid.KeySlash, true},
	{hid.Key2, true},
	{hid.KeyA, true},
	{hid.KeyB, true},
	{hid.KeyC, true},
	{hid.KeyD, true},
	{hid.KeyE, true},
	{hid.KeyF, true},
	{hid.KeyG, true},
	{hid.KeyH, true},
	{hid.KeyI, true},
	{hid.KeyJ, true},
	{hid.KeyK, true},
	{hid.KeyL, true},
	{hid.KeyM, true},
	{hid.KeyN, true},
	{hid.KeyO, true},
	{hid.KeyP, true},
	{hid.KeyQ, true},
	{hid.KeyR, true},
	{hid.KeyS, true},
	{hid.KeyT, true},
	{hid.KeyU, true},
	{hid.KeyV, true},
	{hid.KeyW, true},
	{hid.KeyX, true},
	{hid.KeyY, true},
	{hid.KeyZ, true},
	{hid.KeyLeftBrace, false},
	{hid.KeyBackslash, false},
	{hid.KeyRightBrace, false},
	{hid.Key6, true},
	{hid.KeyMinus, true},
	{hid.KeyGrave, false},
	{hid.KeyA, false},
	{hid.KeyB, false},
	{hid.KeyC, false},
	{hid.KeyD, false},
	{hid.KeyE, false},
	{hid.KeyF, false},
	{hid.KeyG, false},
	{hid.KeyH, false},
	{hid.KeyI, false},
	{hid.KeyJ, false},
	{hid.KeyK, false},
	{hid.KeyL, false},
	{hid.KeyM, false},
	{hid.KeyN, false},
	{hid.KeyO, false},
	{hid.KeyP, false},
	{hid.KeyQ, false},
	{hid.KeyR, false},
	{hid.KeyS, false},
	{hid.KeyT, false},
	{hid.KeyU, false},
	{hid.KeyV, false},
	{hid.KeyW, false},
	{hid.KeyX, false},
	{hid.KeyY, false},
	{hid.KeyZ, false},
	{hid.KeyLeftBrace, true},
	{hid.KeyBackslash, true},
	{hid.KeyRightBrace, true},
	{hid.KeyGrave, true},
}
