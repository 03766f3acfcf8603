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

// Package keyboard turns key events into scan code set 2 byte sequences and
// keeps track of the single key that may autorepeat.
package keyboard

import (
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/hid"
)

// Translator converts key events to set 2 bytes. It is owned by the main
// loop and not safe for concurrent use.
type Translator struct {
	Repeat Repeater
}

func NewTranslator(interval time.Duration) *Translator {
	return &Translator{Repeat: Repeater{Interval: interval}}
}

// Translate returns the bytes to put on the bus for ev. When any modifier
// bit is set only the modifier codes are produced and ev.Key is ignored.
// now is used to (re)arm the autorepeat candidate.
func (t *Translator) Translate(ev hid.KeyEvent, now time.Duration) []byte {
	if mods := ev.Modifiers & hid.ModMask; mods != 0 {
		if !ev.Pressed {
			t.Repeat.Clear()
		}
		return translateModifiers(mods, ev.Pressed)
	}

	if ev.Pressed {
		if Repeatable(ev.Key) {
			t.Repeat.Arm(ev.Key, now)
		}
	} else {
		t.Repeat.Clear()
	}
	return translateKey(ev.Key, ev.Pressed)
}

func translateModifiers(mods hid.Modifier, pressed bool) []byte {
	var out []byte
	for _, m := range modifiers {
		if mods&m.bit == 0 {
			continue
		}
		if pressed {
			out = append(out, m.make...)
		} else {
			out = append(out, m.brk...)
		}
	}
	return out
}

func translateKey(k hid.Key, pressed bool) []byte {
	switch k {
	case hid.KeyPause:
		if pressed {
			return append([]byte(nil), pauseMake...)
		}
		return nil
	case hid.KeyPrintScreen:
		if pressed {
			return append([]byte(nil), printScreenMake...)
		}
		return append([]byte(nil), printScreenBreak...)
	}

	code := set2[k].Bytes()
	if code == nil {
		return nil
	}
	if pressed {
		return code
	}
	return append([]byte{Break}, code...)
}

// Repeatable reports whether k autorepeats while held: letters, digits,
// backspace, tab, space and the arrow keys.
func Repeatable(k hid.Key) bool {
	switch {
	case k >= hid.KeyA && k <= hid.Key0:
		return true
	case k == hid.KeyBackspace, k == hid.KeyTab, k == hid.KeySpace:
		return true
	case k >= hid.KeyRight && k <= hid.KeyUp:
		return true
	}
	return false
}
