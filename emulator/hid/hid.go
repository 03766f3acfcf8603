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

// Package hid holds the USB HID keyboard usage IDs that key events are
// expressed in, and turns boot protocol reports into key events.
package hid

import (
	"fmt"
	"strings"
)

type Key byte

type Modifier byte

const (
	KeyNone        Key = 0x00
	KeyErrRollover Key = 0x01
	KeyA           Key = 0x04
	KeyB           Key = 0x05
	KeyC           Key = 0x06
	KeyD           Key = 0x07
	KeyE           Key = 0x08
	KeyF           Key = 0x09
	KeyG           Key = 0x0A
	KeyH           Key = 0x0B
	KeyI           Key = 0x0C
	KeyJ           Key = 0x0D
	KeyK           Key = 0x0E
	KeyL           Key = 0x0F
	KeyM           Key = 0x10
	KeyN           Key = 0x11
	KeyO           Key = 0x12
	KeyP           Key = 0x13
	KeyQ           Key = 0x14
	KeyR           Key = 0x15
	KeyS           Key = 0x16
	KeyT           Key = 0x17
	KeyU           Key = 0x18
	KeyV           Key = 0x19
	KeyW           Key = 0x1A
	KeyX           Key = 0x1B
	KeyY           Key = 0x1C
	KeyZ           Key = 0x1D
	Key1           Key = 0x1E
	Key2           Key = 0x1F
	Key3           Key = 0x20
	Key4           Key = 0x21
	Key5           Key = 0x22
	Key6           Key = 0x23
	Key7           Key = 0x24
	Key8           Key = 0x25
	Key9           Key = 0x26
	Key0           Key = 0x27
	KeyEnter       Key = 0x28
	KeyEscape      Key = 0x29
	KeyBackspace   Key = 0x2A
	KeyTab         Key = 0x2B
	KeySpace       Key = 0x2C
	KeyMinus       Key = 0x2D
	KeyEqual       Key = 0x2E
	KeyLeftBrace   Key = 0x2F
	KeyRightBrace  Key = 0x30
	KeyBackslash   Key = 0x31
	KeyHashTilde   Key = 0x32
	KeySemicolon   Key = 0x33
	KeyApostrophe  Key = 0x34
	KeyGrave       Key = 0x35
	KeyComma       Key = 0x36
	KeyDot         Key = 0x37
	KeySlash       Key = 0x38
	KeyCapsLock    Key = 0x39
	KeyF1          Key = 0x3A
	KeyF2          Key = 0x3B
	KeyF3          Key = 0x3C
	KeyF4          Key = 0x3D
	KeyF5          Key = 0x3E
	KeyF6          Key = 0x3F
	KeyF7          Key = 0x40
	KeyF8          Key = 0x41
	KeyF9          Key = 0x42
	KeyF10         Key = 0x43
	KeyF11         Key = 0x44
	KeyF12         Key = 0x45
	KeyPrintScreen Key = 0x46
	KeyScrollLock  Key = 0x47
	KeyPause       Key = 0x48
	KeyInsert      Key = 0x49
	KeyHome        Key = 0x4A
	KeyPageUp      Key = 0x4B
	KeyDelete      Key = 0x4C
	KeyEnd         Key = 0x4D
	KeyPageDown    Key = 0x4E
	KeyRight       Key = 0x4F
	KeyLeft        Key = 0x50
	KeyDown        Key = 0x51
	KeyUp          Key = 0x52
	KeyNumLock     Key = 0x53
	KeyKPSlash     Key = 0x54
	KeyKPAsterisk  Key = 0x55
	KeyKPMinus     Key = 0x56
	KeyKPPlus      Key = 0x57
	KeyKPEnter     Key = 0x58
	KeyKP1         Key = 0x59
	KeyKP2         Key = 0x5A
	KeyKP3         Key = 0x5B
	KeyKP4         Key = 0x5C
	KeyKP5         Key = 0x5D
	KeyKP6         Key = 0x5E
	KeyKP7         Key = 0x5F
	KeyKP8         Key = 0x60
	KeyKP9         Key = 0x61
	KeyKP0         Key = 0x62
	KeyKPDot       Key = 0x63
	Key102ND       Key = 0x64
	KeyCompose     Key = 0x65
	KeyPower       Key = 0x66
	KeyKPEqual     Key = 0x67
	KeyF13         Key = 0x68
	KeyF24         Key = 0x73
	KeyMute        Key = 0x7F
	KeyVolumeUp    Key = 0x80
	KeyVolumeDown  Key = 0x81
	KeyKPComma     Key = 0x85
	KeyRo          Key = 0x87
	KeyKatakana    Key = 0x88
	KeyYen         Key = 0x89
	KeyHenkan      Key = 0x8A
	KeyMuhenkan    Key = 0x8B
	KeyLeftCtrl    Key = 0xE0
	KeyLeftShift   Key = 0xE1
	KeyLeftAlt     Key = 0xE2
	KeyLeftMeta    Key = 0xE3
	KeyRightCtrl   Key = 0xE4
	KeyRightShift  Key = 0xE5
	KeyRightAlt    Key = 0xE6
	KeyRightMeta   Key = 0xE7
)

const (
	ModLeftCtrl   Modifier = 0x01
	ModLeftShift  Modifier = 0x02
	ModLeftAlt    Modifier = 0x04
	ModLeftMeta   Modifier = 0x08
	ModRightCtrl  Modifier = 0x10
	ModRightShift Modifier = 0x20
	ModRightAlt   Modifier = 0x40
	ModRightMeta  Modifier = 0x80

	// ModMask covers the seven modifiers a key event can carry.
	ModMask Modifier = 0x7F
)

var keyNames = map[Key]string{
	KeyNone: "NONE", KeyErrRollover: "ERR_ROLLOVER",
	KeyEnter: "ENTER", KeyEscape: "ESC", KeyBackspace: "BACKSPACE", KeyTab: "TAB",
	KeySpace: "SPACE", KeyMinus: "MINUS", KeyEqual: "EQUAL", KeyLeftBrace: "LEFTBRACE",
	KeyRightBrace: "RIGHTBRACE", KeyBackslash: "BACKSLASH", KeyHashTilde: "HASHTILDE",
	KeySemicolon: "SEMICOLON", KeyApostrophe: "APOSTROPHE", KeyGrave: "GRAVE",
	KeyComma: "COMMA", KeyDot: "DOT", KeySlash: "SLASH", KeyCapsLock: "CAPSLOCK",
	KeyPrintScreen: "SYSRQ", KeyScrollLock: "SCROLLLOCK", KeyPause: "PAUSE",
	KeyInsert: "INSERT", KeyHome: "HOME", KeyPageUp: "PAGEUP", KeyDelete: "DELETE",
	KeyEnd: "END", KeyPageDown: "PAGEDOWN", KeyRight: "RIGHT", KeyLeft: "LEFT",
	KeyDown: "DOWN", KeyUp: "UP", KeyNumLock: "NUMLOCK", KeyKPSlash: "KPSLASH",
	KeyKPAsterisk: "KPASTERISK", KeyKPMinus: "KPMINUS", KeyKPPlus: "KPPLUS",
	KeyKPEnter: "KPENTER", KeyKPDot: "KPDOT", Key102ND: "102ND", KeyCompose: "COMPOSE",
	KeyPower: "POWER", KeyKPEqual: "KPEQUAL", KeyMute: "MUTE", KeyVolumeUp: "VOLUMEUP",
	KeyVolumeDown: "VOLUMEDOWN", KeyKPComma: "KPCOMMA", KeyRo: "RO",
	KeyKatakana: "KATAKANA", KeyYen: "YEN", KeyHenkan: "HENKAN", KeyMuhenkan: "MUHENKAN",
	KeyLeftCtrl: "LEFTCTRL", KeyLeftShift: "LEFTSHIFT", KeyLeftAlt: "LEFTALT",
	KeyLeftMeta: "LEFTMETA", KeyRightCtrl: "RIGHTCTRL", KeyRightShift: "RIGHTSHIFT",
	KeyRightAlt: "RIGHTALT", KeyRightMeta: "RIGHTMETA",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return "KEY_" + string(rune('A'+k-KeyA))
	case k >= Key1 && k <= Key9:
		return "KEY_" + string(rune('1'+k-Key1))
	case k == Key0:
		return "KEY_0"
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("KEY_F%d", k-KeyF1+1)
	case k >= KeyF13 && k <= KeyF24:
		return fmt.Sprintf("KEY_F%d", k-KeyF13+13)
	case k >= KeyKP1 && k <= KeyKP9:
		return fmt.Sprintf("KEY_KP%d", k-KeyKP1+1)
	case k == KeyKP0:
		return "KEY_KP0"
	}
	if s, ok := keyNames[k]; ok {
		return "KEY_" + s
	}
	return fmt.Sprintf("KEY_%#02x", byte(k))
}

var modNames = [8]string{
	"LEFT_CONTROL", "LEFT_SHIFT", "LEFT_ALT", "LEFT_GUI",
	"RIGHT_CONTROL", "RIGHT_SHIFT", "RIGHT_ALT", "RIGHT_GUI",
}

func (m Modifier) String() string {
	if m == 0 {
		return "MOD_NONE"
	}
	var names []string
	for i, n := range modNames {
		if m&(1<<uint(i)) != 0 {
			names = append(names, "MOD_"+n)
		}
	}
	return strings.Join(names, "|")
}

// KeyEvent is one physical key transition. A modifier transition carries
// the modifier in Modifiers and leaves Key as KeyNone.
type KeyEvent struct {
	Key       Key
	Pressed   bool
	Modifiers Modifier
}

func (ev KeyEvent) String() string {
	dir := "up"
	if ev.Pressed {
		dir = "down"
	}
	if ev.Modifiers != 0 {
		return fmt.Sprintf("%s %s", ev.Modifiers, dir)
	}
	return fmt.Sprintf("%s %s", ev.Key, dir)
}

// ModifierKey maps a modifier usage (0xE0-0xE7) to its bit.
func ModifierKey(k Key) (Modifier, bool) {
	if k < KeyLeftCtrl || k > KeyRightMeta {
		return 0, false
	}
	return Modifier(1 << uint(k-KeyLeftCtrl)), true
}
