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

package hid

import (
	"reflect"
	"testing"
)

func TestKeyString(t *testing.T) {
	tests := map[Key]string{
		KeyA:        "KEY_A",
		KeyZ:        "KEY_Z",
		Key1:        "KEY_1",
		Key0:        "KEY_0",
		KeyF12:      "KEY_F12",
		KeyKP0:      "KEY_KP0",
		KeyUp:       "KEY_UP",
		KeyLeftCtrl: "KEY_LEFTCTRL",
		Key(0xA5):   "KEY_0xa5",
	}
	for k, want := range tests {
		if s := k.String(); s != want {
			t.Errorf("%d.String() = %q, want %q", byte(k), s, want)
		}
	}
}

func TestModifierString(t *testing.T) {
	if s := (ModLeftShift | ModRightAlt).String(); s != "MOD_LEFT_SHIFT|MOD_RIGHT_ALT" {
		t.Errorf("got %q", s)
	}
	if s := Modifier(0).String(); s != "MOD_NONE" {
		t.Errorf("got %q", s)
	}
}

func TestModifierKey(t *testing.T) {
	if m, ok := ModifierKey(KeyLeftShift); !ok || m != ModLeftShift {
		t.Errorf("left shift maps to %v", m)
	}
	if m, ok := ModifierKey(KeyRightAlt); !ok || m != ModRightAlt {
		t.Errorf("right alt maps to %v", m)
	}
	if _, ok := ModifierKey(KeyA); ok {
		t.Error("KeyA is not a modifier")
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur Report
		want      []KeyEvent
	}{
		{
			name: "press",
			cur:  Report{0, 0, byte(KeyA)},
			want: []KeyEvent{{Key: KeyA, Pressed: true}},
		},
		{
			name: "release",
			prev: Report{0, 0, byte(KeyA)},
			want: []KeyEvent{{Key: KeyA}},
		},
		{
			name: "held",
			prev: Report{0, 0, byte(KeyA)},
			cur:  Report{0, 0, byte(KeyA)},
		},
		{
			name: "release before press",
			prev: Report{0, 0, byte(KeyA)},
			cur:  Report{0, 0, byte(KeyB)},
			want: []KeyEvent{{Key: KeyA}, {Key: KeyB, Pressed: true}},
		},
		{
			name: "modifiers in bit order",
			cur:  Report{byte(ModRightShift | ModLeftCtrl)},
			want: []KeyEvent{
				{Pressed: true, Modifiers: ModLeftCtrl},
				{Pressed: true, Modifiers: ModRightShift},
			},
		},
		{
			name: "modifier then key",
			prev: Report{byte(ModLeftShift)},
			cur:  Report{0, 0, byte(KeyA)},
			want: []KeyEvent{{Modifiers: ModLeftShift}, {Key: KeyA, Pressed: true}},
		},
		{
			name: "right gui dropped",
			cur:  Report{byte(ModRightMeta)},
		},
		{
			name: "rollover ignored",
			prev: Report{0, 0, byte(KeyA)},
			cur:  Report{0, 0, 1, 1, 1, 1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diff(tt.prev, tt.cur); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracker(t *testing.T) {
	var tr Tracker
	tr.Update(Report{byte(ModLeftAlt), 0, byte(KeyTab)})
	if ev := tr.Update(Report{0, 0, 1, 1, 1, 1, 1, 1}); ev != nil {
		t.Errorf("rollover produced %v", ev)
	}

	want := []KeyEvent{{Modifiers: ModLeftAlt}, {Key: KeyTab}}
	if got := tr.Release(); !reflect.DeepEqual(got, want) {
		t.Errorf("Release() = %v, want %v", got, want)
	}
	if got := tr.Release(); got != nil {
		t.Errorf("second Release() = %v", got)
	}
}
