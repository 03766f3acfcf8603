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

// Report is an 8 byte boot protocol keyboard report: modifier bits,
// a reserved byte and up to six pressed keys.
type Report [8]byte

func (r Report) Modifiers() Modifier {
	return Modifier(r[0])
}

func (r Report) Keys() []Key {
	keys := make([]Key, 0, 6)
	for _, k := range r[2:] {
		if k != byte(KeyNone) {
			keys = append(keys, Key(k))
		}
	}
	return keys
}

// Rollover reports whether the keyboard signalled phantom state, in which
// case the report must be ignored.
func (r Report) Rollover() bool {
	for _, k := range r[2:] {
		if k != byte(KeyErrRollover) {
			return false
		}
	}
	return true
}

func (r Report) has(k Key) bool {
	for _, c := range r[2:] {
		if Key(c) == k {
			return true
		}
	}
	return false
}

// Diff returns the key events that take a keyboard from prev to cur.
// Modifier changes come first, one event per bit in increasing order,
// followed by releases and then presses. The right GUI bit is not
// representable and is dropped.
func Diff(prev, cur Report) []KeyEvent {
	if cur.Rollover() {
		return nil
	}

	var events []KeyEvent
	if changed := (prev.Modifiers() ^ cur.Modifiers()) & ModMask; changed != 0 {
		for bit := Modifier(1); bit&ModMask != 0; bit <<= 1 {
			if changed&bit != 0 {
				events = append(events, KeyEvent{Pressed: cur.Modifiers()&bit != 0, Modifiers: bit})
			}
		}
	}

	for _, k := range prev.Keys() {
		if k != KeyErrRollover && !cur.has(k) {
			events = append(events, KeyEvent{Key: k})
		}
	}
	for _, k := range cur.Keys() {
		if !prev.has(k) {
			events = append(events, KeyEvent{Key: k, Pressed: true})
		}
	}
	return events
}

// Tracker diffs each report against the previous one.
type Tracker struct {
	last Report
}

func (t *Tracker) Update(r Report) []KeyEvent {
	if r.Rollover() {
		return nil
	}
	events := Diff(t.last, r)
	t.last = r
	return events
}

// Release returns the events that let go of everything currently held.
func (t *Tracker) Release() []KeyEvent {
	return t.Update(Report{})
}
