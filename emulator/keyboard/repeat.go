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

package keyboard

import (
	"time"

	"github.com/andreas-jonsson/virtualps2/emulator/hid"
)

// Repeater tracks the one held key that autorepeats.
type Repeater struct {
	Interval time.Duration

	key   hid.Key
	armed bool
	since time.Duration
}

func (r *Repeater) Arm(k hid.Key, now time.Duration) {
	r.key = k
	r.armed = true
	r.since = now
}

func (r *Repeater) Clear() {
	r.armed = false
	r.key = hid.KeyNone
}

// Rearm restarts the interval for the current candidate.
func (r *Repeater) Rearm(now time.Duration) {
	r.since = now
}

func (r *Repeater) Armed() bool {
	return r.armed
}

func (r *Repeater) Key() hid.Key {
	return r.key
}

// Due reports whether more than one interval has passed since the
// candidate was last (re)armed.
func (r *Repeater) Due(now time.Duration) bool {
	return r.armed && now-r.since > r.Interval
}

// Break returns the break code of the candidate.
func (r *Repeater) Break() []byte {
	return translateKey(r.key, false)
}

// Make returns the make code of the candidate.
func (r *Repeater) Make() []byte {
	return translateKey(r.key, true)
}
