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

package timing

import (
	"testing"
	"time"
)

func TestPhases(t *testing.T) {
	if d := Default.LowPhase() + Default.HandlerCost + Default.HighPhase(); d != Default.BitCell() {
		t.Errorf("low+cost+high = %v, bit cell is %v", d, Default.BitCell())
	}
	if Default.BitCell() != 40*time.Microsecond {
		t.Errorf("bit cell is %v", Default.BitCell())
	}

	tm := Default
	tm.HandlerCost = time.Millisecond
	if tm.LowPhase() != 0 {
		t.Errorf("low phase underflow: %v", tm.LowPhase())
	}
}

func TestMonotonicDelay(t *testing.T) {
	c := NewMonotonic()
	for _, d := range []time.Duration{0, 50 * time.Microsecond, time.Millisecond} {
		start := c.Now()
		c.Delay(d)
		if el := c.Now() - start; el < d {
			t.Errorf("Delay(%v) returned after %v", d, el)
		}
	}
}

func TestRawClock(t *testing.T) {
	c, err := NewRaw()
	if err != nil {
		t.Fatal(err)
	}
	a := c.Now()
	c.Delay(100 * time.Microsecond)
	if b := c.Now(); b-a < 100*time.Microsecond {
		t.Errorf("raw clock advanced %v", b-a)
	}
}
