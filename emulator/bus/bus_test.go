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

package bus

import "testing"

type lines struct {
	clk, data bool
}

func (l *lines) Clock() bool        { return l.clk }
func (l *lines) Data() bool         { return l.data }
func (l *lines) SetClock(high bool) { l.clk = high }
func (l *lines) SetData(high bool)  { l.data = high }

func TestSample(t *testing.T) {
	tests := []struct {
		clk, data bool
		want      State
	}{
		{false, false, BothLow},
		{true, false, ClockHigh},
		{false, true, DataHigh},
		{true, true, Idle},
	}

	l := &lines{}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			l.SetClock(tt.clk)
			l.SetData(tt.data)
			if s := Sample(l); s != tt.want {
				t.Errorf("Sample() = %v, want %v", s, tt.want)
			}
		})
	}
}

func TestSampleIsLive(t *testing.T) {
	l := &lines{clk: true, data: true}
	if Sample(l) != Idle {
		t.Fatal("expected idle bus")
	}
	l.SetData(false)
	if Sample(l) != ClockHigh {
		t.Fatal("Sample did not reflect the data line change")
	}
}
