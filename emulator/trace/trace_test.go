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

package trace

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/gopacket"
)

func TestRoundTrip(t *testing.T) {
	start := time.Unix(1000, 0)
	var buf bytes.Buffer

	w, err := NewWriter(&buf, start)
	if err != nil {
		t.Fatal(err)
	}

	input := []struct {
		fromHost bool
		value    byte
		at       time.Duration
	}{
		{true, 0xFF, 100 * time.Microsecond},
		{false, 0xFA, 2 * time.Millisecond},
		{false, 0xAA, 500 * time.Millisecond},
	}
	for _, in := range input {
		if err := w.RecordByte(in.fromHost, in.value, in.at); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(input) {
		t.Fatalf("got %d records", len(records))
	}
	for i, in := range input {
		r := records[i]
		if r.FromHost != in.fromHost || r.Value != in.value {
			t.Errorf("%d: got %v", i, &r.PS2)
		}
		if want := start.Add(in.at); !r.At.Equal(want) {
			t.Errorf("%d: timestamp %v, want %v", i, r.At, want)
		}
	}
}

func TestShortPacket(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.w.WritePacket(gopacket.CaptureInfo{CaptureLength: 1, Length: 1}, []byte{1}); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(&buf); err == nil {
		t.Error("expected decode error")
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Read(bytes.NewReader(nil)); err == nil {
		t.Error("expected error on empty input")
	}
}
