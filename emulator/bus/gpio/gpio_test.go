//go:build linux

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

package gpio

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"unsafe"

	"github.com/andreas-jonsson/virtualps2/emulator/debug"
)

func TestABI(t *testing.T) {
	tests := []struct {
		name string
		size uintptr
		req  uintptr
	}{
		{"handle request", unsafe.Sizeof(handleRequest{}), getLineHandleIoctl},
		{"get values", unsafe.Sizeof(handleData{}), getLineValuesIoctl},
		{"set values", unsafe.Sizeof(handleData{}), setLineValuesIoctl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.req >> 16 & 0x3FFF; size != tt.size {
				t.Errorf("ioctl encodes size %d, struct is %d", size, tt.size)
			}
		})
	}
}

func TestOpenMissingChip(t *testing.T) {
	if _, err := Open(Config{Chip: "/dev/does-not-exist", LED: -1}); err == nil {
		t.Error("expected error")
	}
}

func TestLineErrorLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	defer debug.SetOutput(os.Stderr)

	l := &line{fd: -1, offset: 17}
	l.set(true)
	l.set(false)
	if !l.get() {
		t.Error("failed read should report a released line")
	}

	if n := strings.Count(buf.String(), "line 17"); n != 1 {
		t.Errorf("logged %d times:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "could not write") {
		t.Errorf("log %q", buf.String())
	}
}
