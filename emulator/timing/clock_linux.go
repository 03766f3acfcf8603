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
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

// Raw reads CLOCK_MONOTONIC_RAW, which is not slewed by NTP.
type Raw struct {
	base time.Duration
}

func NewRaw() (*Raw, error) {
	c := &Raw{}
	now, err := c.read()
	if err != nil {
		return nil, err
	}
	c.base = now
	return c, nil
}

func (c *Raw) read() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Nano()), nil
}

func (c *Raw) Now() time.Duration {
	now, _ := c.read()
	return now - c.base
}

func (c *Raw) Delay(d time.Duration) {
	deadline := c.Now() + d
	if d > spinWindow {
		time.Sleep(d - spinWindow)
	}
	for c.Now() < deadline {
	}
}

// Realtime pins the calling goroutine to its OS thread, binds that thread
// to cpu and locks the process memory. A negative cpu skips the affinity.
func Realtime(cpu int) error {
	runtime.LockOSThread()

	if cpu >= 0 {
		var set unix.CPUSet
		set.Zero()
		set.Set(cpu)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			return fmt.Errorf("set affinity to cpu %d: %w", cpu, err)
		}
	}
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("lock memory: %w", err)
	}
	return nil
}
