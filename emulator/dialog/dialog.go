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

package dialog

import (
	"os"
	"os/exec"
	"runtime"
	"sync/atomic"
)

var (
	mainMenuWasOpen,
	requestRestart,
	quitFlag int32
)

func OpenURL(url string) error {
	var (
		cmd  string
		args []string
	)

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default:
		cmd = "xdg-open"
	}

	if err := exec.Command(cmd, append(args, url)...).Start(); err != nil {
		return err
	}
	return nil
}

func OpenManual() error {
	defaultPath := "README.md"
	if p, ok := os.LookupEnv("VPS2_MANUAL"); ok {
		defaultPath = p
	}
	return OpenURL(defaultPath)
}

func MainMenuWasOpen() bool {
	return atomic.LoadInt32(&mainMenuWasOpen) != 0
}

// RequestRestart asks the main loop to reset the keyboard.
func RequestRestart() {
	atomic.StoreInt32(&requestRestart, 1)
}

// RestartRequested reports and clears a pending restart request.
func RestartRequested() bool {
	return atomic.SwapInt32(&requestRestart, 0) != 0
}

func ShutdownRequested() bool {
	return atomic.LoadInt32(&quitFlag) != 0
}

func Quit() {
	atomic.StoreInt32(&quitFlag, 1)
}
