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

package debug

import (
	"bytes"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

var (
	debugAddr string
	tcpDebug  net.Conn
)

var (
	internalLogger = &Logger{out: os.Stderr}
	Log            = log.New(internalLogger, "", log.LstdFlags)
)

// Logger is the process log writer. Output goes to stderr unless muted and
// is mirrored to a connected TCP client.
type Logger struct {
	sync.RWMutex
	out  io.Writer
	mute bool
}

func (l *Logger) Write(p []byte) (n int, err error) {
	l.Lock()
	defer l.Unlock()

	n = len(p)
	if !l.mute {
		if _, err = l.out.Write(p); err != nil {
			return 0, err
		}
	}
	if tcpDebug != nil {
		p = bytes.ReplaceAll(p, []byte{0xA}, []byte{0xA, 0xD})
		if _, err := tcpDebug.Write(p); err != nil {
			tcpDebug.Close()
			tcpDebug = nil
		}
	}
	return n, nil
}

func init() {
	flag.StringVar(&debugAddr, "debug-addr", "", "Mirror log output to TCP clients connecting to this address")
	log.SetOutput(internalLogger)
}

// MuteLogging stops log output to stderr, for when the terminal is owned by
// a full screen key source. The TCP mirror is unaffected.
func MuteLogging(b bool) {
	internalLogger.Lock()
	internalLogger.mute = b
	internalLogger.Unlock()
}

// SetOutput replaces the local log destination.
func SetOutput(w io.Writer) {
	internalLogger.Lock()
	internalLogger.out = w
	internalLogger.Unlock()
}

// Listen accepts TCP clients on the address given with -debug-addr, or addr
// if that flag is empty. The most recent client receives the log mirror.
func Listen(addr string) (net.Listener, error) {
	if debugAddr != "" {
		addr = debugAddr
	}
	if addr == "" {
		return nil, nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			internalLogger.Lock()
			if tcpDebug != nil {
				tcpDebug.Close()
			}
			tcpDebug = conn
			internalLogger.Unlock()

			name, _ := os.Hostname()
			log.Print("Connected to: ", name)
		}
	}()
	return ln, nil
}
