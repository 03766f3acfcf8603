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

package platform

import (
	"sync"

	"github.com/andreas-jonsson/virtualps2/emulator/debug"
	"github.com/gdamore/tcell"
)

type tcellPlatform struct {
	handler

	mu        sync.Mutex
	screen    tcell.Screen
	title     string
	status    string
	indicator bool
}

type redrawEvent struct{}

func tcellStart(mainLoop func(Platform), configs ...Config) error {
	p := &tcellPlatform{title: "VirtualPS2"}
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			return err
		}
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	var err error
	if p.screen, err = tcell.NewScreen(); err != nil {
		return err
	}
	s := p.screen

	if err = s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	debug.MuteLogging(true)
	defer debug.MuteLogging(false)

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	Instance = p
	p.initializeTcellEvents()
	p.redraw()

	mainLoop(p)
	return nil
}

func (p *tcellPlatform) SetTitle(title string) {
	p.mu.Lock()
	p.title = title
	p.mu.Unlock()
	p.redraw()
}

func (p *tcellPlatform) SetStatus(msg string) {
	p.mu.Lock()
	p.status = msg
	p.mu.Unlock()
	p.redraw()
}

func (p *tcellPlatform) SetIndicator(on bool) {
	p.mu.Lock()
	changed := p.indicator != on
	p.indicator = on
	p.mu.Unlock()
	if changed {
		p.redraw()
	}
}

func (p *tcellPlatform) redraw() {
	p.screen.PostEvent(tcell.NewEventInterrupt(redrawEvent{}))
}
