//go:build sdl

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
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"
)

type sdlPlatform struct {
	handler

	postInitConfigs []func(*sdlPlatform) error
	cleanCallBacks  []func(*sdlPlatform)

	quitChan chan struct{}

	sdlFlags, sdlWindowFlags uint32
	windowSizeX, windowSizeY int32

	indicator int32

	window   *sdl.Window
	renderer *sdl.Renderer
}

func registerPostConfig(p internalPlatform, cfg func(*sdlPlatform) error) {
	sp := p.(*sdlPlatform)
	sp.postInitConfigs = append(sp.postInitConfigs, cfg)
}

func registerCleanup(p internalPlatform, cb func(p *sdlPlatform)) {
	sp := p.(*sdlPlatform)
	sp.cleanCallBacks = append(sp.cleanCallBacks, cb)
}

func ConfigWithWindowSize(w, h int) Config {
	return func(p internalPlatform) error {
		if sp, ok := p.(*sdlPlatform); ok {
			sp.windowSizeX = int32(w)
			sp.windowSizeY = int32(h)
		}
		return nil
	}
}

func sdlStart(mainLoop func(Platform), configs ...Config) error {
	p := &sdlPlatform{
		windowSizeX:    320,
		windowSizeY:    120,
		sdlWindowFlags: sdl.WINDOW_RESIZABLE,
	}

	var startErr error
	sdl.Main(func() {
		startErr = func() error {
			for _, cfg := range configs {
				if err := cfg(p); err != nil {
					return err
				}
			}

			var err error
			sdl.Do(func() {
				err = sdl.Init(p.sdlFlags)
			})
			if err != nil {
				return err
			}
			defer sdl.Do(sdl.Quit)

			for _, cfg := range p.postInitConfigs {
				if err := cfg(p); err != nil {
					return err
				}
			}

			defer func() {
				for _, cb := range p.cleanCallBacks {
					cb(p)
				}
			}()

			if err := p.initializeVideo(); err != nil {
				return err
			}
			if err := p.initializeSDLEvents(); err != nil {
				return err
			}

			Instance = p
			mainLoop(p)
			return nil
		}()
	})
	return startErr
}

func (p *sdlPlatform) initializeVideo() error {
	var err error
	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
			return
		}

		sdl.SetHint(sdl.HINT_WINDOWS_NO_CLOSE_ON_ALT_F4, "1")
		if p.window, p.renderer, err = sdl.CreateWindowAndRenderer(p.windowSizeX, p.windowSizeY, p.sdlWindowFlags); err != nil {
			return
		}
		p.window.SetTitle("VirtualPS2")
		err = p.renderer.SetLogicalSize(320, 120)
	})
	if err != nil {
		return err
	}

	registerCleanup(p, shutdownVideo)
	return nil
}

func shutdownVideo(p *sdlPlatform) {
	sdl.Do(func() {
		p.renderer.Destroy()
		p.window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
	})
}

// render draws the indicator. It must run on the SDL thread.
func (p *sdlPlatform) render() {
	p.renderer.SetDrawColor(0x20, 0x20, 0x20, 0xFF)
	p.renderer.Clear()

	if atomic.LoadInt32(&p.indicator) != 0 {
		p.renderer.SetDrawColor(0x30, 0xE0, 0x30, 0xFF)
	} else {
		p.renderer.SetDrawColor(0x40, 0x50, 0x40, 0xFF)
	}
	p.renderer.FillRect(&sdl.Rect{X: 280, Y: 10, W: 30, H: 12})
	p.renderer.Present()
}

func (p *sdlPlatform) SetTitle(title string) {
	sdl.Do(func() {
		p.window.SetTitle(title)
	})
}

func (p *sdlPlatform) SetStatus(msg string) {
	sdl.Do(func() {
		p.window.SetTitle("VirtualPS2 - " + msg)
	})
}

func (p *sdlPlatform) SetIndicator(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&p.indicator, v)
}
