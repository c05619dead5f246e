// This file is part of RDP Plus.
//
// RDP Plus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RDP Plus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RDP Plus.  If not, see <https://www.gnu.org/licenses/>.

// Package sdl presents frames in an SDL window through the SDL renderer
// API, with a streaming texture sized to whatever frame the video interface
// produces. The window appears when the first frame arrives and resizes
// itself whenever the frame geometry changes.
//
// SDL wants its video calls on the main OS thread. Callers should lock the
// main goroutine to its thread and drive the video interface from there.
package sdl

import (
	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/logger"
	"github.com/StenApp/angrylion-rdp-plus/screen"

	gosdl "github.com/veandco/go-sdl2/sdl"
)

// UserQuit is returned by Swap() when the window is closed or escape is
// pressed.
const UserQuit = "sdl: user quit"

// Screen is an SDL renderer implementation of the screen.Screen interface.
type Screen struct {
	window   *gosdl.Window
	renderer *gosdl.Renderer
	texture  *gosdl.Texture

	// dimensions of the current texture. a frame with different dimensions
	// recreates it
	texW int32
	texH int32

	pixels []byte
	scale  float32

	visible bool
	closed  bool
}

// NewScreen creates a hidden SDL window ready to receive frames. The scale
// factor multiplies the frame size into the window size.
func NewScreen(title string, scale float32) (*Screen, error) {
	if scale <= 0 {
		scale = 1
	}

	if err := gosdl.Init(gosdl.INIT_VIDEO); err != nil {
		return nil, curated.Errorf("sdl: %v", err)
	}

	scr := &Screen{scale: scale}

	var err error

	// the window is sized on the first frame
	scr.window, err = gosdl.CreateWindow(title,
		int32(gosdl.WINDOWPOS_UNDEFINED), int32(gosdl.WINDOWPOS_UNDEFINED),
		0, 0,
		uint32(gosdl.WINDOW_HIDDEN))
	if err != nil {
		return nil, curated.Errorf("sdl: %v", err)
	}

	scr.renderer, err = gosdl.CreateRenderer(scr.window, -1, uint32(gosdl.RENDERER_ACCELERATED))
	if err != nil {
		return nil, curated.Errorf("sdl: %v", err)
	}

	return scr, nil
}

// Upload implements the screen.Screen interface.
func (scr *Screen) Upload(frm screen.Frame) error {
	if frm.Width <= 0 || frm.TargetHeight <= 0 {
		return nil
	}

	w := int32(frm.Width)
	h := int32(frm.TargetHeight)

	if scr.texture == nil || scr.texW != w || scr.texH != h {
		if scr.texture != nil {
			_ = scr.texture.Destroy()
		}

		var err error
		scr.texture, err = scr.renderer.CreateTexture(uint32(gosdl.PIXELFORMAT_ABGR8888),
			int(gosdl.TEXTUREACCESS_STREAMING), w, h)
		if err != nil {
			return curated.Errorf("sdl: %v", err)
		}
		scr.texW = w
		scr.texH = h

		scr.window.SetSize(int32(float32(w)*scr.scale), int32(float32(h)*scr.scale))
		logger.Logf("sdl", "display %dx%d", w, h)
	}

	scr.pixels = screen.Resample(frm, scr.pixels)

	if err := scr.texture.Update(nil, scr.pixels, frm.Width*screen.PixelDepth); err != nil {
		return curated.Errorf("sdl: %v", err)
	}

	return nil
}

// Swap implements the screen.Screen interface. Window events are serviced
// here; closing the window or pressing escape returns the UserQuit error.
func (scr *Screen) Swap() error {
	if scr.texture == nil {
		return nil
	}

	if !scr.visible {
		scr.window.Show()
		scr.visible = true
	}

	if err := scr.renderer.Copy(scr.texture, nil, nil); err != nil {
		return curated.Errorf("sdl: %v", err)
	}
	scr.renderer.Present()

	for ev := gosdl.PollEvent(); ev != nil; ev = gosdl.PollEvent() {
		switch ev := ev.(type) {
		case *gosdl.QuitEvent:
			return curated.Errorf(UserQuit)
		case *gosdl.KeyboardEvent:
			if ev.Type == gosdl.KEYDOWN && ev.Keysym.Sym == gosdl.K_ESCAPE {
				return curated.Errorf(UserQuit)
			}
		}
	}

	return nil
}

// Close implements the screen.Screen interface. Safe to call more than
// once.
func (scr *Screen) Close() error {
	if scr.closed {
		return nil
	}
	scr.closed = true

	if scr.texture != nil {
		_ = scr.texture.Destroy()
	}
	if scr.renderer != nil {
		_ = scr.renderer.Destroy()
	}
	if scr.window != nil {
		_ = scr.window.Destroy()
	}
	gosdl.Quit()

	return nil
}
