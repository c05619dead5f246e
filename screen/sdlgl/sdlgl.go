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

// Package sdlgl presents frames through an OpenGL 2.1 context in an SDL
// window. Frames are uploaded into a single texture and drawn as a
// screen-filling quad with the fixed-function pipeline. The swap is
// synchronised with the vertical retrace when the driver allows it.
//
// Like the sdl package, all calls must happen on the main OS thread. The
// NewScreen() function locks the calling goroutine to its thread.
package sdlgl

import (
	"runtime"

	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/logger"
	"github.com/StenApp/angrylion-rdp-plus/screen"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/veandco/go-sdl2/sdl"
)

// UserQuit is returned by Swap() when the window is closed or escape is
// pressed.
const UserQuit = "sdlgl: user quit"

// Screen is an OpenGL implementation of the screen.Screen interface.
type Screen struct {
	window    *sdl.Window
	glContext sdl.GLContext

	texture uint32

	// create is true when the next upload must allocate texture storage
	// rather than overwrite it
	create bool
	texW   int32
	texH   int32

	pixels []byte
	scale  float32

	visible bool
	closed  bool
}

// NewScreen creates a hidden SDL window with an OpenGL 2.1 context. The
// scale factor multiplies the frame size into the window size.
func NewScreen(title string, scale float32) (*Screen, error) {
	// the SDL package calls LockOSThread() but we call it here too. it can't
	// hurt and we never unlock it in any case
	runtime.LockOSThread()

	if scale <= 0 {
		scale = 1
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}

	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2); err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1); err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}

	scr := &Screen{scale: scale}

	var err error

	// the window is sized on the first frame
	scr.window, err = sdl.CreateWindow(title,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		0, 0,
		uint32(sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN))
	if err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}

	scr.glContext, err = scr.window.GLCreateContext()
	if err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}
	if err := scr.window.GLMakeCurrent(scr.glContext); err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}

	if err := sdl.GLSetSwapInterval(1); err != nil {
		logger.Logf("sdlgl", "swap interval: %v", err)
	}

	if err := gl.Init(); err != nil {
		return nil, curated.Errorf("sdlgl: %v", err)
	}

	// log GPU vendor information
	logger.Logf("sdlgl", "vendor: %s", gl.GoStr(gl.GetString(gl.VENDOR)))
	logger.Logf("sdlgl", "renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	logger.Logf("sdlgl", "driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.GenTextures(1, &scr.texture)
	gl.BindTexture(gl.TEXTURE_2D, scr.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	scr.create = true

	return scr, nil
}

// Upload implements the screen.Screen interface.
func (scr *Screen) Upload(frm screen.Frame) error {
	if frm.Width <= 0 || frm.TargetHeight <= 0 {
		return nil
	}

	w := int32(frm.Width)
	h := int32(frm.TargetHeight)

	if scr.texW != w || scr.texH != h {
		scr.create = true
		scr.texW = w
		scr.texH = h

		scr.window.SetSize(int32(float32(w)*scr.scale), int32(float32(h)*scr.scale))
		logger.Logf("sdlgl", "display %dx%d", w, h)
	}

	scr.pixels = screen.Resample(frm, scr.pixels)

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, scr.texture)

	if scr.create {
		scr.create = false
		gl.TexImage2D(gl.TEXTURE_2D, 0,
			gl.RGBA, w, h, 0,
			gl.RGBA, gl.UNSIGNED_BYTE,
			gl.Ptr(scr.pixels))
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0,
			0, 0, w, h,
			gl.RGBA, gl.UNSIGNED_BYTE,
			gl.Ptr(scr.pixels))
	}

	return nil
}

// Swap implements the screen.Screen interface. Window events are serviced
// here; closing the window or pressing escape returns the UserQuit error.
func (scr *Screen) Swap() error {
	if scr.texW == 0 || scr.texH == 0 {
		return nil
	}

	if !scr.visible {
		scr.window.Show()
		scr.visible = true
	}

	fbw, fbh := scr.window.GLGetDrawableSize()
	gl.Viewport(0, 0, fbw, fbh)

	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, 1, 1, 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	gl.Enable(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, scr.texture)

	gl.Begin(gl.QUADS)
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(0, 0)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(1, 0)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(1, 1)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(0, 1)
	gl.End()

	scr.window.GLSwap()

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return curated.Errorf(UserQuit)
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
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

	if scr.texture != 0 {
		gl.DeleteTextures(1, &scr.texture)
	}
	if scr.glContext != nil {
		sdl.GLDeleteContext(scr.glContext)
	}
	if scr.window != nil {
		_ = scr.window.Destroy()
	}
	sdl.Quit()

	return nil
}
