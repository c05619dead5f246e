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

package vi

import (
	"testing"

	"github.com/StenApp/angrylion-rdp-plus/digest"
	"github.com/StenApp/angrylion-rdp-plus/hardware/rdram"
	"github.com/StenApp/angrylion-rdp-plus/test"
)

// gradientFill writes a fully covered 64x40 gradient to the framebuffer
// described by unityRegs().
func gradientFill(mem *rdram.RDRAM) {
	for y := uint32(0); y < 40; y++ {
		for x := uint32(0); x < 64; x++ {
			idx := 0x800 + y*64 + x
			mem.Write16(idx, gradientWord(x, y))
			mem.WriteHidden(idx, 3)
		}
	}
}

func gradientWord(x, y uint32) uint16 {
	r := uint16(x+3) & 0x1f
	g := uint16(y+5) & 0x1f
	b := uint16(x+y+7) & 0x1f
	return pack5551(r, g, b, 1)
}

// gradientPixel is the prescale value the gradient resolves to when no
// filter touches it: the three five bit channels widened to eight bits.
func gradientPixel(x, y uint32) uint32 {
	w := uint32(gradientWord(x, y))
	r := (w >> 11 & 0x1f) << 3
	g := (w >> 6 & 0x1f) << 3
	b := (w >> 1 & 0x1f) << 3
	return r<<16 | g<<8 | b
}

// lcgFill writes pseudo random pixels and hidden bits over the unityRegs()
// framebuffer, plus one extra row for the interpolator to read below the
// last line.
func lcgFill(mem *rdram.RDRAM) {
	seed := uint32(1)
	for y := uint32(0); y <= 40; y++ {
		for x := uint32(0); x < 64; x++ {
			seed = seed*1664525 + 1013904223
			idx := 0x800 + y*64 + x
			mem.Write16(idx, uint16(seed>>8))
			mem.WriteHidden(idx, uint8(seed>>24))
		}
	}
}

func TestEdgeGate(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})
	gradientFill(vid.mem)

	err := vid.Update(unityRegs())
	test.ExpectedSuccess(t, err)

	// the first line of the frame starts at prescale index 21140. the
	// seven columns at each edge are blacked out
	test.Equate(t, vid.prescale[21140+7], uint32(0))
	test.Equate(t, vid.prescale[21140+8], gradientPixel(8, 0))
	test.Equate(t, vid.prescale[21140+56], gradientPixel(56, 0))
	test.Equate(t, vid.prescale[21140+57], uint32(0))
}

func TestPixelIdentity(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})
	gradientFill(vid.mem)

	err := vid.Update(unityRegs())
	test.ExpectedSuccess(t, err)

	// replicate mode at unity scale is a straight copy. output column i of
	// line j holds source pixel (i, j)
	for _, j := range []uint32{0, 1, 17, 39} {
		for _, i := range []uint32{8, 20, 45, 56} {
			test.Equate(t, vid.prescale[21140+640*j+i], gradientPixel(i, j))
		}
	}
}

// swapRegs describes a frame that keeps every pixel interpolating (the
// vertical accumulator starts half way into a source row) at unity vertical
// scale, with the divot and gamma dither stages on. This is the layout where
// the scanline caches trade places after a worker's first line.
func swapRegs() Registers {
	regs := unityRegs()
	regs[RegStatus] = 0x16
	regs[RegYScale] = 0x200<<16 | 0x400
	return regs
}

func TestCacheSwapTransparency(t *testing.T) {
	mem := newTestMemory(t)
	lcgFill(mem)

	render := func(workers int, noSwap bool) string {
		t.Helper()

		dig := digest.NewVideo()
		vid, err := NewVI(Config{Workers: workers}, mem, dig)
		if err != nil {
			t.Fatal(err)
		}
		vid.noCacheSwap = noSwap

		for i := 0; i < 2; i++ {
			if err := vid.Update(swapRegs()); err != nil {
				t.Fatal(err)
			}
		}
		return dig.Hash()
	}

	// the caches are refilled ahead of every read, so trading them between
	// lines must not show up in the output, whichever worker renders which
	// line
	ref := render(1, false)
	test.Equate(t, render(1, true), ref)
	test.Equate(t, render(3, false), ref)
	test.Equate(t, render(3, true), ref)
}

func TestModeSwitchClear(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})
	gradientFill(vid.mem)

	err := vid.Update(unityRegs())
	test.ExpectedSuccess(t, err)
	test.Equate(t, vid.prescale[21148], gradientPixel(8, 0))

	// switching pipelines restarts the canvas from black. the unfiltered
	// pipeline packs its rows from the top left, leaving the filtered
	// frame's window untouched after the wipe
	vid.SetMode(ModeColor)
	err = vid.Update(unityRegs())
	test.ExpectedSuccess(t, err)
	test.Equate(t, vid.prescale[21148], uint32(0))
	test.Equate(t, vid.prescale[0], gradientPixel(0, 0))
}
