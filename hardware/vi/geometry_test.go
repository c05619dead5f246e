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

	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/digest"
	"github.com/StenApp/angrylion-rdp-plus/test"
)

func newTestVI(t *testing.T, cfg Config) *VI {
	t.Helper()
	vid, err := NewVI(cfg, newTestMemory(t), digest.NewVideo())
	if err != nil {
		t.Fatal(err)
	}
	return vid
}

// unityRegs describes a 64x40 framebuffer drawn without scaling at the top
// left of the visible area.
func unityRegs() Registers {
	var regs Registers
	regs[RegStatus] = 0x302
	regs[RegOrigin] = 0x1000
	regs[RegWidth] = 64
	regs[RegVSync] = VSyncNTSC
	regs[RegHStart] = 128<<16 | 192
	regs[RegVStart] = 100<<16 | 180
	regs[RegXScale] = 0x400
	regs[RegYScale] = 0x400
	return regs
}

func TestGeometryUnity(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	ok, err := vid.resolveGeometry(unityRegs())
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	geo := vid.Geometry()
	test.Equate(t, geo.IsPAL, false)
	test.Equate(t, geo.HStart, 20)
	test.Equate(t, geo.HRes, 64)
	test.Equate(t, geo.VStart, 33)
	test.Equate(t, geo.VRes, 40)
	test.Equate(t, geo.VSync, 525)
	test.Equate(t, geo.VActiveLines, 245)
	test.Equate(t, geo.MinHPass, 8)
	test.Equate(t, geo.MaxHPass, 57)
	test.Equate(t, geo.LowerField, false)
	test.Equate(t, geo.LineCount, 640)
	test.Equate(t, geo.PrescalePtr, 21140)
	test.Equate(t, geo.Width, uint32(64))
	test.Equate(t, geo.FrameBuffer, uint32(0x1000))
	test.Equate(t, uint32(geo.XStart), 0)
	test.Equate(t, uint32(geo.XAdd), 0x400)
	test.Equate(t, uint32(geo.YStart), 0)
	test.Equate(t, uint32(geo.YAdd), 0x400)
}

func TestGeometryPAL(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegVSync] = VSyncPAL

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	geo := vid.Geometry()
	test.Equate(t, geo.IsPAL, true)
	test.Equate(t, geo.HStart, 0)
	test.Equate(t, geo.VStart, 28)
	test.Equate(t, geo.VActiveLines, 290)
	test.Equate(t, geo.PrescalePtr, 17920)

	// the PAL bias consumed the horizontal start exactly, so this is not a
	// clamped frame
	test.Equate(t, geo.MinHPass, 8)
}

func TestGeometryHStartClamp(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegHStart] = 50<<16 | 250

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	// the columns lost to the left edge are folded into the scale
	// accumulator
	geo := vid.Geometry()
	test.Equate(t, geo.HStart, 0)
	test.Equate(t, geo.HRes, 142)
	test.Equate(t, uint32(geo.XStart), 0xe800)
	test.Equate(t, geo.MinHPass, 0)
	test.Equate(t, geo.MaxHPass, 135)
}

func TestGeometryHResClamp(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegHStart] = 500<<16 | 1000

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	geo := vid.Geometry()
	test.Equate(t, geo.HStart, 392)
	test.Equate(t, geo.HRes, 248)
	test.Equate(t, geo.MinHPass, 8)
	test.Equate(t, geo.MaxHPass, 248)
}

func TestGeometryOversizedVSync(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegVSync] = 0x3ff

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedFailure(t, ok)
	if !curated.Is(err, OversizedVSync) {
		t.Errorf("expected oversized vsync error, got %v", err)
	}
}

func TestGeometryReservedType(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegStatus] = 0x341

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedFailure(t, ok)
	if !curated.Is(err, UnsupportedColorType) {
		t.Errorf("expected unsupported color type error, got %v", err)
	}
}

func TestGeometryShortVSync(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegVSync] = 20

	// too few lines to display anything but not an error
	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedFailure(t, ok)
}

func TestGeometrySoftwareInterlace(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	// serrate set but the current-line register never moves, so after two
	// frames the field must be inferred from the vertical start
	regs := unityRegs()
	regs[RegStatus] = 0x342
	regs[RegVCurrentLine] = 0

	exp := []bool{false, true, false, true}
	ptr := []int{42260, 42900, 42260, 42900}

	for i := range exp {
		ok, err := vid.resolveGeometry(regs)
		test.ExpectedSuccess(t, err)
		test.ExpectedSuccess(t, ok)

		geo := vid.Geometry()
		test.Equate(t, geo.LowerField, exp[i])
		test.Equate(t, geo.PrescalePtr, ptr[i])
		test.Equate(t, geo.LineCount, 1280)
		test.Equate(t, geo.VActiveLines, 491)
	}

	test.Equate(t, vid.emuControlsVCurrent, 0)
}

func TestGeometryHardwareInterlace(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegStatus] = 0x342

	// the current-line parity moves between the first two frames, marking
	// the register as hardware driven. an odd line means the upper field is
	// being drawn
	parity := []uint32{0, 1, 0}
	exp := []bool{false, false, true}

	for i := range exp {
		regs[RegVCurrentLine] = parity[i]
		ok, err := vid.resolveGeometry(regs)
		test.ExpectedSuccess(t, err)
		test.ExpectedSuccess(t, ok)
		test.Equate(t, vid.Geometry().LowerField, exp[i])
	}

	test.Equate(t, vid.emuControlsVCurrent, 1)
}

func TestGeometrySerrateVResClamp(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegStatus] = 0x342
	regs[RegVStart] = 100<<16 | 1023

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	// a serrated canvas holds half as many rows
	test.Equate(t, vid.Geometry().VRes, 279)
}

func TestGeometryBlankSequence(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	blank := unityRegs()
	blank[RegStatus] = 0x300
	color := unityRegs()

	// a blank frame renders once and repeats are skipped until the picture
	// comes back
	frames := []Registers{blank, blank, color, blank, blank}
	exp := []bool{true, false, true, true, false}

	for i := range frames {
		ok, err := vid.resolveGeometry(frames[i])
		test.ExpectedSuccess(t, err)
		test.Equate(t, ok, exp[i])
	}
}

func TestGeometryNullFramebuffer(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegStatus] = 0x300
	regs[RegOrigin] = 0

	// a frame without a framebuffer is dropped before the blank tracking
	// kicks in, so the following blank frame still renders
	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedFailure(t, ok)

	regs[RegOrigin] = 0x1000
	ok, err = vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	ok, err = vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedFailure(t, ok)
}

func TestGeometryNegativeVStart(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegVStart] = 20<<16 | 180

	ok, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ok)

	// rows lost above the visible area are folded into the vertical scale
	// accumulator
	geo := vid.Geometry()
	test.Equate(t, geo.VStart, 0)
	test.Equate(t, uint32(geo.YStart), 7*0x400)
}

func TestGeometryVBusWarning(t *testing.T) {
	vid := newTestVI(t, Config{Workers: 1})

	regs := unityRegs()
	regs[RegStatus] = 0x322

	test.Equate(t, vid.warnedVBus, false)
	_, err := vid.resolveGeometry(regs)
	test.ExpectedSuccess(t, err)
	test.Equate(t, vid.warnedVBus, true)
}
