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
	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/logger"
)

// back porch offsets subtracted from the start coordinates, in columns and
// half lines. hardware calibration values, not derived from the timing
const (
	hBiasNTSC = 108
	hBiasPAL  = 128
	vBiasNTSC = 34
	vBiasPAL  = 44
)

// Geometry is the outcome of resolving a register snapshot into a frame
// layout. The engine keeps the geometry of the most recent Update() for
// diagnostic inspection; a skipped frame leaves the fields resolved up to the
// point the skip was decided.
type Geometry struct {
	Ctrl Control

	// PAL timing, decided by the vertical sync value
	IsPAL bool

	// source rectangle after bias and clamping. HStart and VStart are in
	// prescale canvas coordinates
	HStart int32
	VStart int32
	HRes   int32
	VRes   int32

	// scale accumulators
	XStart Fixed
	XAdd   Fixed
	YStart Fixed
	YAdd   Fixed

	// field selected by the interlace bookkeeping
	LowerField bool

	VSync        int32
	VActiveLines int32

	// columns outside [MinHPass, MaxHPass) are blacked out
	MinHPass int32
	MaxHPass int32

	// framebuffer origin (byte address) and width in pixels
	FrameBuffer uint32
	Width       uint32

	// prescale row layout: pixels per canvas line and the index of the first
	// pixel of the frame's first line
	LineCount   int32
	PrescalePtr int32

	// output dimensions of the unfiltered pipeline
	HResRaw int32
	VResRaw int32
}

// resolveGeometry turns a register snapshot into the frame layout for the
// filtered pipeline and advances the persistent interlace state. It returns
// false when the frame produces no output. Errors are fatal register
// combinations.
func (vid *VI) resolveGeometry(regs Registers) (bool, error) {
	geo := &vid.geom
	*geo = Geometry{}

	geo.VStart = int32(regs[RegVStart]>>16) & 0x3ff
	vEnd := int32(regs[RegVStart]) & 0x3ff
	geo.HStart = int32(regs[RegHStart]>>16) & 0x3ff
	hEnd := int32(regs[RegHStart]) & 0x3ff

	geo.HRes = hEnd - geo.HStart
	geo.VRes = (vEnd - geo.VStart) >> 1

	geo.Ctrl = DecodeControl(regs[RegStatus])
	if geo.Ctrl.Type == Reserved {
		return false, curated.Errorf(UnsupportedColorType, geo.Ctrl.Type)
	}

	if geo.Ctrl.VBusClock && !vid.warnedVBus {
		logger.Log("vi", "rendering with the vbus clock enable bit set would damage real hardware")
		vid.warnedVBus = true
	}

	geo.VSync = int32(regs[RegVSync]) & 0x3ff
	geo.XAdd = Fixed(regs[RegXScale] & 0xfff)

	// against-the-grain combination seen in titles that drive the interface
	// raw. the warning condition tests HStart before the bias is applied
	if geo.Ctrl.AA == AAReplicate && geo.Ctrl.Type == RGBA5551 &&
		geo.HStart < 0x80 && geo.XAdd <= 0x200 && !vid.warnedNoLerp {
		logger.Log("vi", "detected unfiltered lowres mode, the next frames may look corrupted")
		vid.warnedNoLerp = true
	}

	geo.IsPAL = geo.VSync > VSyncNTSC+25

	if geo.IsPAL {
		geo.HStart -= hBiasPAL
	} else {
		geo.HStart -= hBiasNTSC
	}

	geo.XStart = Fixed(regs[RegXScale]>>16) & 0xfff

	hStartClamped := false
	if geo.HStart < 0 {
		geo.XStart += geo.XAdd * Fixed(-geo.HStart)
		geo.HRes += geo.HStart
		geo.HStart = 0
		hStartClamped = true
	}

	// interlace bookkeeping. serrated frames alternate between the two
	// fields of the canvas. whether the program or the emulated hardware is
	// driving the current-line register is inferred once, from whether its
	// parity moved between the first two serrated frames
	validInterlace := geo.Ctrl.Type&2 != 0 && geo.Ctrl.Serrate
	if validInterlace && vid.prevSerrate && vid.emuControlsVCurrent < 0 {
		if regs[RegVCurrentLine]&1 != vid.prevVCurrent {
			vid.emuControlsVCurrent = 1
		} else {
			vid.emuControlsVCurrent = 0
		}
	}

	if validInterlace {
		switch vid.emuControlsVCurrent {
		case 1:
			geo.LowerField = regs[RegVCurrentLine]&1 == 0
		case 0:
			if geo.VStart == vid.oldVStart {
				geo.LowerField = !vid.oldLowerField
			} else {
				geo.LowerField = geo.VStart < vid.oldVStart
			}
		}
	}

	vid.oldLowerField = geo.LowerField

	if validInterlace {
		vid.prevSerrate = true
		vid.prevVCurrent = regs[RegVCurrentLine] & 1
		vid.oldVStart = geo.VStart
	} else {
		vid.prevSerrate = false
	}

	lineShift := int32(1)
	if geo.Ctrl.Serrate {
		lineShift = 0
	}

	vBias := int32(vBiasNTSC)
	if geo.IsPAL {
		vBias = vBiasPAL
	}

	geo.VStart = (geo.VStart - vBias) / 2

	geo.YStart = Fixed(regs[RegYScale]>>16) & 0xfff
	geo.YAdd = Fixed(regs[RegYScale] & 0xfff)

	if geo.VStart < 0 {
		geo.YStart += geo.YAdd * Fixed(-geo.VStart)
		geo.VStart = 0
	}

	hResClamped := false
	if geo.HRes+geo.HStart > PrescaleWidth {
		geo.HRes = PrescaleWidth - geo.HStart
		hResClamped = true
	}

	// a serrated frame writes two canvas lines per source line, halving the
	// rows the canvas can hold
	maxVRes := int32(PrescaleHeight)
	if geo.Ctrl.Serrate {
		maxVRes >>= 1
	}
	if geo.VRes+geo.VStart > maxVRes {
		logger.Logf("vi", "vertical resolution clamped from %d to %d", geo.VRes, maxVRes-geo.VStart)
		geo.VRes = maxVRes - geo.VStart
	}
	if geo.VRes < 0 {
		geo.VRes = 0
	}

	geo.VActiveLines = geo.VSync - vBias
	if geo.VActiveLines > PrescaleHeight {
		return false, curated.Errorf(OversizedVSync, geo.VSync)
	}
	if geo.VActiveLines < 0 {
		return false, nil
	}
	geo.VActiveLines >>= lineShift

	validH := geo.HRes > 0 && geo.HStart < PrescaleWidth

	geo.MinHPass = 8
	if hStartClamped {
		geo.MinHPass = 0
	}
	geo.MaxHPass = geo.HRes - 7
	if hResClamped {
		geo.MaxHPass = geo.HRes
	}

	// a blank frame renders once; repeats are skipped until the picture
	// comes back
	if geo.Ctrl.Type&2 == 0 && vid.prevWasBlank {
		return false, nil
	}

	geo.LineCount = PrescaleWidth
	if geo.Ctrl.Serrate {
		geo.LineCount <<= 1
	}

	geo.PrescalePtr = geo.VStart*geo.LineCount + geo.HStart
	if geo.LowerField {
		geo.PrescalePtr += PrescaleWidth
	}

	geo.Width = regs[RegWidth] & 0xfff
	geo.FrameBuffer = regs[RegOrigin] & 0xffffff
	if geo.FrameBuffer == 0 {
		logger.Log("vi", "skipping frame update, no framebuffer")
		return false, nil
	}

	vid.prevWasBlank = geo.Ctrl.Type&2 == 0

	return validH, nil
}
