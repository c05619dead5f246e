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
	"github.com/StenApp/angrylion-rdp-plus/screen"
)

// The unfiltered pipeline dumps a buffer as-is, one output pixel per source
// pixel, at the framebuffer's native resolution. Besides the colour buffer
// it can visualise the rasterizer's depth buffer and the antialias coverage
// plane, which the filtered pipeline has no way of showing.

// resolveGeometryFast is the register resolution for the unfiltered
// pipeline. Most of the filtered path's work has no equivalent here; frames
// that would show nothing are skipped without ceremony.
func (vid *VI) resolveGeometryFast(regs Registers) (bool, error) {
	geo := &vid.geom
	*geo = Geometry{}

	geo.VStart = int32(regs[RegVStart]>>16) & 0x3ff
	vEnd := int32(regs[RegVStart]) & 0x3ff
	geo.HStart = int32(regs[RegHStart]>>16) & 0x3ff
	hEnd := int32(regs[RegHStart]) & 0x3ff

	geo.HRes = hEnd - geo.HStart
	geo.VRes = (vEnd - geo.VStart) >> 1

	if geo.HRes <= 0 || geo.VRes <= 0 {
		return false, nil
	}

	geo.XAdd = Fixed(regs[RegXScale] & 0xfff)
	geo.YAdd = Fixed(regs[RegYScale] & 0xfff)

	geo.HResRaw = int32(geo.XAdd) * geo.HRes / 1024
	geo.VResRaw = int32(geo.YAdd) * geo.VRes / 1024

	if geo.HResRaw <= 0 || geo.VResRaw <= 0 {
		return false, nil
	}

	// the prescale canvas is the working buffer here too. register values
	// that describe a larger buffer than it can hold are cut down to fit
	if geo.HResRaw > PrescaleWidth {
		logger.Logf("vi", "raw horizontal resolution clamped from %d to %d", geo.HResRaw, PrescaleWidth)
		geo.HResRaw = PrescaleWidth
	}
	if geo.HResRaw*geo.VResRaw > PrescaleWidth*PrescaleHeight {
		clamped := PrescaleWidth * PrescaleHeight / geo.HResRaw
		logger.Logf("vi", "raw vertical resolution clamped from %d to %d", geo.VResRaw, clamped)
		geo.VResRaw = clamped
	}

	if regs[RegVCurrentLine]&1 != 0 {
		return false, nil
	}

	geo.Width = regs[RegWidth] & 0xfff
	geo.FrameBuffer = regs[RegOrigin] & 0xffffff
	if geo.FrameBuffer == 0 {
		return false, nil
	}

	geo.Ctrl = DecodeControl(regs[RegStatus])

	geo.VSync = int32(regs[RegVSync]) & 0x3ff
	if geo.VSync == 0 {
		return false, nil
	}

	if geo.Ctrl.Type&2 == 0 {
		return false, nil
	}

	return true, nil
}

// renderLinesFast runs the unfiltered pipeline over the rows of the resolved
// frame that belong to the given worker, with the same round-robin partition
// as the filtered pipeline.
func (vid *VI) renderLinesFast(worker int) {
	geo := &vid.geom

	var depthBase uint32
	if vid.depth != nil {
		depthBase = vid.depth.DepthBufferAddress() & 0xffffff
	}

	workers := int32(vid.dsp.Workers())

	for y := int32(worker); y < geo.VResRaw; y += workers {
		line := uint32(y) * geo.Width
		dst := vid.prescale[int(y)*int(geo.HResRaw):]
		noise := newDitherNoise(y)

		for x := int32(0); x < geo.HResRaw; x++ {
			var r, g, b int32

			switch vid.cfg.Mode {
			case ModeColor:
				if geo.Ctrl.Type == RGBA8888 {
					pix := vid.mem.Read32((geo.FrameBuffer >> 2) + line + uint32(x))
					r = int32(pix >> 24 & 0xff)
					g = int32(pix >> 16 & 0xff)
					b = int32(pix >> 8 & 0xff)
				} else {
					pix := vid.mem.Read16((geo.FrameBuffer >> 1) + line + uint32(x))
					r = int32(pix>>11&0x1f) << 3
					g = int32(pix>>6&0x1f) << 3
					b = int32(pix>>1&0x1f) << 3
				}

			case ModeDepth:
				r = int32(vid.mem.Read16((depthBase>>1)+line+uint32(x)) >> 8)
				g = r
				b = r

			case ModeCoverage:
				// TODO: assumes a 16 bit framebuffer; a 32 bit one keeps its
				// coverage in the pixel word, not in hidden memory
				pix, hid := vid.mem.ReadPair16((geo.FrameBuffer >> 1) + line + uint32(x))
				r = (int32(pix&1)<<2 | int32(hid)) << 5
				g = r
				b = r
			}

			gammaFilter(&r, &g, &b, geo.Ctrl, &noise)

			dst[x] = uint32(r)<<16 | uint32(g)<<8 | uint32(b)
		}
	}
}

// composeFast hands the rendered rows to the sink. The target height is what
// the filtered pipeline would have produced for the same registers, scaled
// by the ratio of raw to filtered width, so the unfiltered picture keeps the
// aspect of the filtered one.
func (vid *VI) composeFast() (bool, error) {
	geo := &vid.geom

	filteredHeight := (geo.VRes << 1) * VSyncNTSC / geo.VSync
	targetHeight := geo.HResRaw * filteredHeight / geo.HRes

	if vid.cfg.Widescreen {
		targetHeight = targetHeight * 9 / 16
	}

	frm := screen.Frame{
		Pixels:       vid.prescale[:geo.HResRaw*geo.VResRaw],
		Width:        int(geo.HResRaw),
		Height:       int(geo.VResRaw),
		Pitch:        int(geo.HResRaw),
		TargetHeight: int(targetHeight),
	}

	if err := vid.scr.Upload(frm); err != nil {
		return false, curated.Errorf("vi: %v", err)
	}

	vid.snapshot(frm)

	return true, nil
}
