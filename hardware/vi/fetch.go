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
	"github.com/StenApp/angrylion-rdp-plus/hardware/rdram"
)

// ccvg is a fetched framebuffer pixel: colour channels expanded to eight
// bits, plus the three bit antialias coverage.
type ccvg struct {
	r, g, b int32
	cvg     uint32
}

// fetcher reads framebuffer pixels from RDRAM and applies the coverage
// driven fetch filters. One fetcher is built per frame pass; it carries the
// decoded control word, the framebuffer origin and the framebuffer width in
// pixels (the stride of the neighbourhood taps).
type fetcher struct {
	mem    *rdram.RDRAM
	ctrl   Control
	origin uint32
	stride uint32
	bits32 bool
}

func newFetcher(mem *rdram.RDRAM, ctrl Control, origin, stride uint32) fetcher {
	return fetcher{
		mem:    mem,
		ctrl:   ctrl,
		origin: origin,
		stride: stride,
		bits32: ctrl.Type&1 == 1,
	}
}

// fetch reads the pixel at column curX of the framebuffer row selected by the
// caller (curX is a pixel index relative to the framebuffer origin, row
// already folded in) and filters it into res. The bug argument is the fetch
// bug state to apply to the lower neighbourhood taps; zero for reads from the
// current row.
func (fet *fetcher) fetch(res *ccvg, curX uint32, bug uint32) {
	if fet.bits32 {
		fet.fetch32(res, curX, bug)
	} else {
		fet.fetch16(res, curX, bug)
	}
}

// A fully covered pixel is passed through, or run under the restore filter
// when dither filtering is on. Anything less than full coverage goes to the
// antialias filter. Coverage of a 16 bit pixel is the alpha bit over the two
// hidden memory bits; in the resample-only and replicate modes coverage is
// not read at all and every pixel counts as fully covered.
func (fet *fetcher) fetch16(res *ccvg, curX uint32, bug uint32) {
	idx := (fet.origin >> 1) + curX

	var pix uint16
	var cvg uint32

	if fet.ctrl.AA < AAResampleOnly {
		var hid uint8
		pix, hid = fet.mem.ReadPair16(idx)
		cvg = uint32(pix&1)<<2 | uint32(hid)
	} else {
		pix = fet.mem.Read16(idx)
		cvg = 7
	}

	r := int32(pix>>11&0x1f) << 3
	g := int32(pix>>6&0x1f) << 3
	b := int32(pix>>1&0x1f) << 3

	if cvg == 7 {
		if fet.ctrl.DitherFilter {
			fet.restore16(&r, &g, &b, idx, bug)
		}
	} else {
		fet.video16(&r, &g, &b, idx, cvg, bug)
	}

	res.r = r
	res.g = g
	res.b = b
	res.cvg = cvg
}

func (fet *fetcher) fetch32(res *ccvg, curX uint32, bug uint32) {
	idx := (fet.origin >> 2) + curX

	pix := fet.mem.Read32(idx)

	cvg := uint32(7)
	if fet.ctrl.AA < AAResampleOnly {
		cvg = (pix >> 5) & 7
	}

	r := int32(pix >> 24 & 0xff)
	g := int32(pix >> 16 & 0xff)
	b := int32(pix >> 8 & 0xff)

	if cvg == 7 {
		if fet.ctrl.DitherFilter {
			fet.restore32(&r, &g, &b, idx, bug)
		}
	} else {
		fet.video32(&r, &g, &b, idx, cvg, bug)
	}

	res.r = r
	res.g = g
	res.b = b
	res.cvg = cvg
}
