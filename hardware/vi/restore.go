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

// The restore filter is the inverse of the rasterizer's dither: each channel
// of a fully covered pixel is nudged by one towards each of eight
// neighbouring pixels whose top five channel bits differ from its own. The
// nudges are looked up in a 32x32 sign table indexed by the centre's top five
// bits against the neighbour's.
//
// Eight taps, each moving a channel by at most one, cannot push a channel
// outside its byte: a channel at either extreme has no neighbour beyond it to
// be nudged towards.
var restoreTable [0x400]int32

func init() {
	for i := range restoreTable {
		center := (i >> 5) & 0x1f
		neighbour := i & 0x1f
		switch {
		case center < neighbour:
			restoreTable[i] = 1
		case center > neighbour:
			restoreTable[i] = -1
		}
	}
}

// Taps are the three pixels above, the three below and the two beside the
// centre. A fetch bug state of 1 collapses the lower three onto the centre
// row.

func (fet *fetcher) restore16(r, g, b *int32, idx uint32, bug uint32) {
	toLeft := idx - 1
	leftUp := idx - fet.stride - 1
	leftDown := idx + fet.stride - 1
	rightDown := idx + fet.stride + 1
	if bug == 1 {
		leftDown = toLeft
		rightDown = toLeft + 2
	}

	redPtr := restoreTable[(*r&0xf8)<<2:]
	greenPtr := restoreTable[(*g&0xf8)<<2:]
	bluePtr := restoreTable[(*b&0xf8)<<2:]

	taps := [8]uint32{
		leftUp, leftUp + 1, leftUp + 2,
		leftDown, leftDown + 1, rightDown,
		toLeft, toLeft + 2,
	}

	rend, gend, bend := *r, *g, *b
	for _, n := range taps {
		pix := fet.mem.Read16(n)
		rend += redPtr[pix>>11&0x1f]
		gend += greenPtr[pix>>6&0x1f]
		bend += bluePtr[pix>>1&0x1f]
	}

	*r = rend
	*g = gend
	*b = bend
}

func (fet *fetcher) restore32(r, g, b *int32, idx uint32, bug uint32) {
	toLeft := idx - 1
	leftUp := idx - fet.stride - 1
	leftDown := idx + fet.stride - 1
	rightDown := idx + fet.stride + 1
	if bug == 1 {
		leftDown = toLeft
		rightDown = toLeft + 2
	}

	redPtr := restoreTable[(*r&0xf8)<<2:]
	greenPtr := restoreTable[(*g&0xf8)<<2:]
	bluePtr := restoreTable[(*b&0xf8)<<2:]

	taps := [8]uint32{
		leftUp, leftUp + 1, leftUp + 2,
		leftDown, leftDown + 1, rightDown,
		toLeft, toLeft + 2,
	}

	rend, gend, bend := *r, *g, *b
	for _, n := range taps {
		pix := fet.mem.Read32(n)
		rend += redPtr[pix>>27&0x1f]
		gend += greenPtr[pix>>19&0x1f]
		bend += bluePtr[pix>>11&0x1f]
	}

	*r = rend
	*g = gend
	*b = bend
}
