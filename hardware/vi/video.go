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

// The antialias filter blends a partially covered pixel towards the colour
// range of the fully covered pixels around it. The neighbourhood is six
// pixels: the four diagonals and the pixels two columns to either side.
// Immediate horizontal neighbours take no part. The blend coefficient is the
// missing coverage, so a nearly opaque pixel barely moves and a nearly empty
// one moves most of the way.
//
// When the fetch bug state is 1 the row below is not addressable and the
// lower diagonal taps collapse onto the pixel's own row.

func (fet *fetcher) video16(r, g, b *int32, idx uint32, centerCvg uint32, bug uint32) {
	var backR, backG, backB [7]int32
	var invR, invG, invB [7]int32

	cr := *r
	cg := *g
	cb := *b

	backR[0] = cr
	backG[0] = cg
	backB[0] = cb
	invR[0] = ^cr & 0xff
	invG[0] = ^cg & 0xff
	invB[0] = ^cb & 0xff

	leftUp := idx - fet.stride - 1
	rightUp := idx - fet.stride + 1
	toLeft := idx - 2
	toRight := idx + 2
	leftDown := idx + fet.stride - 1
	rightDown := idx + fet.stride + 1
	if bug == 1 {
		leftDown = toLeft
		rightDown = toRight
	}

	taps := [6]uint32{leftUp, rightUp, toLeft, toRight, leftDown, rightDown}
	for slot, n := range taps {
		pix, hid := fet.mem.ReadPair16(n)
		if hid == 3 && pix&1 == 1 {
			backR[slot+1] = int32(pix>>11&0x1f) << 3
			backG[slot+1] = int32(pix>>6&0x1f) << 3
			backB[slot+1] = int32(pix>>1&0x1f) << 3
			invR[slot+1] = ^backR[slot+1] & 0xff
			invG[slot+1] = ^backG[slot+1] & 0xff
			invB[slot+1] = ^backB[slot+1] & 0xff
		}
	}

	penuMaxR := penultimateMax(backR)
	penuMaxG := penultimateMax(backG)
	penuMaxB := penultimateMax(backB)
	penuMinR := ^penultimateMax(invR) & 0xff
	penuMinG := ^penultimateMax(invG) & 0xff
	penuMinB := ^penultimateMax(invB) & 0xff

	coeff := 7 - int32(centerCvg)
	colR := penuMinR + penuMaxR - (cr << 1)
	colG := penuMinG + penuMaxG - (cg << 1)
	colB := penuMinB + penuMaxB - (cb << 1)

	*r = (((colR*coeff + 4) >> 3) + cr) & 0xff
	*g = (((colG*coeff + 4) >> 3) + cg) & 0xff
	*b = (((colB*coeff + 4) >> 3) + cb) & 0xff
}

func (fet *fetcher) video32(r, g, b *int32, idx uint32, centerCvg uint32, bug uint32) {
	var backR, backG, backB [7]int32
	var invR, invG, invB [7]int32

	cr := *r
	cg := *g
	cb := *b

	backR[0] = cr
	backG[0] = cg
	backB[0] = cb
	invR[0] = ^cr & 0xff
	invG[0] = ^cg & 0xff
	invB[0] = ^cb & 0xff

	leftUp := idx - fet.stride - 1
	rightUp := idx - fet.stride + 1
	toLeft := idx - 2
	toRight := idx + 2
	leftDown := idx + fet.stride - 1
	rightDown := idx + fet.stride + 1
	if bug == 1 {
		leftDown = toLeft
		rightDown = toRight
	}

	taps := [6]uint32{leftUp, rightUp, toLeft, toRight, leftDown, rightDown}
	for slot, n := range taps {
		pix := fet.mem.Read32(n)
		if (pix>>5)&7 == 7 {
			backR[slot+1] = int32(pix >> 24 & 0xff)
			backG[slot+1] = int32(pix >> 16 & 0xff)
			backB[slot+1] = int32(pix >> 8 & 0xff)
			invR[slot+1] = ^backR[slot+1] & 0xff
			invG[slot+1] = ^backG[slot+1] & 0xff
			invB[slot+1] = ^backB[slot+1] & 0xff
		}
	}

	penuMaxR := penultimateMax(backR)
	penuMaxG := penultimateMax(backG)
	penuMaxB := penultimateMax(backB)
	penuMinR := ^penultimateMax(invR) & 0xff
	penuMinG := ^penultimateMax(invG) & 0xff
	penuMinB := ^penultimateMax(invB) & 0xff

	coeff := 7 - int32(centerCvg)
	colR := penuMinR + penuMaxR - (cr << 1)
	colG := penuMinG + penuMaxG - (cg << 1)
	colB := penuMinB + penuMaxB - (cb << 1)

	*r = (((colR*coeff + 4) >> 3) + cr) & 0xff
	*g = (((colG*coeff + 4) >> 3) + cg) & 0xff
	*b = (((colB*coeff + 4) >> 3) + cb) & 0xff
}

// penultimateMax returns the second highest value in v, as the hardware finds
// it: the scan tracks the position of the running maximum, so when the
// maximum sits in slot zero and is never displaced the "penultimate" result
// is the maximum itself.
func penultimateMax(v [7]int32) int32 {
	pos := 0
	pen := v[0]

	for i := 1; i < 7; i++ {
		if v[i] > v[pos] {
			pen = v[pos]
			pos = i
		} else if v[i] > pen {
			pen = v[i]
		}
	}

	return pen
}
