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

// The hardware gamma curve is sqrt(x) over the extended channel range,
// implemented with lookup tables. gammaTable maps a plain 8 bit channel.
// gammaDitherTable maps a channel with 6 bits of dither noise folded in below
// it, which smooths the banding the plain table produces in dark areas.
var gammaTable [0x100]int32
var gammaDitherTable [0x4000]int32

func init() {
	for i := int32(0); i < 0x100; i++ {
		gammaTable[i] = integerSqrt(i<<6) << 1
	}
	for i := int32(0); i < 0x4000; i++ {
		gammaDitherTable[i] = integerSqrt(i) << 1
	}
}

// integerSqrt is the bitwise square root the tables are built from.
func integerSqrt(a int32) int32 {
	op := a
	res := int32(0)
	one := int32(1) << 30

	for one > op {
		one >>= 2
	}

	for one != 0 {
		if op >= res+one {
			op -= res + one
			res += one << 1
		}
		res >>= 1
		one >>= 2
	}

	return res
}

// ditherNoise is the pseudo random source for gamma dithering. It is reseeded
// from the line number at the top of every scanline so the sequence a pixel
// sees is a function of its position alone, not of which worker renders it or
// of anything rendered before.
type ditherNoise struct {
	state int32
}

func newDitherNoise(line int32) ditherNoise {
	return ditherNoise{state: line*0x343fd + 0x269ec3}
}

// next returns a 15 bit draw. Overflow of the multiply is part of the
// generator.
func (no *ditherNoise) next() int32 {
	no.state = no.state*0x343fd + 0x269ec3
	return (no.state >> 16) & 0x7fff
}

// gammaFilter applies gamma correction and gamma dithering to a pixel
// according to the control flags. A pixel consumes at most one draw from the
// noise source. With both gamma and dithering on, the three channels share
// one draw as bit ranges 0:5, 6:11 and 12:17, leaving the blue channel only
// three usable bits of noise. The hardware does the same.
func gammaFilter(r, g, b *int32, ctrl Control, noise *ditherNoise) {
	switch {
	case ctrl.Gamma && ctrl.GammaDither:
		d := noise.next()
		*r = gammaDitherTable[*r<<6|(d&0x3f)]
		*g = gammaDitherTable[*g<<6|((d>>6)&0x3f)]
		*b = gammaDitherTable[*b<<6|((d>>12)&0x3f)]

	case ctrl.Gamma:
		*r = gammaTable[*r]
		*g = gammaTable[*g]
		*b = gammaTable[*b]

	case ctrl.GammaDither:
		d := noise.next()
		if *r < 255 {
			*r += d & 1
		}
		if *g < 255 {
			*g += (d >> 1) & 1
		}
		if *b < 255 {
			*b += (d >> 2) & 1
		}
	}
}
