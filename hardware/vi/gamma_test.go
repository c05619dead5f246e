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

	"github.com/StenApp/angrylion-rdp-plus/test"
)

func TestIntegerSqrt(t *testing.T) {
	vals := [][2]int32{
		{0, 0}, {1, 1}, {2, 1}, {3, 1}, {4, 2}, {15, 3}, {16, 4},
		{63, 7}, {64, 8}, {6400, 80}, {16129, 127}, {16383, 127},
	}
	for _, v := range vals {
		test.Equate(t, integerSqrt(v[0]), v[1])
	}
}

func TestGammaTables(t *testing.T) {
	test.Equate(t, gammaTable[0], 0)
	test.Equate(t, gammaTable[1], 16)
	test.Equate(t, gammaTable[16], 64)
	test.Equate(t, gammaTable[64], 128)
	test.Equate(t, gammaTable[100], 160)
	test.Equate(t, gammaTable[255], 254)

	test.Equate(t, gammaDitherTable[0], 0)
	test.Equate(t, gammaDitherTable[100], 20)
	test.Equate(t, gammaDitherTable[6400], 160)
	test.Equate(t, gammaDitherTable[0x3fff], 254)

	// a zero dither draw reduces the dithered table to the plain one
	for i := 0; i < 0x100; i++ {
		test.Equate(t, gammaDitherTable[i<<6], gammaTable[i])
	}
}

func TestDitherNoise(t *testing.T) {
	// the same line produces the same sequence
	a := newDitherNoise(5)
	b := newDitherNoise(5)
	for i := 0; i < 8; i++ {
		test.Equate(t, a.next(), b.next())
	}

	// different lines produce different states. the multiplier is odd so
	// distinct seeds can never converge
	c := newDitherNoise(0)
	d := newDitherNoise(1)
	test.ExpectedSuccess(t, c.state != d.state)
	c.next()
	d.next()
	test.ExpectedSuccess(t, c.state != d.state)
}

func TestGammaFilterOff(t *testing.T) {
	r, g, b := int32(10), int32(20), int32(30)
	noise := newDitherNoise(0)
	gammaFilter(&r, &g, &b, Control{}, &noise)
	test.Equate(t, r, 10)
	test.Equate(t, g, 20)
	test.Equate(t, b, 30)
}

func TestGammaFilterPlain(t *testing.T) {
	r, g, b := int32(64), int32(0), int32(255)
	noise := newDitherNoise(0)
	gammaFilter(&r, &g, &b, Control{Gamma: true}, &noise)
	test.Equate(t, r, 128)
	test.Equate(t, g, 0)
	test.Equate(t, b, 254)
}

func TestGammaFilterDithered(t *testing.T) {
	// the three channels share a single draw, reproduced here with a twin
	// noise source
	noise := newDitherNoise(3)
	twin := newDitherNoise(3)

	r, g, b := int32(64), int32(128), int32(200)
	gammaFilter(&r, &g, &b, Control{Gamma: true, GammaDither: true}, &noise)

	d := twin.next()
	test.Equate(t, r, gammaDitherTable[64<<6|(d&0x3f)])
	test.Equate(t, g, gammaDitherTable[128<<6|((d>>6)&0x3f)])
	test.Equate(t, b, gammaDitherTable[200<<6|((d>>12)&0x3f)])
}

func TestGammaFilterDitherOnly(t *testing.T) {
	// a saturated channel is never pushed over the top
	r, g, b := int32(255), int32(255), int32(255)
	noise := newDitherNoise(7)
	gammaFilter(&r, &g, &b, Control{GammaDither: true}, &noise)
	test.Equate(t, r, 255)
	test.Equate(t, g, 255)
	test.Equate(t, b, 255)

	// anything below the top moves by the channel's noise bit
	noise = newDitherNoise(7)
	twin := newDitherNoise(7)

	r, g, b = 0, 100, 254
	gammaFilter(&r, &g, &b, Control{GammaDither: true}, &noise)

	d := twin.next()
	test.Equate(t, r, d&1)
	test.Equate(t, g, 100+((d>>1)&1))
	test.Equate(t, b, 254+((d>>2)&1))
}
