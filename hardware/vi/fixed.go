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

import "fmt"

// Fixed is the fixed point format of the video interface scale registers and
// of the accumulators that walk the framebuffer: a ten bit fraction below the
// whole number. The interpolators do not use the full fraction, only its top
// five bits.
type Fixed uint32

// FixedOne is 1.0 in the Fixed format.
const FixedOne Fixed = 1 << 10

// Whole returns the integer part.
func (f Fixed) Whole() int32 {
	return int32(f >> 10)
}

// Frac returns the raw ten bit fraction.
func (f Fixed) Frac() int32 {
	return int32(f & 0x3ff)
}

// Weight returns the five bit interpolation weight, the top five bits of the
// fraction.
func (f Fixed) Weight() int32 {
	return int32((f >> 5) & 0x1f)
}

func (f Fixed) String() string {
	return fmt.Sprintf("%d+%d/1024", f.Whole(), f.Frac())
}
