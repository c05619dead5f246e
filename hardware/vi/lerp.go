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

// vlerp interpolates the colour of up towards down by frac 32nds, with
// rounding, writing the result back into up. A zero frac leaves up untouched.
// Coverage is not interpolated.
func vlerp(up *ccvg, down ccvg, frac int32) {
	if frac == 0 {
		return
	}

	up.r = ((((down.r-up.r)*frac + 16) >> 5) + up.r) & 0xff
	up.g = ((((down.g-up.g)*frac + 16) >> 5) + up.g) & 0xff
	up.b = ((((down.b-up.b)*frac + 16) >> 5) + up.b) & 0xff
}
