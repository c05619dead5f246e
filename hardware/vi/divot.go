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

// divotFilter writes into final the divot corrected colour of the center
// pixel. Where silhouette edges cross, partial coverage leaves single pixel
// notches ("divots") of background colour; the filter suppresses them by
// taking the per channel median of the pixel and its horizontal neighbours.
// A neighbourhood whose coverage is all sevens is passed through unchanged.
func divotFilter(final *ccvg, center, left, right ccvg) {
	*final = center

	if center.cvg&left.cvg&right.cvg == 7 {
		return
	}

	final.r = median3(left.r, center.r, right.r)
	final.g = median3(left.g, center.g, right.g)
	final.b = median3(left.b, center.b, right.b)
}

func median3(left, center, right int32) int32 {
	if (left >= center && right >= left) || (left >= right && center >= left) {
		return left
	}
	if (right >= center && left >= right) || (right >= left && center >= right) {
		return right
	}
	return center
}
