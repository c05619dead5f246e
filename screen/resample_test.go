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

package screen_test

import (
	"testing"

	"github.com/StenApp/angrylion-rdp-plus/screen"
	"github.com/StenApp/angrylion-rdp-plus/test"
)

func TestDirectCopy(t *testing.T) {
	frame := screen.Frame{
		Pixels: []uint32{
			0x112233, 0x445566, 0,
			0x778899, 0xaabbcc, 0,
		},
		Width:        2,
		Height:       2,
		Pitch:        3,
		TargetHeight: 2,
	}

	buffer := screen.Resample(frame, nil)
	test.Equate(t, len(buffer), 2*2*screen.PixelDepth)

	// first pixel of first row
	test.Equate(t, buffer[0], 0x11)
	test.Equate(t, buffer[1], 0x22)
	test.Equate(t, buffer[2], 0x33)
	test.Equate(t, buffer[3], 0xff)

	// second pixel of second row. the pitch column must not appear
	o := (2 + 1) * screen.PixelDepth
	test.Equate(t, buffer[o], 0xaa)
	test.Equate(t, buffer[o+1], 0xbb)
	test.Equate(t, buffer[o+2], 0xcc)
}

func TestNearestRow(t *testing.T) {
	// two source rows stretched to four target rows. the nearest-row rule
	// duplicates each source row twice: 0*2/4=0, 1*2/4=0, 2*2/4=1, 3*2/4=1
	frame := screen.Frame{
		Pixels:       []uint32{0xff0000, 0x00ff00},
		Width:        1,
		Height:       2,
		Pitch:        1,
		TargetHeight: 4,
	}

	buffer := screen.Resample(frame, nil)
	test.Equate(t, len(buffer), 4*screen.PixelDepth)

	test.Equate(t, buffer[0], 0xff)
	test.Equate(t, buffer[4], 0xff)
	test.Equate(t, buffer[9], 0xff)
	test.Equate(t, buffer[13], 0xff)
}

func TestSquash(t *testing.T) {
	// four source rows squashed to two target rows: 0*4/2=0, 1*4/2=2
	frame := screen.Frame{
		Pixels:       []uint32{0x01, 0x02, 0x03, 0x04},
		Width:        1,
		Height:       4,
		Pitch:        1,
		TargetHeight: 2,
	}

	buffer := screen.Resample(frame, nil)
	test.Equate(t, buffer[2], 0x01)
	test.Equate(t, buffer[6], 0x03)
}

func TestBufferReuse(t *testing.T) {
	frame := screen.Frame{
		Pixels:       []uint32{0x01},
		Width:        1,
		Height:       1,
		Pitch:        1,
		TargetHeight: 1,
	}

	buffer := make([]byte, 0, 1024)
	out := screen.Resample(frame, buffer)
	test.Equate(t, len(out), screen.PixelDepth)
	test.ExpectedSuccess(t, cap(out) == 1024)

	// degenerate frames produce an empty slice
	out = screen.Resample(screen.Frame{}, out)
	test.Equate(t, len(out), 0)
}
