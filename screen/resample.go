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

package screen

// PixelDepth is the number of bytes per pixel produced by Resample().
const PixelDepth = 4

// Resample converts a frame to tightly packed RGBA bytes at the frame's
// target height. When Height and TargetHeight agree rows are copied
// directly. Otherwise every target row takes the nearest source row by
// linear proportion:
//
//	srcRow = dstRow * Height / TargetHeight
//
// The buffer argument is reused if it is large enough. The returned slice is
// always Width * TargetHeight * PixelDepth bytes. The alpha channel is fully
// opaque.
func Resample(frame Frame, buffer []byte) []byte {
	need := frame.Width * frame.TargetHeight * PixelDepth
	if need <= 0 {
		return buffer[:0]
	}

	if cap(buffer) < need {
		buffer = make([]byte, need)
	}
	buffer = buffer[:need]

	o := 0
	for y := 0; y < frame.TargetHeight; y++ {
		src := y
		if frame.Height != frame.TargetHeight {
			src = y * frame.Height / frame.TargetHeight
		}

		row := frame.Pixels[src*frame.Pitch : src*frame.Pitch+frame.Width]
		for x := 0; x < frame.Width; x++ {
			p := row[x]
			buffer[o] = byte(p >> 16)
			buffer[o+1] = byte(p >> 8)
			buffer[o+2] = byte(p)
			buffer[o+3] = 0xff
			o += PixelDepth
		}
	}

	return buffer
}
