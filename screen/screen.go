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

// Package screen defines the interface between the video interface and
// whatever is showing the picture. Implementations in the sub-packages
// display through SDL. The digest package provides a headless
// implementation for fingerprinting.
package screen

// Frame describes one finished frame. Pixels holds rows of packed 0x00RRGGBB
// values, each row Pitch entries apart, of which the leftmost Width are
// meaningful.
//
// Height is the number of rows actually rendered. TargetHeight is the number
// of rows the picture should occupy once shown: the two differ because the
// vertical timing of the console stretches or squashes the picture (a PAL
// frame normalised for display, or a 16:9 picture on a 4:3 signal).
// Implementations are expected to resample with the Resample() function, or
// at least to agree with it.
type Frame struct {
	Pixels       []uint32
	Width        int
	Height       int
	Pitch        int
	TargetHeight int
}

// Screen implementations receive every rendered frame. Skipped frames (a
// blank video mode, a null framebuffer) produce no calls at all.
//
// Upload() is called once per rendered frame with the frame data, followed
// by exactly one Swap(). The split mirrors double-buffered displays: Upload()
// prepares the back buffer, Swap() presents it.
type Screen interface {
	Upload(frame Frame) error
	Swap() error
	Close() error
}
