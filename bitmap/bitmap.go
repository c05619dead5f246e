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

// Package bitmap writes screen frames to disk as uncompressed 32bpp BMP
// images. The layout mirrors what the video interface hardware tests expect:
// the pixel data starts at byte 64, ten bytes beyond the two headers, and
// rows are stored bottom-up. A frame whose target height differs from its
// line count is resampled to the target height with nearest-neighbour row
// picking, so the image on disk has the same aspect as the image on screen.
package bitmap

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/screen"
)

type fileHeader struct {
	Type      uint16
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32
}

type infoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMetre int32
	YPelsPerMetre int32
	ClrUsed       uint32
	ClrImportant  uint32
}

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	headerPad      = 10
)

// Save writes frm to path as a BMP image.
func Save(path string, frm screen.Frame) (rerr error) {
	if frm.Width <= 0 || frm.Height <= 0 || frm.TargetHeight <= 0 {
		return curated.Errorf("bitmap: %v", "nothing to write")
	}

	ihdr := infoHeader{
		Size:      infoHeaderSize,
		Width:     int32(frm.Width),
		Height:    int32(frm.TargetHeight),
		Planes:    1,
		BitCount:  32,
		SizeImage: uint32(frm.Width * frm.TargetHeight * 4),
	}

	fhdr := fileHeader{
		Type:    'B' | 'M'<<8,
		OffBits: fileHeaderSize + infoHeaderSize + headerPad,
	}
	fhdr.Size = ihdr.SizeImage + fhdr.OffBits

	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf("bitmap: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("bitmap: %v", err)
		}
	}()

	w := bufio.NewWriter(f)

	if err := binary.Write(w, binary.LittleEndian, fhdr); err != nil {
		return curated.Errorf("bitmap: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, ihdr); err != nil {
		return curated.Errorf("bitmap: %v", err)
	}
	if _, err := w.Write(make([]byte, headerPad)); err != nil {
		return curated.Errorf("bitmap: %v", err)
	}

	// a pixel is already 0x00RRGGBB, which in little-endian order is
	// exactly the BGRX byte layout the format wants
	row := make([]byte, frm.Width*4)
	for y := frm.TargetHeight - 1; y >= 0; y-- {
		src := y * frm.Height / frm.TargetHeight
		line := frm.Pixels[src*frm.Pitch : src*frm.Pitch+frm.Width]
		for i, pix := range line {
			binary.LittleEndian.PutUint32(row[i*4:], pix)
		}
		if _, err := w.Write(row); err != nil {
			return curated.Errorf("bitmap: %v", err)
		}
	}

	if err := w.Flush(); err != nil {
		return curated.Errorf("bitmap: %v", err)
	}

	return nil
}
