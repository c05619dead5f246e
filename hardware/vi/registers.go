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

// Register identifies one of the memory mapped registers of the video
// interface.
type Register int

// List of registers in memory map order, starting at physical address
// 0x04400000. Several of them are better known under the alternative names
// noted alongside.
const (
	RegStatus       Register = iota // VI_CONTROL
	RegOrigin                       // VI_DRAM_ADDR
	RegWidth                        //
	RegIntr                         // VI_V_INTR
	RegVCurrentLine                 // VI_CURRENT
	RegBurst                        // VI_TIMING
	RegVSync                        //
	RegHSync                        //
	RegLeap                         // VI_H_SYNC_LEAP
	RegHStart                       // VI_H_VIDEO
	RegVStart                       // VI_V_VIDEO
	RegVBurst                       //
	RegXScale                       //
	RegYScale                       //
	NumRegisters
)

// Registers is a snapshot of the register file. The snapshot is passed to
// Update() by value so the frame is rendered from a single consistent view of
// the registers, whatever the host CPU writes mid-frame.
type Registers [NumRegisters]uint32

// PixelType says how the framebuffer words pointed to by RegOrigin are to be
// interpreted.
type PixelType uint32

// List of valid PixelType values. Reserved should never be set by a correct
// program.
const (
	Blank PixelType = iota
	Reserved
	RGBA5551
	RGBA8888
)

func (typ PixelType) String() string {
	switch typ {
	case Blank:
		return "blank"
	case Reserved:
		return "reserved"
	case RGBA5551:
		return "RGBA5551"
	case RGBA8888:
		return "RGBA8888"
	}
	return "unknown"
}

// AAMode controls how much of the antialias and resample machinery is
// applied while fetching framebuffer pixels.
type AAMode uint32

// List of valid AAMode values, in decreasing order of work done by the
// hardware.
const (
	// resample and antialias every pixel
	AAFetchAlways AAMode = iota

	// resample and antialias, fetching extra lines only when needed
	AAFetchNeeded

	// resample only. every pixel is treated as fully covered
	AAResampleOnly

	// replicate pixels. no interpolation at all
	AAReplicate
)

func (aa AAMode) String() string {
	switch aa {
	case AAFetchAlways:
		return "AA and resample (always fetch)"
	case AAFetchNeeded:
		return "AA and resample (fetch if needed)"
	case AAResampleOnly:
		return "resample only"
	case AAReplicate:
		return "replicate"
	}
	return "unknown"
}

// Control is the unpacked form of the RegStatus register.
type Control struct {
	Type         PixelType // bits 0:1
	GammaDither  bool      // bit 2
	Gamma        bool      // bit 3
	Divot        bool      // bit 4
	VBusClock    bool      // bit 5
	Serrate      bool      // bit 6
	TestMode     bool      // bit 7
	AA           AAMode    // bits 8:9
	Reserved     bool      // bit 10
	KillWE       bool      // bit 11
	PixelAdvance uint32    // bits 12:15
	DitherFilter bool      // bit 16
}

// DecodeControl unpacks the value of the RegStatus register.
func DecodeControl(v uint32) Control {
	return Control{
		Type:         PixelType(v & 0x03),
		GammaDither:  v&0x0004 == 0x0004,
		Gamma:        v&0x0008 == 0x0008,
		Divot:        v&0x0010 == 0x0010,
		VBusClock:    v&0x0020 == 0x0020,
		Serrate:      v&0x0040 == 0x0040,
		TestMode:     v&0x0080 == 0x0080,
		AA:           AAMode((v >> 8) & 0x03),
		Reserved:     v&0x0400 == 0x0400,
		KillWE:       v&0x0800 == 0x0800,
		PixelAdvance: (v >> 12) & 0x0f,
		DitherFilter: v&0x10000 == 0x10000,
	}
}
