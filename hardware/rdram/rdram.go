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

// Package rdram emulates the console's unified memory as seen by the video
// interface.
//
// RDRAM chips on this console are nine bits wide. The ninth bit of every
// byte is invisible to the CPU but the video hardware uses it: each 16-bit
// framebuffer word has two extra bits holding the low bits of the pixel's
// antialiasing coverage. The RDRAM type keeps them in a separate "hidden"
// plane, one 2-bit value per 16-bit word.
//
// Reads are by word index, not byte address: index n of Read16() addresses
// the nth big-endian 16-bit word. Indices are masked to the 16MB address
// space and reads beyond the physical size return zero. The video filters
// rely on this when their neighbourhood taps fall outside the framebuffer.
package rdram

import (
	"encoding/binary"

	"github.com/StenApp/angrylion-rdp-plus/curated"
)

// Sentinal error returned by NewRDRAM().
const UnsupportedSize = "rdram: unsupported size: %d"

// masks defining the addressable memory space for each access width.
const (
	addressMask   = 0x00ffffff
	addressMask16 = addressMask >> 1
	addressMask32 = addressMask >> 2
)

// RDRAM is an instance of the console's memory. Must be created with
// NewRDRAM().
type RDRAM struct {
	data   []byte
	hidden []byte
}

// NewRDRAM creates a memory instance of the specified size in bytes. The
// console shipped with 4MB, extendable to 8MB. Any multiple of four up to
// the 16MB address space is accepted.
func NewRDRAM(size int) (*RDRAM, error) {
	if size <= 0 || size%4 != 0 || size > addressMask+1 {
		return nil, curated.Errorf(UnsupportedSize, size)
	}

	return &RDRAM{
		data:   make([]byte, size),
		hidden: make([]byte, size/2),
	}, nil
}

// Size returns the physical size of the memory in bytes.
func (mem *RDRAM) Size() int {
	return len(mem.data)
}

// Read16 returns the 16-bit word at the specified word index.
func (mem *RDRAM) Read16(idx uint32) uint16 {
	idx &= addressMask16
	if int(idx)*2+1 >= len(mem.data) {
		return 0
	}
	return binary.BigEndian.Uint16(mem.data[idx*2:])
}

// Read32 returns the 32-bit word at the specified word index.
func (mem *RDRAM) Read32(idx uint32) uint32 {
	idx &= addressMask32
	if int(idx)*4+3 >= len(mem.data) {
		return 0
	}
	return binary.BigEndian.Uint32(mem.data[idx*4:])
}

// ReadPair16 returns the 16-bit word at the specified word index along with
// the two hidden bits stored alongside it.
func (mem *RDRAM) ReadPair16(idx uint32) (uint16, uint8) {
	idx &= addressMask16
	if int(idx)*2+1 >= len(mem.data) {
		return 0, 0
	}
	return binary.BigEndian.Uint16(mem.data[idx*2:]), mem.hidden[idx] & 3
}

// Write16 stores a 16-bit word at the specified word index. Out of range
// writes are dropped.
func (mem *RDRAM) Write16(idx uint32, v uint16) {
	idx &= addressMask16
	if int(idx)*2+1 >= len(mem.data) {
		return
	}
	binary.BigEndian.PutUint16(mem.data[idx*2:], v)
}

// Write32 stores a 32-bit word at the specified word index. Out of range
// writes are dropped.
func (mem *RDRAM) Write32(idx uint32, v uint32) {
	idx &= addressMask32
	if int(idx)*4+3 >= len(mem.data) {
		return
	}
	binary.BigEndian.PutUint32(mem.data[idx*4:], v)
}

// WriteHidden stores the hidden bits for the 16-bit word at the specified
// word index. Only the low two bits of v are kept.
func (mem *RDRAM) WriteHidden(idx uint32, v uint8) {
	idx &= addressMask16
	if int(idx) >= len(mem.hidden) {
		return
	}
	mem.hidden[idx] = v & 3
}

// Clear zeroes the entire memory, hidden bits included.
func (mem *RDRAM) Clear() {
	for i := range mem.data {
		mem.data[i] = 0
	}
	for i := range mem.hidden {
		mem.hidden[i] = 0
	}
}
