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

package rdram_test

import (
	"testing"

	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/hardware/rdram"
	"github.com/StenApp/angrylion-rdp-plus/test"
)

func TestCreation(t *testing.T) {
	mem, err := rdram.NewRDRAM(4 * 1024 * 1024)
	test.ExpectedSuccess(t, err)
	test.Equate(t, mem.Size(), 4*1024*1024)

	_, err = rdram.NewRDRAM(0)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, rdram.UnsupportedSize))

	_, err = rdram.NewRDRAM(13)
	test.ExpectedFailure(t, err)

	_, err = rdram.NewRDRAM(32 * 1024 * 1024)
	test.ExpectedFailure(t, err)
}

func TestWordAccess(t *testing.T) {
	mem, err := rdram.NewRDRAM(4096)
	test.ExpectedSuccess(t, err)

	mem.Write16(0, 0x1234)
	mem.Write16(1, 0xabcd)
	test.Equate(t, mem.Read16(0), 0x1234)
	test.Equate(t, mem.Read16(1), 0xabcd)

	// 16-bit words are big-endian halves of the 32-bit words
	test.Equate(t, mem.Read32(0), 0x1234abcd)

	mem.Write32(1, 0xdeadbeef)
	test.Equate(t, mem.Read16(2), 0xdead)
	test.Equate(t, mem.Read16(3), 0xbeef)
}

func TestHiddenBits(t *testing.T) {
	mem, err := rdram.NewRDRAM(4096)
	test.ExpectedSuccess(t, err)

	mem.Write16(10, 0x8001)
	mem.WriteHidden(10, 3)

	v, h := mem.ReadPair16(10)
	test.Equate(t, v, 0x8001)
	test.Equate(t, h, 3)

	// only two bits of the hidden value survive
	mem.WriteHidden(10, 0xff)
	_, h = mem.ReadPair16(10)
	test.Equate(t, h, 3)

	// hidden bits are independent of the visible word
	mem.Write16(10, 0)
	_, h = mem.ReadPair16(10)
	test.Equate(t, h, 3)
}

func TestOutOfRange(t *testing.T) {
	mem, err := rdram.NewRDRAM(4096)
	test.ExpectedSuccess(t, err)

	mem.Write16(0, 0xffff)
	mem.Write32(0, 0xffffffff)

	// reads beyond the physical size but inside the address space mask
	// return zero
	test.Equate(t, mem.Read16(4096), 0)
	test.Equate(t, mem.Read32(4096), 0)

	v, h := mem.ReadPair16(1<<23 - 1)
	test.Equate(t, v, 0)
	test.Equate(t, h, 0)

	// indices wrap at the address space mask. bit 23 of a 16-bit index is
	// discarded so this aliases index zero
	test.Equate(t, mem.Read16(1<<23), 0xffff)

	// out of range writes are dropped, not wrapped
	mem.Write16(4096, 0x1234)
	test.Equate(t, mem.Read16(4096), 0)
}

func TestClear(t *testing.T) {
	mem, err := rdram.NewRDRAM(4096)
	test.ExpectedSuccess(t, err)

	mem.Write16(0, 0xffff)
	mem.WriteHidden(0, 3)
	mem.Clear()

	v, h := mem.ReadPair16(0)
	test.Equate(t, v, 0)
	test.Equate(t, h, 0)
}
