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

package main_test

import (
	"testing"

	"github.com/StenApp/angrylion-rdp-plus/digest"
	"github.com/StenApp/angrylion-rdp-plus/hardware/rdram"
	"github.com/StenApp/angrylion-rdp-plus/hardware/vi"
)

// a 320x240 16-bit NTSC frame with the full filter chain enabled
func benchRegs() vi.Registers {
	var regs vi.Registers
	regs[vi.RegStatus] = 0x1301e
	regs[vi.RegOrigin] = 0x1000
	regs[vi.RegWidth] = 320
	regs[vi.RegVSync] = 0x20d
	regs[vi.RegHStart] = 0x006c02ec
	regs[vi.RegVStart] = 0x002501ff
	regs[vi.RegXScale] = 0x200
	regs[vi.RegYScale] = 0x400
	return regs
}

func benchMemory(b *testing.B) *rdram.RDRAM {
	b.Helper()

	mem, err := rdram.NewRDRAM(0x100000)
	if err != nil {
		b.Fatal(err)
	}

	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			r := uint16(x>>3) & 0x1f
			g := uint16(y>>3) & 0x1f
			c := uint16((x+y)>>4) & 0x1f
			idx := 0x800 + uint32(y*320+x)
			mem.Write16(idx, r<<11|g<<6|c<<1|1)
			mem.WriteHidden(idx, 3)
		}
	}

	return mem
}

func benchmarkUpdate(b *testing.B, mode vi.Mode) {
	b.Helper()

	vid, err := vi.NewVI(vi.Config{Mode: mode}, benchMemory(b), digest.NewVideo())
	if err != nil {
		b.Fatal(err)
	}
	defer vid.Close()

	regs := benchRegs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vid.Update(regs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilteredPipeline(b *testing.B) {
	benchmarkUpdate(b, vi.ModeFiltered)
}

func BenchmarkFastPipeline(b *testing.B) {
	benchmarkUpdate(b, vi.ModeColor)
}
