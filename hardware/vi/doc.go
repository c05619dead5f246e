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

// Package vi implements the video interface, the final stage of the console's
// graphics hardware. The rasterizer leaves a finished image in RDRAM; the
// video interface reads that image back, runs it through a chain of filters
// and scalers, and drives the picture out to the television. This package
// does the same against the screen interface instead of a television.
//
// The caller snapshots the fourteen VI registers once per vertical interrupt
// and hands them to Update(). Everything else follows from that snapshot:
// the framebuffer address and format, the active display window, the scaling
// factors and which of the filters are switched on. A snapshot that does not
// describe a displayable picture (blank type, null framebuffer, degenerate
// window) is quietly dropped, which is exactly what a television shows for
// such a frame.
//
// Two pipelines share the engine. The filtered pipeline is the faithful one:
// anti-aliasing from coverage, the divot median filter, bilinear scaling,
// gamma and gamma dither, and the VI's peculiar fetch of the line below the
// current one (including the hardware's off-by-one there). The fast pipeline
// skips all of that and blits the raw framebuffer, or the depth or coverage
// planes as greyscale, for inspection.
//
// Frames are rendered into a prescale canvas sized for the worst case the
// hardware can produce, a PAL frame at full sync height. Composition then
// crops the canvas to the visible window and normalises the height against
// the NTSC sync, so PAL and NTSC content present at the same size.
//
// Rendering is spread over a pool of workers, each taking every n-th
// scanline. Per-line state (the resample caches, the dither generator, the
// fetch quirk) is derived from the line number alone, so the pixels produced
// are identical whatever the worker count.
package vi
