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

// Package curated provides the error type used throughout the project. A
// curated error is created with a pattern string, in the manner of
// fmt.Errorf():
//
//	curated.Errorf("vi: %v", err)
//
// The pattern is kept alongside the formatted values rather than being
// consumed by them, which means the identity of an error can be tested
// without resorting to string comparison at the call site:
//
//	if curated.Is(err, vi.UnsupportedPixelType) {
//		...
//	}
//
// Is() tests the outermost error only. Has() also walks the formatted values
// of the error looking for the pattern deeper in the chain. IsAny() simply
// tests whether the error originated from this package at all.
//
// The Error() function normalises the message, removing adjacent duplicate
// parts. Parts are the sub-strings separated by ": ", as suggested on p239 of
// "The Go Programming Language" (Donovan, Kernighan). Without normalisation
// an error wrapped on its way up through several packages can too easily
// read:
//
//	vi: vi: video sync too big
//
// Sentinel patterns should be declared as const strings in the package that
// returns them, suitably commented.
package curated
