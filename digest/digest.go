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

// Package digest contains an implementation of the screen interface that
// produces a cryptographic hash of the frames it receives instead of
// displaying them. The hash can be compared with the output of subsequent
// runs - if a new hash differs from a previously recorded value then
// something has changed. This is the basis of the rendering regression
// tests.
package digest

// Digest implementations return a cryptographic hash in response to a Hash()
// request. Generation of the hash is achieved via another interface.
type Digest interface {
	Hash() string
	ResetDigest()
}
