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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/StenApp/angrylion-rdp-plus/screen"
)

// Video is an implementation of the screen.Screen interface. It generates a
// SHA-1 value of every frame it receives. It does not display the image
// anywhere.
//
// Fingerprints are chained: the hash of a frame includes the hash of every
// frame before it, so a single value stands in for an entire run.
//
// Note that the use of SHA-1 is fine for this application because this is
// not a cryptographic task.
type Video struct {
	digest  [sha1.Size]byte
	buffer  []byte
	uploads int
	swaps   int
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo() *Video {
	return &Video{}
}

// Hash implements the digest.Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the digest.Digest interface.
func (dig *Video) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.uploads = 0
	dig.swaps = 0
}

// Upload implements the screen.Screen interface.
//
// The fingerprint is taken over the frame as a viewer would see it, which
// means the frame is resampled to its target height first.
func (dig *Video) Upload(frame screen.Frame) error {
	dig.uploads++

	// previous fingerprint at the head of the buffer, frame data after
	if cap(dig.buffer) < len(dig.digest) {
		dig.buffer = make([]byte, len(dig.digest))
	}
	dig.buffer = dig.buffer[:len(dig.digest)]
	copy(dig.buffer, dig.digest[:])

	rgba := screen.Resample(frame, nil)
	dig.buffer = append(dig.buffer, rgba...)

	dig.digest = sha1.Sum(dig.buffer)
	return nil
}

// Swap implements the screen.Screen interface.
func (dig *Video) Swap() error {
	dig.swaps++
	return nil
}

// Close implements the screen.Screen interface.
func (dig *Video) Close() error {
	return nil
}

// Uploads returns the number of times Upload() has been called since
// creation or the last ResetDigest(). Used to verify that skipped frames
// never reach the screen.
func (dig *Video) Uploads() int {
	return dig.uploads
}

// Swaps returns the number of times Swap() has been called since creation or
// the last ResetDigest().
func (dig *Video) Swaps() int {
	return dig.swaps
}
