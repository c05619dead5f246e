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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/StenApp/angrylion-rdp-plus/curated"
)

// Check the performance of frame rendering. The step function should render
// and present exactly one frame.
//
// Rendering runs for the specified duration and will create a cpu profile,
// memory profile, a trace (or a combination of those) as defined by the
// Profile argument.
//
// The reported accuracy is measured against the supplied refresh rate, the
// rate at which the television being emulated would present frames.
func Check(output io.Writer, profile Profile, duration string, refreshRate float64, step func() error) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	// the timer channel signals false when measurement should begin and true
	// when it should end
	timerChan := make(chan bool)

	// force a two second leadtime to allow the frame rate to settle down and
	// then restart the timer for the specified duration
	go func() {
		time.AfterFunc(2*time.Second, func() {
			timerChan <- false

			time.AfterFunc(dur, func() {
				timerChan <- true
			})
		})
	}()

	numFrames := 0
	counting := false

	runner := func() error {
		for {
			select {
			case v := <-timerChan:
				if v {
					return nil
				}

				// leadtime has concluded. start counting frames
				counting = true
				numFrames = 0
			default:
			}

			if err := step(); err != nil {
				return err
			}

			if counting {
				numFrames++
			}
		}
	}

	// launch runner directly or through the profiler, depending on supplied
	// arguments
	if err := RunProfiler(profile, "performance", runner); err != nil {
		return err
	}

	fps, accuracy := CalcFPS(numFrames, dur.Seconds(), refreshRate)
	output.Write([]byte(fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, dur.Seconds(), accuracy)))

	return nil
}
