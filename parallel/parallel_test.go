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

package parallel_test

import (
	"sync/atomic"
	"testing"

	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/parallel"
	"github.com/StenApp/angrylion-rdp-plus/test"
)

func TestBarrier(t *testing.T) {
	const numWorkers = 4

	dsp := parallel.NewDispatcher(numWorkers)
	defer dsp.Close()

	test.Equate(t, dsp.Workers(), numWorkers)

	// every worker must run the task exactly once per Run(). the barrier
	// means the counts are stable by the time Run() returns
	var calls [numWorkers]int32

	err := dsp.Run(func(worker int) {
		atomic.AddInt32(&calls[worker], 1)
	})
	test.ExpectedSuccess(t, err)

	for w := 0; w < numWorkers; w++ {
		test.Equate(t, int(atomic.LoadInt32(&calls[w])), 1)
	}

	// the pool is reusable. a second Run() must invoke every worker again
	err = dsp.Run(func(worker int) {
		atomic.AddInt32(&calls[worker], 1)
	})
	test.ExpectedSuccess(t, err)

	for w := 0; w < numWorkers; w++ {
		test.Equate(t, int(atomic.LoadInt32(&calls[w])), 2)
	}
}

func TestRoundRobinPartition(t *testing.T) {
	const numWorkers = 3
	const numItems = 100

	dsp := parallel.NewDispatcher(numWorkers)
	defer dsp.Close()

	// the round-robin convention must visit every item exactly once
	var visits [numItems]int32

	err := dsp.Run(func(worker int) {
		for i := worker; i < numItems; i += numWorkers {
			atomic.AddInt32(&visits[i], 1)
		}
	})
	test.ExpectedSuccess(t, err)

	for i := 0; i < numItems; i++ {
		test.Equate(t, int(visits[i]), 1)
	}
}

func TestAutoDetect(t *testing.T) {
	dsp := parallel.NewDispatcher(0)
	defer dsp.Close()

	test.ExpectedSuccess(t, dsp.Workers() > 0)
}

func TestRunAfterClose(t *testing.T) {
	dsp := parallel.NewDispatcher(2)
	dsp.Close()

	// closing again is harmless
	dsp.Close()

	err := dsp.Run(func(worker int) {})
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, parallel.NotAccepting))
}

func TestSingleWorker(t *testing.T) {
	dsp := parallel.NewDispatcher(1)
	defer dsp.Close()

	ran := false
	err := dsp.Run(func(worker int) {
		test.Equate(t, worker, 0)
		ran = true
	})
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, ran)
}
