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

// Package parallel provides the fork/join dispatcher used to spread a frame
// pass over several workers.
//
// A Dispatcher owns a fixed pool of worker goroutines, created once and
// reused for every Run(). Run() hands the same Task to every worker and does
// not return until all of them have finished. The task receives the worker
// number, in the range [0, Workers()), which callers use to partition work.
// The convention throughout the project is round-robin: worker w handles
// items w, w+N, w+2N and so on, where N is the worker count.
//
// Run() is a barrier, not a queue. There is no provision for overlapping
// passes and attempting one is an error, as is calling Run() on a closed
// Dispatcher.
//
// Tasks are expected not to fail. A panicking task takes the process down,
// which is the appropriate response to a worker failing mid-frame.
package parallel

import (
	"runtime"
	"sync"

	"github.com/StenApp/angrylion-rdp-plus/curated"
)

// Task is the function given to every worker for one Run(). The worker
// argument identifies which worker is executing the task.
type Task func(worker int)

// Sentinal error returned by Run().
const (
	NotAccepting = "parallel: dispatcher is not accepting work"
	Overlapping  = "parallel: overlapping run"
)

// Dispatcher is a pool of persistent workers executing one Task at a time in
// lockstep. Must be created with NewDispatcher().
type Dispatcher struct {
	crit       sync.Mutex
	signalWork *sync.Cond
	signalDone *sync.Cond

	// the task being executed and its generation. workers use the generation
	// to tell a fresh broadcast from a spurious wakeup
	task Task
	gen  uint64

	// number of workers still executing the current task
	active int

	// a Run() is in progress. distinct from active != 0 because the barrier
	// can be crossed before the issuing Run() has reacquired the lock
	running bool

	// false once Close() has been called
	accepting bool

	numWorkers int
	joined     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with the specified number of workers. A
// value of zero or less means one worker per logical CPU.
func NewDispatcher(numWorkers int) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	dsp := &Dispatcher{
		numWorkers: numWorkers,
		accepting:  true,
	}
	dsp.signalWork = sync.NewCond(&dsp.crit)
	dsp.signalDone = sync.NewCond(&dsp.crit)

	dsp.joined.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go dsp.worker(w)
	}

	return dsp
}

func (dsp *Dispatcher) worker(num int) {
	defer dsp.joined.Done()

	var gen uint64

	dsp.crit.Lock()
	for {
		for dsp.accepting && dsp.gen == gen {
			dsp.signalWork.Wait()
		}
		if !dsp.accepting {
			break
		}

		gen = dsp.gen
		task := dsp.task

		dsp.crit.Unlock()
		task(num)
		dsp.crit.Lock()

		dsp.active--
		if dsp.active == 0 {
			dsp.signalDone.Broadcast()
		}
	}
	dsp.crit.Unlock()
}

// Run executes the task on every worker and blocks until the last worker has
// finished.
func (dsp *Dispatcher) Run(task Task) error {
	dsp.crit.Lock()
	defer dsp.crit.Unlock()

	if !dsp.accepting {
		return curated.Errorf(NotAccepting)
	}
	if dsp.running {
		return curated.Errorf(Overlapping)
	}

	dsp.running = true
	dsp.task = task
	dsp.active = dsp.numWorkers
	dsp.gen++
	dsp.signalWork.Broadcast()

	for dsp.active > 0 {
		dsp.signalDone.Wait()
	}

	dsp.running = false
	dsp.task = nil

	return nil
}

// Workers returns the number of workers in the pool.
func (dsp *Dispatcher) Workers() int {
	return dsp.numWorkers
}

// Close waits for any in-flight Run() to finish and then stops the workers.
// Safe to call more than once. Run() after Close() returns the NotAccepting
// error.
func (dsp *Dispatcher) Close() {
	dsp.crit.Lock()
	for dsp.active > 0 {
		dsp.signalDone.Wait()
	}
	if dsp.accepting {
		dsp.accepting = false
		dsp.signalWork.Broadcast()
	}
	dsp.crit.Unlock()

	dsp.joined.Wait()
}
