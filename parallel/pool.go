package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	// WaitFunc blocks until every submitted func has returned. With done set
	// the workers are also stopped and the pool must not be used again.
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	Size   int
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc

	workers sync.WaitGroup
	pending sync.WaitGroup
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers < 1. A
// pool of one runs every func inline on the caller.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Size: numWorkers,
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.workers.Go(func() {
				for f := range workChan {
					f()
					pool.pending.Done()
				}
			})
		}

		pool.Do = func(f func()) {
			pool.pending.Add(1)
			workChan <- f
		}

		pool.Wait = func(done bool) {
			pool.pending.Wait()
			if done {
				pool.Cancel()
				pool.workers.Wait()
			}
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}
