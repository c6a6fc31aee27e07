// Package parallel provides a deterministic data-parallel loop helper.
//
// Workers split an index range into contiguous chunks; the caller's
// function sees each chunk exactly once. Because chunks never overlap and
// each output element is produced by exactly one worker, results are
// bit-identical to a sequential run — a requirement of the bounded-tensor
// kernel, whose invariants are checked element-wise.
package parallel

import (
	"runtime"
	"sync"
)

// maxWorkers caps goroutine fan-out at the CPU count.
var maxWorkers = runtime.NumCPU()

// For executes f over [0, n) split into contiguous [start, end) chunks.
// Runs sequentially when n is below minChunk or only one CPU is available.
func For(n, minChunk int, f func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(maxWorkers, (n+minChunk-1)/minChunk)
	if workers <= 1 {
		f(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
