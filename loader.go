package rowan

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loadResult is what a loader publishes: the subdirectories of path, or a
// failure. ok distinguishes a failed scan from an empty directory.
type loadResult struct {
	path string
	dirs []string
	ok   bool
}

// loaderTask loads one directory listing on its own goroutine and publishes
// the result on the tree's shared channel. Cancellation is cooperative and
// checked exactly once, at publish time: a cancelled task may still finish
// its scan and write a cache entry (kept warm for a later expand), but its
// result is dropped.
type loaderTask struct {
	path      string
	cancelled atomic.Bool
	done      chan struct{}
}

func newLoaderTask(path string) *loaderTask {
	return &loaderTask{path: path, done: make(chan struct{})}
}

// cancel marks the task's result as unwanted. The goroutine keeps running.
func (t *loaderTask) cancel() { t.cancelled.Store(true) }

// live reports whether the task wants its result delivered.
func (t *loaderTask) live() bool { return !t.cancelled.Load() }

// join blocks until the task's goroutine has finished. A hung filesystem
// call hangs the join with it; no timeout is applied.
func (t *loaderTask) join() { <-t.done }

// run executes the load. The mount root enumerates mounts; anything else is
// served from the cache when possible and scanned otherwise.
func (t *loaderTask) run(cache *DiskCache, results chan<- loadResult, log *zap.Logger) {
	defer close(t.done)

	var (
		dirs []string
		err  error
	)
	if t.path == MountRoot {
		dirs, err = listMounts()
	} else {
		dirs, err = cache.Read(t.path)
		if err != nil {
			dirs, err = cache.Scan(t.path)
		}
	}
	if err != nil {
		log.Warn("directory load failed", zap.String("path", t.path), zap.Error(err))
	}
	if !t.live() {
		log.Debug("loader cancelled, result dropped", zap.String("path", t.path))
		return
	}
	results <- loadResult{path: t.path, dirs: dirs, ok: err == nil}
}
