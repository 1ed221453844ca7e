//go:build darwin

package rowan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// listMounts returns the volumes under /Volumes. The boot volume appears as
// a symlink to /; it is reported as "/" and listed first.
func listMounts() ([]string, error) {
	const volumes = "/Volumes"
	var (
		mu     sync.Mutex
		mounts []string
	)
	conf := &fastwalk.Config{Follow: true}
	err := fastwalk.Walk(conf, volumes, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == volumes {
			return nil
		}
		if filepath.Dir(path) != volumes {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if target, err := os.Readlink(path); err == nil && target == "/" {
			mu.Lock()
			mounts = append([]string{"/"}, mounts...)
			mu.Unlock()
			return fastwalk.SkipDir
		}
		if _, err := os.Stat(path); err != nil {
			return fastwalk.SkipDir
		}
		mu.Lock()
		mounts = append(mounts, path)
		mu.Unlock()
		return fastwalk.SkipDir
	})
	if err != nil || len(mounts) == 0 {
		return []string{"/"}, nil
	}
	return mounts, nil
}
