package rowan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charlievieth/fastwalk"
)

// Directory listing errors surfaced by DiskCache. A cache miss falls through
// to a fresh scan; a scan failure surfaces in the tree as an error entry.
var (
	ErrCacheMiss  = errors.New("rowan: cache entry missing or corrupt")
	ErrScanFailed = errors.New("rowan: directory scan failed")
)

// cacheHeader is row 1 of every cache file.
var cacheHeader = []string{"filetype", "path"}

// DiskCache persists one CSV listing per scanned directory in a private
// temp directory. Filenames are the FNV hash of the absolute path, so a
// path maps to the same entry across expands. Entries record every child
// (files and directories) but reads only ever return the directories.
//
// The cache is owned by a DirTree and torn down through Clear or Remove;
// nothing is left behind for process-exit hooks.
type DiskCache struct {
	dir string
}

// NewDiskCache creates the backing temp directory.
func NewDiskCache() (*DiskCache, error) {
	dir, err := os.MkdirTemp("", "rowan-tree-cache-")
	if err != nil {
		return nil, fmt.Errorf("rowan: create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the backing directory path.
func (c *DiskCache) Dir() string { return c.dir }

// hashPath is the stable identifier shared by cache filenames and the live
// loader registry.
func hashPath(p string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(p))
	return h.Sum64()
}

func (c *DiskCache) entryFile(p string) string {
	return filepath.Join(c.dir, strconv.FormatUint(hashPath(p), 16))
}

// Read returns the cached directory children of path. A missing, truncated,
// or malformed entry yields ErrCacheMiss; malformed entries are deleted so
// the next scan regenerates them.
func (c *DiskCache) Read(path string) ([]string, error) {
	f, err := os.Open(c.entryFile(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrCacheMiss, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	rows, err := r.ReadAll()
	if err != nil || len(rows) == 0 ||
		rows[0][0] != cacheHeader[0] || rows[0][1] != cacheHeader[1] {
		os.Remove(c.entryFile(path))
		return nil, fmt.Errorf("%w: %q", ErrCacheMiss, path)
	}
	var dirs []string
	for _, row := range rows[1:] {
		if row[0] == "directory" {
			dirs = append(dirs, row[1])
		}
	}
	return dirs, nil
}

// Scan lists the immediate children of path, writes a fresh cache entry,
// and returns the directory-typed children. On failure the half-written
// entry is removed and ErrScanFailed is returned; an empty directory is a
// success with an empty result, the two are distinguishable.
func (c *DiskCache) Scan(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		os.Remove(c.entryFile(path))
		return nil, fmt.Errorf("%w: %q: %v", ErrScanFailed, path, err)
	}
	f, err := os.Create(c.entryFile(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrScanFailed, path, err)
	}
	w := csv.NewWriter(f)
	w.Write(cacheHeader)
	var dirs []string
	for _, e := range entries {
		ftype := ""
		switch {
		case e.IsDir():
			ftype = "directory"
		case e.Type().IsRegular():
			ftype = "file"
		default:
			continue // neither a file nor a directory
		}
		child := filepath.Join(path, e.Name())
		if ftype == "directory" {
			dirs = append(dirs, child)
		}
		w.Write([]string{ftype, child})
	}
	w.Flush()
	werr := w.Error()
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(c.entryFile(path))
		return nil, fmt.Errorf("%w: %q: %v", ErrScanFailed, path, werr)
	}
	return dirs, nil
}

// scanQuiet is Scan for callers that cannot distinguish an error from an
// empty directory (the refresh re-walk).
func (c *DiskCache) scanQuiet(path string) []string {
	dirs, err := c.Scan(path)
	if err != nil {
		return nil
	}
	return dirs
}

// Clear deletes every cache entry, best effort per file, keeping the
// directory itself so subsequent scans can repopulate it.
func (c *DiskCache) Clear() {
	conf := &fastwalk.Config{}
	fastwalk.Walk(conf, c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == c.dir {
			return nil
		}
		if d.IsDir() {
			return fastwalk.SkipDir
		}
		os.Remove(path)
		return nil
	})
}

// Remove deletes the entire cache directory. Called on shutdown.
func (c *DiskCache) Remove() error {
	return os.RemoveAll(c.dir)
}
