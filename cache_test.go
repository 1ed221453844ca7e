package rowan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := NewDiskCache()
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	t.Cleanup(func() { c.Remove() }) //nolint:errcheck
	return c
}

// --- Scan and read ---

func TestCacheScanAndRead(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "c"), 0o755); err != nil {
		t.Fatal(err)
	}
	c := newTestCache(t)

	want := []string{filepath.Join(dir, "b"), filepath.Join(dir, "c")}
	dirs, err := c.Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	assertPaths(t, "Scan", dirs, want)

	dirs, err = c.Read(dir)
	if err != nil {
		t.Fatalf("Read after Scan: %v", err)
	}
	assertPaths(t, "Read", dirs, want)
}

func TestCacheScanEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(t)
	dirs, err := c.Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dirs) != 0 {
		t.Errorf("Scan of empty dir = %v, want none", dirs)
	}
	// The empty listing is still cached: a read is a hit, not a miss.
	if _, err := c.Read(dir); err != nil {
		t.Errorf("Read after empty Scan: %v", err)
	}
}

func TestCacheReadMiss(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Read("/never/scanned"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read of unscanned path = %v, want ErrCacheMiss", err)
	}
}

func TestCacheCorruptEntryRemoved(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(t)
	if _, err := c.Scan(dir); err != nil {
		t.Fatal(err)
	}
	entry := c.entryFile(dir)
	if err := os.WriteFile(entry, []byte("not,a,valid,listing\n1,2,3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Read(dir); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read of corrupt entry = %v, want ErrCacheMiss", err)
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Error("corrupt entry should have been deleted")
	}
}

func TestCacheScanFailure(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.Scan(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrScanFailed) {
		t.Errorf("Scan of missing dir = %v, want ErrScanFailed", err)
	}
}

// --- Clear and remove ---

func TestCacheClearKeepsDirectory(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(t)
	if _, err := c.Scan(dir); err != nil {
		t.Fatal(err)
	}

	c.Clear()
	if _, err := c.Read(dir); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Read after Clear = %v, want ErrCacheMiss", err)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir should survive Clear: %v", err)
	}

	// The cache keeps working after a clear.
	if _, err := c.Scan(dir); err != nil {
		t.Errorf("Scan after Clear: %v", err)
	}
}

func TestCacheRemove(t *testing.T) {
	c := newTestCache(t)
	if err := c.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(c.Dir()); !os.IsNotExist(err) {
		t.Error("cache dir should be gone after Remove")
	}
}

func assertPaths(t *testing.T, op string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", op, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", op, i, got[i], want[i])
		}
	}
}
