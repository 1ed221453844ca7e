//go:build windows

package rowan

import (
	"errors"
	"syscall"
)

var (
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	getLogicalDrives = kernel32.NewProc("GetLogicalDrives")
)

// listMounts returns the present drive letters as root paths ("C:\", ...).
// GetLogicalDrives returns immediately and does not block on disconnected
// network drives.
func listMounts() ([]string, error) {
	mask, _, _ := getLogicalDrives.Call()
	if mask == 0 {
		return nil, errors.New("rowan: no logical drives reported")
	}
	var mounts []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		mounts = append(mounts, string(rune('A'+i))+":\\")
	}
	return mounts, nil
}
