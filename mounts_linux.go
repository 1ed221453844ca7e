//go:build linux

package rowan

import (
	"bufio"
	"os"
	"strings"
)

// listMounts parses /proc/mounts for real filesystems, always including the
// root filesystem first.
func listMounts() ([]string, error) {
	mounts := []string{"/"}

	f, err := os.Open("/proc/mounts")
	if err != nil {
		return mounts, nil
	}
	defer f.Close()

	seen := map[string]bool{"/": true}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		point, fsType := fields[1], fields[2]
		if strings.HasPrefix(point, "/sys") ||
			strings.HasPrefix(point, "/proc") ||
			strings.HasPrefix(point, "/dev") ||
			strings.HasPrefix(point, "/run") ||
			strings.HasPrefix(point, "/snap") ||
			fsType == "tmpfs" || fsType == "devtmpfs" ||
			fsType == "cgroup" || fsType == "cgroup2" {
			continue
		}
		if seen[point] {
			continue
		}
		seen[point] = true
		mounts = append(mounts, point)
	}
	return mounts, nil
}
