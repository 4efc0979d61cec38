//go:build linux
// +build linux

package cgroup

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// CPUCount returns the number of CPUs this process may run on.
func CPUCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return max(runtime.NumCPU(), 1)
}

// IsUnified reports whether root is a cgroup v2 mount.
func IsUnified(root string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(root, &st); err != nil {
		return false, fmt.Errorf("statfs %s: %w", root, err)
	}
	return st.Type == unix.CGROUP2_SUPER_MAGIC, nil
}
