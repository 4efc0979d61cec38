//go:build !linux
// +build !linux

package cgroup

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("cgroup v2 requires linux")

// CPUCount falls back to the Go runtime's view on non-Linux platforms.
func CPUCount() int {
	return max(runtime.NumCPU(), 1)
}

// IsUnified always fails on unsupported platforms.
func IsUnified(root string) (bool, error) {
	return false, errUnsupported
}
