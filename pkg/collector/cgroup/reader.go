// Package cgroup reads cumulative CPU usage of systemd slices from cgroupfs.
package cgroup

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/srodi/cgstats/pkg/identity"
	"github.com/srodi/cgstats/pkg/types"
)

const (
	// DefaultRoot is where the unified cgroup hierarchy is mounted.
	DefaultRoot = "/sys/fs/cgroup"

	UserSlice   = "user.slice"
	SystemSlice = "system.slice"

	statFile   = "cpu.stat"
	usageField = "usage_usec"
)

// readDir allows tests to stub directory listing.
var readDir = os.ReadDir

// Reader scans the direct children of the user and system slices.
type Reader struct {
	root     string
	resolver identity.Resolver
}

// NewReader returns a Reader rooted at root (DefaultRoot when empty) that
// resolves user slices through resolver.
func NewReader(root string, resolver identity.Resolver) *Reader {
	if root == "" {
		root = DefaultRoot
	}
	return &Reader{root: root, resolver: resolver}
}

// Root returns the cgroupfs mount point being read.
func (r *Reader) Root() string {
	return r.root
}

// Snapshot reads both slices and stamps the result with now.
func (r *Reader) Snapshot(now time.Time) (*types.Snapshot, []Warning, error) {
	snap := types.NewSnapshot(now)

	system, sysWarnings, err := r.ReadStats(SystemSlice, ServiceRenamer())
	if err != nil {
		return nil, nil, err
	}
	user, userWarnings, err := r.ReadStats(UserSlice, UserRenamer(r.resolver))
	if err != nil {
		return nil, nil, err
	}

	snap.System = system
	snap.User = user
	return snap, append(sysWarnings, userWarnings...), nil
}

// ReadStats returns usage_usec of every child cgroup of slice keyed by the
// name produced by rn. Colliding display names keep the last directory read.
func (r *Reader) ReadStats(slice string, rn Renamer) (map[string]types.UsageCounter, []Warning, error) {
	dir := filepath.Join(r.root, slice)
	entries, err := readDir(dir)
	if err != nil {
		return nil, nil, &FileError{Path: dir, Err: err}
	}

	stats := make(map[string]types.UsageCounter, len(entries))
	var warnings []Warning
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		usage, err := readUsage(filepath.Join(dir, e.Name(), statFile))
		if err != nil {
			return nil, nil, err
		}
		name, w := rn.Rename(e.Name())
		if w != nil {
			warnings = append(warnings, *w)
		}
		stats[name] = usage
	}
	return stats, warnings, nil
}

// readUsage scans a cpu.stat file for the usage_usec counter.
func readUsage(path string) (types.UsageCounter, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, &ParseError{Path: path, Line: line}
		}
		val, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, &ParseIntError{Path: path, Err: err}
		}
		if fields[0] == usageField {
			return types.UsageCounter(val), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, &FileError{Path: path, Err: err}
	}
	return 0, &MissingFieldError{Path: path, Field: usageField}
}
