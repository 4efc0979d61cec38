package cgroup

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/srodi/cgstats/pkg/identity"
)

const (
	maxServiceName = 23
	ellipsis       = "..."
)

var (
	suffixRegex = regexp.MustCompile(`\.service|\.scope|\.slice`)
	uidRegex    = regexp.MustCompile(`^user-([0-9]+)\.slice$`)
)

// RenameKind selects how raw cgroup directory names become display names.
type RenameKind int

const (
	// StripAndTruncate drops the systemd unit suffix and shortens long names.
	StripAndTruncate RenameKind = iota
	// UIDToUsername turns user-<uid>.slice into the owner's login name.
	UIDToUsername
)

func (k RenameKind) String() string {
	switch k {
	case StripAndTruncate:
		return "strip-and-truncate"
	case UIDToUsername:
		return "uid-to-username"
	default:
		return fmt.Sprintf("RenameKind(%d)", int(k))
	}
}

// Warning is a non-fatal naming problem for one cgroup.
type Warning struct {
	Key      string // raw directory name
	Fallback string // display name used instead
	Reason   string
}

func (w Warning) String() string {
	return fmt.Sprintf("cannot determine user name for %s: %s", w.Key, w.Reason)
}

// Renamer is one of the naming strategies. Resolver is used only by UIDToUsername.
type Renamer struct {
	Kind     RenameKind
	Resolver identity.Resolver
}

// ServiceRenamer names system.slice children.
func ServiceRenamer() Renamer {
	return Renamer{Kind: StripAndTruncate}
}

// UserRenamer names user.slice children using r.
func UserRenamer(r identity.Resolver) Renamer {
	return Renamer{Kind: UIDToUsername, Resolver: r}
}

// Rename returns the display name for key and, when the preferred name could
// not be determined, a warning describing the fallback.
func (r Renamer) Rename(key string) (string, *Warning) {
	switch r.Kind {
	case UIDToUsername:
		name, w := keyToUsername(key, r.Resolver)
		if w != nil {
			return w.Fallback, w
		}
		return name, nil
	default:
		return stripAndTruncate(key), nil
	}
}

// stripAndTruncate shortens names such as
// docker-dcd9a8c71b756de71a4a837c005840f84e0ed92574704ae1c89409c57980aaee.scope.
func stripAndTruncate(key string) string {
	name := key
	if loc := suffixRegex.FindStringIndex(key); loc != nil {
		name = key[:loc[0]] + key[loc[1]:]
	}
	runes := []rune(name)
	if len(runes) <= maxServiceName {
		return name
	}
	return string(runes[:maxServiceName-len(ellipsis)]) + ellipsis
}

func keyToUsername(key string, resolver identity.Resolver) (string, *Warning) {
	m := uidRegex.FindStringSubmatch(key)
	if m == nil {
		return "", &Warning{Key: key, Fallback: key, Reason: "not a user-<uid>.slice name"}
	}
	digits := m[1]
	uid, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return "", &Warning{Key: key, Fallback: digits, Reason: "uid out of range"}
	}
	if resolver == nil {
		return "", &Warning{Key: key, Fallback: digits, Reason: "no identity resolver"}
	}
	name, ok := resolver.LookupName(uint32(uid))
	if !ok {
		return "", &Warning{Key: key, Fallback: digits, Reason: "no such user"}
	}
	return name, nil
}
