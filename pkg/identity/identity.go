// Package identity resolves numeric user ids to login names.
package identity

// Resolver maps a uid to a login name. The boolean is false when no such
// identity exists or its name cannot be determined.
type Resolver interface {
	LookupName(uid uint32) (string, bool)
}

// System resolves ids against the OS identity database.
type System struct{}

// LookupName implements Resolver.
func (System) LookupName(uid uint32) (string, bool) {
	return lookupName(uid)
}

// Static is a fixed uid to name table.
type Static map[uint32]string

// LookupName implements Resolver.
func (s Static) LookupName(uid uint32) (string, bool) {
	name, ok := s[uid]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
