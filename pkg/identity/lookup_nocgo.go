//go:build !cgo || !unix

package identity

import (
	"os/user"
	"strconv"
)

// userLookupID allows tests to stub the os/user database.
var userLookupID = user.LookupId

func lookupName(uid uint32) (string, bool) {
	id := strconv.FormatUint(uint64(uid), 10)
	u, err := userLookupID(id)
	if err != nil || u == nil {
		return "", false
	}
	if u.Uid != id || u.Username == "" {
		return "", false
	}
	return u.Username, true
}
