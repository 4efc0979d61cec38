//go:build cgo && unix

package identity

/*
#include <errno.h>
#include <pwd.h>
#include <stdlib.h>
#include <sys/types.h>

// Allocates a buflen scratch buffer and looks uid up in it. Returns 0 and
// sets *buf and *name on success; the caller frees *buf. Otherwise nothing
// is left allocated and the result is ENOMEM when malloc fails, ERANGE when
// buflen is too small, ENOENT when there is no record and EINVAL when the
// library handed back something other than the record we passed in.
static int cgstats_pw_name(uid_t uid, size_t buflen, char **buf, char **name) {
	struct passwd pwd;
	struct passwd *result = NULL;
	char *scratch = malloc(buflen);
	if (scratch == NULL) {
		return ENOMEM;
	}
	int rc = getpwuid_r(uid, &pwd, scratch, buflen, &result);
	if (rc == 0 && result == NULL) {
		rc = ENOENT;
	} else if (rc == 0 && (result != &pwd || pwd.pw_name == NULL)) {
		rc = EINVAL;
	}
	if (rc != 0) {
		free(scratch);
		return rc;
	}
	*buf = scratch;
	*name = pwd.pw_name;
	return 0;
}
*/
import "C"

import (
	"math"
	"unsafe"
)

// initialBufSize is a var so tests can force the ERANGE path.
var initialBufSize = 2048

// lookupName calls getpwuid_r, doubling the scratch buffer for as long as
// the library reports ERANGE.
func lookupName(uid uint32) (string, bool) {
	size := max(initialBufSize, 1)
	for {
		var buf, name *C.char
		rc := C.cgstats_pw_name(C.uid_t(uid), C.size_t(size), &buf, &name)
		switch rc {
		case 0:
		case C.ERANGE:
			if size > math.MaxInt32/2 {
				return "", false
			}
			size *= 2
			continue
		default:
			return "", false
		}

		result := C.GoString(name)
		C.free(unsafe.Pointer(buf))
		return result, result != ""
	}
}
