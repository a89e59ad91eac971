// Package repository maps human references (repository[:tag]) to images,
// persists a per-repository OCI Image Index, and maintains the distribution
// file listing all repository names, per spec.md §4.5. Grounded on
// solaris_oci/oci/image/repository.py and distribution.py (tag-list /
// repository-list load sequence) and the teacher's namedb.go id-resolution
// idiom (exact id > short id > name lookup), adapted to OCI Index files
// instead of Docker's repositories.json.
package repository

import (
	"fmt"
	"strings"

	"github.com/zfsoci/zedstore/pkg/errdefs"
)

// DefaultTag is substituted when a reference names no tag, per spec.md §4.5.
const DefaultTag = "latest"

// Reference is a parsed repository[:tag] reference.
type Reference struct {
	Name string
	Tag  string
}

// String returns "name:tag".
func (r Reference) String() string {
	return r.Name + ":" + r.Tag
}

// ParseReference parses s per spec.md §4.5: "name" -> (name, "latest");
// "name:tag" -> (name, tag); anything else (e.g. "x:y:z") fails with
// ErrReferenceParse.
func ParseReference(s string) (Reference, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Reference{}, errdefs.AsInvalidParameter(errdefs.ErrReferenceParse,
				fmt.Errorf("empty reference"))
		}
		return Reference{Name: parts[0], Tag: DefaultTag}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Reference{}, errdefs.AsInvalidParameter(errdefs.ErrReferenceParse,
				fmt.Errorf("invalid reference %q", s))
		}
		return Reference{Name: parts[0], Tag: parts[1]}, nil
	default:
		return Reference{}, errdefs.AsInvalidParameter(errdefs.ErrReferenceParse,
			fmt.Errorf("invalid reference %q", s))
	}
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			return false
		}
	}
	return true
}

// isFullID reports whether s looks like a full 64-hex manifest-id.
func isFullID(s string) bool {
	return len(s) == 64 && isHex(s)
}

// isShortID reports whether s looks like a 12-hex short-id.
func isShortID(s string) bool {
	return len(s) == 12 && isHex(s)
}
