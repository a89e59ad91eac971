// Package digest thinly wraps github.com/opencontainers/go-digest for the
// content-id conventions used throughout zedstore: diff-ids, blob-ids,
// manifest-ids and config-ids are all sha256 digests, formatted either as
// "sha256:<hex>" (wire/descriptor form) or bare 64-hex (on-disk filename
// form).
package digest

import (
	"io"

	godigest "github.com/opencontainers/go-digest"
)

// Algorithm is the only hash algorithm zedstore computes content ids with.
const Algorithm = godigest.SHA256

// FromBytes returns the sha256 digest of b.
func FromBytes(b []byte) godigest.Digest {
	return Algorithm.FromBytes(b)
}

// FromReader returns the sha256 digest of everything read from r.
func FromReader(r io.Reader) (godigest.Digest, error) {
	return Algorithm.FromReader(r)
}

// Hex returns the bare hex-encoded form of d, suitable for use as an
// on-disk filename under layers/, manifests/ or configs/.
func Hex(d godigest.Digest) string {
	return d.Encoded()
}

// Parse validates and returns s as a Digest.
func Parse(s string) (godigest.Digest, error) {
	return godigest.Parse(s)
}

// FromHex builds a "sha256:<hex>" Digest from a bare hex content id.
func FromHex(hex string) godigest.Digest {
	return godigest.NewDigestFromEncoded(Algorithm, hex)
}

// ShortLen is the number of hex characters retained in a short id.
const ShortLen = 12

// Short returns the first ShortLen hex characters of a bare hex id.
func Short(hex string) string {
	if len(hex) <= ShortLen {
		return hex
	}
	return hex[:ShortLen]
}
