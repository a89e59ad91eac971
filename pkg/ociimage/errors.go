package ociimage

import "errors"

// errManifestNotInitialized/errConfigNotInitialized guard against calling
// MarshalJSON/Payload on a zero-value wrapper, mirroring the teacher's
// manifest.ErrNotInitialized.
var (
	errManifestNotInitialized = errors.New("ociimage: manifest not initialized")
	errConfigNotInitialized   = errors.New("ociimage: config not initialized")
)
