package errdefs

import "errors"

// Domain sentinels for zedstore. Each is a plain error; call sites join it to
// a base kind with the As* helpers below (or NewE) so errors.Is matches both
// the specific sentinel and its general kind.
var (
	// ErrImageUnknown signals that the referenced image does not exist.
	ErrImageUnknown = errors.New("image unknown")
	// ErrContainerUnknown signals that the referenced container does not exist.
	ErrContainerUnknown = errors.New("container unknown")
	// ErrRepositoryUnknown signals that the referenced repository does not exist.
	ErrRepositoryUnknown = errors.New("repository unknown")
	// ErrLayerUnknown signals that the referenced layer does not exist.
	ErrLayerUnknown = errors.New("layer unknown")

	// ErrImageExists signals that an image with the given reference already exists.
	ErrImageExists = errors.New("image already exists")

	// ErrImageInUse signals the image has at least one descendant image.
	ErrImageInUse = errors.New("image is in use by a derived image")
	// ErrLayerInUse signals the layer's graph node has children.
	ErrLayerInUse = errors.New("layer is in use")
	// ErrNodeInUse signals the graph node has children and cannot be removed.
	ErrNodeInUse = errors.New("node is in use")
	// ErrContainerRunning signals the container is not in a terminal state.
	ErrContainerRunning = errors.New("container is running")

	// ErrReferenceParse signals a malformed repository[:tag] reference.
	ErrReferenceParse = errors.New("invalid reference")

	// ErrDigestMismatch signals that a computed digest did not match the expected one.
	ErrDigestMismatch = errors.New("digest mismatch")
	// ErrMissingBlob signals a referenced blob file is absent on disk.
	ErrMissingBlob = errors.New("missing blob")
	// ErrDanglingReference signals a reference to an entity that no longer exists.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrDatasetServiceFailure signals the dataset subprocess exited non-zero.
	ErrDatasetServiceFailure = errors.New("dataset service failure")
	// ErrRuntimeSubprocessFailure signals the low-level runtime subprocess exited non-zero.
	ErrRuntimeSubprocessFailure = errors.New("runtime subprocess failure")
	// ErrArchiveFailure signals a tar pack/unpack failure.
	ErrArchiveFailure = errors.New("archive failure")
	// ErrCompressionFailure signals a compress/uncompress failure.
	ErrCompressionFailure = errors.New("compression failure")
)

// AsNotFound joins err to the given specific sentinel and the general ErrNotFound kind.
func AsNotFound(specific error, err error) error {
	return NewE(ErrNotFound, NewE(specific, err))
}

// AsAlreadyExists joins err to the given specific sentinel and the general ErrAlreadyExists kind.
func AsAlreadyExists(specific error, err error) error {
	return NewE(ErrAlreadyExists, NewE(specific, err))
}

// AsConflict joins err to the given specific sentinel and the general ErrConflict kind.
func AsConflict(specific error, err error) error {
	return NewE(ErrConflict, NewE(specific, err))
}

// AsInvalidParameter joins err to the given specific sentinel and the general ErrInvalidParameter kind.
func AsInvalidParameter(specific error, err error) error {
	return NewE(ErrInvalidParameter, NewE(specific, err))
}

// AsSystem joins err to the given specific sentinel and the general ErrSystem kind.
func AsSystem(specific error, err error) error {
	return NewE(ErrSystem, NewE(specific, err))
}

// AsDataLoss joins err to the given specific sentinel and the general ErrDataLoss kind.
func AsDataLoss(specific error, err error) error {
	return NewE(ErrDataLoss, NewE(specific, err))
}
