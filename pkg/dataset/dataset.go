// Package dataset is the narrow, testable boundary to a host dataset
// service offering hierarchical datasets with snapshots and clones (a
// ZFS-like service), per spec.md §4.1. Argument shapes for the production
// implementation are grounded on solaris_oci/util/zfs.py.
package dataset

import (
	"context"
	"io"
)

// Kind selects which dataset kinds List/Get operate over.
type Kind string

const (
	KindFilesystem Kind = "filesystem"
	KindSnapshot   Kind = "snapshot"
	KindAll        Kind = "all"
)

// Entry is one row returned by List, holding the requested properties.
type Entry struct {
	Name       string
	Properties map[string]Value
}

// Value is a normalized dataset property value: bool for on/off, string for
// a path or plain text, int64 for byte counts, nil for "-" (absent).
type Value struct {
	Bool    *bool
	Int64   *int64
	Path    string
	Text    string
	Present bool
}

// CreateOptions configures Service.Create.
type CreateOptions struct {
	Mountpoint  string
	Compression bool
}

// Service is the dataset adapter's operation set, per spec.md §4.1. Every
// state-changing operation is idempotent under re-invocation with the same
// inputs whenever the underlying host service supports it.
type Service interface {
	// Create creates a new dataset, optionally mounted and optionally with
	// compression enabled.
	Create(ctx context.Context, name string, opts CreateOptions) error
	// Clone creates target as a writable clone of snapshot.
	Clone(ctx context.Context, target, snapshot, mountpoint string) error
	// Snapshot takes a snapshot named dataset@snapName.
	Snapshot(ctx context.Context, dataset, snapName string, recursive bool) error
	// SetReadonly sets the dataset's readonly property.
	SetReadonly(ctx context.Context, dataset string, readonly bool) error
	// SetMountpoint sets the dataset's mountpoint property.
	SetMountpoint(ctx context.Context, dataset, path string) error
	// Get reads a single normalized property value.
	Get(ctx context.Context, dataset, property string) (Value, error)
	// Destroy destroys a dataset or snapshot.
	Destroy(ctx context.Context, name string, recursive, synchronous bool) error
	// Send serializes a snapshot (optionally incremental from fromSnapshot)
	// to w.
	Send(ctx context.Context, w io.Writer, snapshot, fromSnapshot string, recursive bool) error
	// Receive deserializes a dataset stream from r into dataset.
	Receive(ctx context.Context, dataset string, r io.Reader) error
	// List lists datasets/snapshots under root.
	List(ctx context.Context, root string, recursive bool, kind Kind, properties []string) ([]Entry, error)
	// Exists reports whether name names any dataset or snapshot.
	Exists(ctx context.Context, name string) (bool, error)
	// IsFilesystem reports whether name is a filesystem dataset.
	IsFilesystem(ctx context.Context, name string) (bool, error)
	// IsSnapshot reports whether name is a snapshot.
	IsSnapshot(ctx context.Context, name string) (bool, error)
}
