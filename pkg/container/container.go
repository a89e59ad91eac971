// Package container owns the Container & Runtime Record: a container is an
// image reference plus a scratch layer plus a runtime configuration
// document, per spec.md §4.6. Grounded on
// solaris_oci/oci/runtime/container.py and runtime.py, restructured around
// pkg/layer's scratch-layer API instead of container.py's own Layer/dataset
// object and pkg/runc's mockable Runner instead of bare runc_* calls.
package container

import (
	"time"

	godigest "github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/zfsoci/zedstore/pkg/layer"
)

// Status mirrors the container's lifecycle per spec.md §4.6: created →
// running → exited.
type Status string

const (
	StatusCreated Status = "created"
	StatusRunning Status = "running"
	StatusExited  Status = "exited"
)

// Container is the runtime record spec.md §3 names: `{container_id,
// runtime_id, name, created_at, image_ref, scratch_layer, runtime_config}`.
type Container struct {
	ID        string
	RuntimeID string
	Name      string
	CreatedAt time.Time
	ImageID   godigest.Digest

	ScratchLayer layer.Layer
	RuntimeSpec  *specs.Spec

	Status Status
}

// metadata is the on-disk shape of containers/<id>/container.json, per
// spec.md §6: `{id, name, runtime_id, image_id, diff_id, create_time}`.
// diff_id is the scratch layer's graph node id, the only identifier a
// blob-less layer has.
type metadata struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RuntimeID string `json:"runtime_id"`
	ImageID   string `json:"image_id"`
	DiffID    string `json:"diff_id"`
	CreatedAt string `json:"create_time"`
}

func (c *Container) toMetadata() metadata {
	return metadata{
		ID:        c.ID,
		Name:      c.Name,
		RuntimeID: c.RuntimeID,
		ImageID:   c.ImageID.String(),
		DiffID:    c.ScratchLayer.NodeID,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
