// Package imagestore assembles, persists, and retires images: manifest,
// config, and layer chain bundles per spec.md §4.4. Grounded on
// solaris_oci/oci/image/image.py's create/load/remove sequence and the
// teacher's pkg/image/docker/rootfs read/write idiom for on-disk metadata.
package imagestore

import (
	"time"

	godigest "github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/layer"
	"github.com/zfsoci/zedstore/pkg/ociimage"
)

// Image is an assembled manifest+config+layer-chain bundle, per spec.md §3.
type Image struct {
	ManifestID godigest.Digest
	ConfigID   godigest.Digest
	Manifest   *ociimage.DeserializedManifest
	Config     *ociimage.DeserializedConfig
	Layers     []layer.Layer

	RepositoryName string
	TagName        string
}

// ID returns the image's identity, its manifest-id, per spec.md §4.4.
func (img *Image) ID() godigest.Digest {
	return img.ManifestID
}

// ShortID returns the first 12 hex characters of the manifest-id.
func (img *Image) ShortID() string {
	return digest.Short(img.ManifestID.Encoded())
}

// TopLayer returns the last (most recently added) layer in the chain.
func (img *Image) TopLayer() layer.Layer {
	return img.Layers[len(img.Layers)-1]
}

// Digest returns the image's digest, the top layer's diff digest, per
// spec.md §4.4 (kept distinct from ManifestID for compatibility with
// "image ls --digests"-style tooling).
func (img *Image) Digest() godigest.Digest {
	return img.TopLayer().DiffDigest()
}

// Size returns the sum of every layer's compressed blob size.
func (img *Image) Size() int64 {
	var total int64
	for _, l := range img.Layers {
		total += l.Size
	}
	return total
}

// History returns the image config's history entries.
func (img *Image) History() []imgspecv1.History {
	return img.Config.Config.History
}

// Created returns the image config's creation timestamp.
func (img *Image) Created() time.Time {
	if img.Config.Config.Created == nil {
		return time.Time{}
	}
	return *img.Config.Config.Created
}
