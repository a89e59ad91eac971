// Package ociimage implements the manifest and config document shapes from
// spec.md §4.4 and §6: OCI Image-Spec structures persisted compactly on disk
// under manifests/<manifest_id> and configs/<config_id>, with the raw bytes
// preserved verbatim so digest computation stays bit-identical across a
// write/read round trip. Grounded on the teacher's
// pkg/image/manifest/ocischema.DeserializedManifest canonical-bytes pattern,
// narrowed to the OCI image manifest media type only (no manifest lists, no
// Docker schema2).
package ociimage

import (
	"encoding/json"

	specs "github.com/opencontainers/image-spec/specs-go"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/zfsoci/zedstore/pkg/errdefs"
)

const (
	// MediaTypeManifest is the media type persisted for every manifest this
	// module writes, per spec.md §6.
	MediaTypeManifest = "application/vnd.oci.image.manifest.v1+json"
	// MediaTypeConfig is the media type persisted for every image config this
	// module writes, per spec.md §6.
	MediaTypeConfig = "application/vnd.oci.image.config.v1+json"

	// RefNameAnnotation carries the tag a manifest was created under, per
	// spec.md §4.4 step 6.
	RefNameAnnotation = "org.opencontainers.image.ref.name"

	schemaVersion = 2
)

// Manifest wraps imgspecv1.Manifest.
type Manifest struct {
	imgspecv1.Manifest
}

// MediaType returns the manifest's media type.
func (m Manifest) MediaType() string {
	return m.Manifest.MediaType
}

// References returns the config descriptor followed by the layer
// descriptors, highest to lowest priority per the teacher's convention.
func (m Manifest) References() []imgspecv1.Descriptor {
	refs := make([]imgspecv1.Descriptor, 0, 1+len(m.Manifest.Layers))
	refs = append(refs, m.Manifest.Config)
	refs = append(refs, m.Manifest.Layers...)
	return refs
}

// DeserializedManifest wraps Manifest with a copy of the exact bytes it was
// built or parsed from, so Payload() (and therefore the manifest-id digest)
// never drifts from what was actually persisted.
type DeserializedManifest struct {
	Manifest

	canonical []byte
}

// NewManifest builds a manifest from a config descriptor and ordered layer
// descriptors (root first, top last) per spec.md §4.4 step 6, marshals it
// compactly, and returns the canonical-bytes wrapper ready for Payload().
func NewManifest(config imgspecv1.Descriptor, layers []imgspecv1.Descriptor, annotations map[string]string) (*DeserializedManifest, error) {
	raw := imgspecv1.Manifest{
		Versioned:   specs.Versioned{SchemaVersion: schemaVersion},
		MediaType:   MediaTypeManifest,
		Config:      config,
		Layers:      layers,
		Annotations: annotations,
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	m := &DeserializedManifest{}
	if err := m.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return m, nil
}

// Config returns the descriptor of the separate image config blob.
func (m DeserializedManifest) Config() imgspecv1.Descriptor {
	return m.Manifest.Config
}

// Layers returns the ordered layer descriptors, root first.
func (m DeserializedManifest) Layers() []imgspecv1.Descriptor {
	return m.Manifest.Layers
}

// RefName returns the tag annotation carried by the manifest, if any.
func (m DeserializedManifest) RefName() string {
	return m.Manifest.Annotations[RefNameAnnotation]
}

// UnmarshalJSON retains b verbatim as the canonical payload before parsing a
// shallow copy into the Manifest fields.
func (m *DeserializedManifest) UnmarshalJSON(b []byte) error {
	m.canonical = make([]byte, len(b))
	copy(m.canonical, b)

	var shallow Manifest
	if err := json.Unmarshal(m.canonical, &shallow); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if shallow.Manifest.MediaType == "" {
		shallow.Manifest.MediaType = MediaTypeManifest
	}
	m.Manifest = shallow
	return nil
}

// MarshalJSON returns the canonical bytes verbatim.
func (m *DeserializedManifest) MarshalJSON() ([]byte, error) {
	if len(m.canonical) == 0 {
		return nil, errdefs.NewE(errdefs.ErrSystem, errManifestNotInitialized)
	}
	return m.canonical, nil
}

// Payload returns the canonical bytes used to compute the manifest-id digest.
func (m DeserializedManifest) Payload() ([]byte, error) {
	if len(m.canonical) == 0 {
		return nil, errdefs.NewE(errdefs.ErrSystem, errManifestNotInitialized)
	}
	return m.canonical, nil
}
