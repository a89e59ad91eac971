package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	godigest "github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/image-spec/specs-go"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/pathspec"
)

// Repository is one name's persisted OCI Image Index: a set of manifest
// descriptors, each carrying the org.opencontainers.image.ref.name
// annotation that names its tag, per spec.md §3/§6.
type Repository struct {
	Name  string
	Index imgspecv1.Index
}

func newRepository(name string) *Repository {
	return &Repository{
		Name: name,
		Index: imgspecv1.Index{
			Versioned: specs.Versioned{SchemaVersion: 2},
			MediaType: "application/vnd.oci.image.index.v1+json",
			Manifests: []imgspecv1.Descriptor{},
		},
	}
}

func loadRepository(root pathspec.Root, name string) (*Repository, error) {
	b, err := os.ReadFile(root.RepositoryIndexFile(name)) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errdefs.AsNotFound(errdefs.ErrRepositoryUnknown, err)
		}
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	r := newRepository(name)
	if err := json.Unmarshal(b, &r.Index); err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	return r, nil
}

func (r *Repository) save(root pathspec.Root) error {
	b, err := json.Marshal(r.Index)
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.MkdirAll(root.RepositoriesDir(), 0o755); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	path := root.RepositoryIndexFile(r.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}

func (r *Repository) remove(root pathspec.Root) error {
	if err := os.Remove(root.RepositoryIndexFile(r.Name)); err != nil && !os.IsNotExist(err) {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}

// Tags returns every tag currently indexed, in index order.
func (r *Repository) Tags() []string {
	tags := make([]string, 0, len(r.Index.Manifests))
	for _, d := range r.Index.Manifests {
		if tag, ok := d.Annotations[ociimage.RefNameAnnotation]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Descriptor returns the manifest descriptor indexed under tag.
func (r *Repository) Descriptor(tag string) (imgspecv1.Descriptor, bool) {
	for _, d := range r.Index.Manifests {
		if d.Annotations[ociimage.RefNameAnnotation] == tag {
			return d, true
		}
	}
	return imgspecv1.Descriptor{}, false
}

// Upsert inserts desc, replacing any existing descriptor for the same tag
// per spec.md §8's boundary behavior ("creating an image with an existing
// tag replaces the tag's manifest descriptor").
func (r *Repository) Upsert(desc imgspecv1.Descriptor) {
	tag := desc.Annotations[ociimage.RefNameAnnotation]
	for i, d := range r.Index.Manifests {
		if d.Annotations[ociimage.RefNameAnnotation] == tag {
			r.Index.Manifests[i] = desc
			return
		}
	}
	r.Index.Manifests = append(r.Index.Manifests, desc)
}

// RemoveManifestDigest drops every descriptor matching digest (normally at
// most one, but an image may be aliased under more than one tag), reporting
// whether the index is now empty.
func (r *Repository) RemoveManifestDigest(digest godigest.Digest) (empty bool) {
	kept := r.Index.Manifests[:0]
	for _, d := range r.Index.Manifests {
		if d.Digest == digest {
			continue
		}
		kept = append(kept, d)
	}
	r.Index.Manifests = kept
	return len(r.Index.Manifests) == 0
}
