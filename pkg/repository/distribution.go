package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	godigest "github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/imagestore"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

// ImageSummary is the lightweight listing shape ListImages returns, without
// paying for a full imagestore.Load of every tag's layer chain.
type ImageSummary struct {
	Repository string
	Tag        string
	ManifestID godigest.Digest
}

// Distribution maps human references to images and keeps the on-disk
// distribution file and per-repository indexes consistent, per spec.md §4.5.
// Per spec.md §5, there is no file-level lock: a single process is
// single-threaded, and Distribution is not safe for concurrent use from
// multiple goroutines within one process.
type Distribution interface {
	// CreateImage parses ref into (name, tag), delegates to the image
	// store, and inserts the resulting manifest descriptor into the
	// named repository's index (creating the repository if new), per
	// spec.md §4.4 step 7.
	CreateImage(ctx context.Context, ref string, spec imagestore.CreateSpec) (*imagestore.Image, error)
	// RemoveImage resolves ref, removes the image store's artifacts
	// first (so a failed removal leaves the repository index
	// untouched, per spec.md §8 scenario 4), then drops every matching
	// descriptor from the repositories that referenced it.
	RemoveImage(ctx context.Context, ref string) error
	// GetImage resolves ref per spec.md §4.5's order: exact id > short
	// id > (name, tag).
	GetImage(ctx context.Context, ref string) (*imagestore.Image, error)
	// ListImages returns a summary of every indexed image across every
	// repository.
	ListImages(ctx context.Context) ([]ImageSummary, error)
	// TagImage resolves ref to an existing image and inserts its manifest
	// descriptor into target's repository index under target's tag,
	// without touching the image store (no content is recreated).
	TagImage(ctx context.Context, ref, target string) (*imagestore.Image, error)
	// Reconcile rewrites distribution.json from the repository index
	// files actually present on disk, per spec.md §9 Open Question 2.
	Reconcile(ctx context.Context) error
}

type distributionFile struct {
	Repositories []string `json:"repositories"`
}

type distribution struct {
	root   pathspec.Root
	images imagestore.Store
	repos  map[string]*Repository
}

// NewDistribution loads distribution.json (tolerating a missing file by
// initializing an empty one, per spec.md §4.5) and each listed repository's
// index, then returns a ready-to-use Distribution.
func NewDistribution(ctx context.Context, root pathspec.Root, images imagestore.Store) (Distribution, error) {
	d := &distribution{root: root, images: images, repos: make(map[string]*Repository)}

	names, err := d.readDistributionFile()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		repo, err := loadRepository(root, name)
		if err != nil {
			if errors.Is(err, errdefs.ErrRepositoryUnknown) {
				xlog.C(ctx).Warnf("distribution: %s listed but has no index file, dropping until reconcile", name)
				continue
			}
			return nil, err
		}
		d.repos[name] = repo
	}
	return d, nil
}

func (d *distribution) readDistributionFile() ([]string, error) {
	b, err := os.ReadFile(d.root.DistributionFile()) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	var raw distributionFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	return raw.Repositories, nil
}

func (d *distribution) saveDistributionFile() error {
	names := make([]string, 0, len(d.repos))
	for name := range d.repos {
		names = append(names, name)
	}
	sort.Strings(names)

	b, err := json.Marshal(distributionFile{Repositories: names})
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	path := d.root.DistributionFile()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}

func (d *distribution) CreateImage(ctx context.Context, ref string, spec imagestore.CreateSpec) (*imagestore.Image, error) {
	parsed, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}
	spec.Repository = parsed.Name
	spec.Tag = parsed.Tag

	img, desc, err := d.images.Create(ctx, spec)
	if err != nil {
		return nil, err
	}

	repo, ok := d.repos[parsed.Name]
	if !ok {
		repo = newRepository(parsed.Name)
		d.repos[parsed.Name] = repo
	}
	repo.Upsert(desc)
	if err := repo.save(d.root); err != nil {
		return nil, err
	}
	if err := d.saveDistributionFile(); err != nil {
		return nil, err
	}
	xlog.C(ctx).Debugf("distribution: created %s (%s)", img.ShortID(), parsed)
	return img, nil
}

func (d *distribution) RemoveImage(ctx context.Context, ref string) error {
	img, err := d.GetImage(ctx, ref)
	if err != nil {
		return err
	}

	if err := d.images.Remove(ctx, img); err != nil {
		return err
	}

	var emptied []string
	for name, repo := range d.repos {
		if repo.RemoveManifestDigest(img.ManifestID) {
			emptied = append(emptied, name)
		}
		if err := repo.save(d.root); err != nil {
			return err
		}
	}
	for _, name := range emptied {
		repo := d.repos[name]
		if err := repo.remove(d.root); err != nil {
			return err
		}
		delete(d.repos, name)
	}
	return d.saveDistributionFile()
}

func (d *distribution) GetImage(ctx context.Context, ref string) (*imagestore.Image, error) {
	if isFullID(ref) {
		return d.images.Load(ctx, digest.FromHex(ref))
	}
	if isShortID(ref) {
		full, ok := d.resolveShortID(ref)
		if !ok {
			return nil, errdefs.AsNotFound(errdefs.ErrImageUnknown,
				fmt.Errorf("no image with short id %s", ref))
		}
		return d.images.Load(ctx, full)
	}

	parsed, err := ParseReference(ref)
	if err != nil {
		return nil, err
	}
	repo, ok := d.repos[parsed.Name]
	if !ok {
		return nil, errdefs.AsNotFound(errdefs.ErrImageUnknown,
			fmt.Errorf("repository %q not found", parsed.Name))
	}
	desc, ok := repo.Descriptor(parsed.Tag)
	if !ok {
		return nil, errdefs.AsNotFound(errdefs.ErrImageUnknown,
			fmt.Errorf("%s not found", parsed))
	}
	return d.images.Load(ctx, desc.Digest)
}

func (d *distribution) TagImage(ctx context.Context, ref, target string) (*imagestore.Image, error) {
	img, err := d.GetImage(ctx, ref)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseReference(target)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(d.root.ManifestFile(img.ManifestID))
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	desc := imgspecv1.Descriptor{
		MediaType:   ociimage.MediaTypeManifest,
		Digest:      img.ManifestID,
		Size:        info.Size(),
		Annotations: map[string]string{ociimage.RefNameAnnotation: parsed.Tag},
	}

	repo, ok := d.repos[parsed.Name]
	if !ok {
		repo = newRepository(parsed.Name)
		d.repos[parsed.Name] = repo
	}
	repo.Upsert(desc)
	if err := repo.save(d.root); err != nil {
		return nil, err
	}
	if err := d.saveDistributionFile(); err != nil {
		return nil, err
	}
	xlog.C(ctx).Debugf("distribution: tagged %s as %s", img.ShortID(), parsed)
	return img, nil
}

func (d *distribution) resolveShortID(short string) (godigest.Digest, bool) {
	for _, repo := range d.repos {
		for _, desc := range repo.Index.Manifests {
			if strings.HasPrefix(desc.Digest.Encoded(), short) {
				return desc.Digest, true
			}
		}
	}
	return "", false
}

func (d *distribution) ListImages(ctx context.Context) ([]ImageSummary, error) {
	summaries := []ImageSummary{}
	names := make([]string, 0, len(d.repos))
	for name := range d.repos {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		repo := d.repos[name]
		for _, desc := range repo.Index.Manifests {
			summaries = append(summaries, ImageSummary{
				Repository: name,
				Tag:        desc.Annotations[ociimage.RefNameAnnotation],
				ManifestID: desc.Digest,
			})
		}
	}
	return summaries, nil
}

func (d *distribution) Reconcile(ctx context.Context) error {
	entries, err := os.ReadDir(d.root.RepositoriesDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.repos = make(map[string]*Repository)
			return d.saveDistributionFile()
		}
		return errdefs.NewE(errdefs.ErrSystem, err)
	}

	onDisk := make(map[string]*Repository)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		repo, err := loadRepository(d.root, name)
		if err != nil {
			xlog.C(ctx).Warnf("distribution: reconcile skipping unreadable repository %s: %s", name, err)
			continue
		}
		onDisk[name] = repo
	}
	d.repos = onDisk
	return d.saveDistributionFile()
}
