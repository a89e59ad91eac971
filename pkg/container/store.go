package container

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	godigest "github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/zfsoci/zedstore/pkg/clock"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/idgen"
	"github.com/zfsoci/zedstore/pkg/layer"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/repository"
	"github.com/zfsoci/zedstore/pkg/runc"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

// CreateSpec carries the inputs to CreateContainer, per spec.md §4.6's
// create protocol given (image_ref, name?, command?, workdir?).
type CreateSpec struct {
	ImageRef string
	Name     string
	Command  []string
	Workdir  string
}

// Runtime maps container references to Container records and orchestrates
// the external low-level runtime process. Per spec.md §5, there is no
// internal locking: a single process is single-threaded and Runtime is not
// safe for concurrent use from multiple goroutines within one process.
type Runtime interface {
	// CreateContainer resolves the image, clones a scratch layer from its
	// top layer, composes a runtime spec, persists container.json and
	// config.json, and asks the external runtime to create the container.
	CreateContainer(ctx context.Context, spec CreateSpec) (*Container, error)
	// StartContainer asks the external runtime to start ref.
	StartContainer(ctx context.Context, ref string) error
	// RemoveContainer requires ref to be exited or absent; otherwise force
	// must be set, and the runtime is asked to delete the container first.
	// Removal destroys the scratch layer.
	RemoveContainer(ctx context.Context, ref string, force bool) error
	// GetContainer resolves ref per spec.md §4.6's order: exact id > short
	// id > name, refreshing status from the external runtime.
	GetContainer(ctx context.Context, ref string) (*Container, error)
	// ListContainers returns every live container, refreshed from the
	// external runtime.
	ListContainers(ctx context.Context) ([]*Container, error)
}

type runtimeFile struct {
	Containers []string `json:"containers"`
}

type runtime struct {
	root       pathspec.Root
	images     repository.Distribution
	layers     layer.Store
	runner     runc.Runner
	clock      clock.Clock
	ids        *idgen.Generator
	containers map[string]*Container
}

// NewRuntime loads runtime.json (tolerating a missing file) and every
// listed container's on-disk record, refreshing each one's status from the
// external runtime, per spec.md §4.6.
func NewRuntime(ctx context.Context, root pathspec.Root, images repository.Distribution, layers layer.Store, runner runc.Runner, clk clock.Clock) (Runtime, error) {
	if clk == nil {
		clk = clock.New()
	}
	r := &runtime{
		root:       root,
		images:     images,
		layers:     layers,
		runner:     runner,
		clock:      clk,
		ids:        idgen.New(),
		containers: make(map[string]*Container),
	}

	ids, err := r.readRuntimeFile()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		c, err := r.loadContainer(ctx, id)
		if err != nil {
			if errors.Is(err, errdefs.ErrContainerUnknown) {
				xlog.C(ctx).Warnf("container: %s listed in runtime.json but has no record, dropping", id)
				continue
			}
			return nil, err
		}
		r.containers[id] = c
	}
	return r, nil
}

func (r *runtime) readRuntimeFile() ([]string, error) {
	b, err := os.ReadFile(r.root.RuntimeListFile()) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	var raw runtimeFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	return raw.Containers, nil
}

func (r *runtime) saveRuntimeFile() error {
	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b, err := json.Marshal(runtimeFile{Containers: ids})
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return writeFile(r.root.RuntimeListFile(), b)
}

func (r *runtime) loadContainer(ctx context.Context, id string) (*Container, error) {
	b, err := os.ReadFile(r.root.ContainerMetadataFile(id)) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errdefs.AsNotFound(errdefs.ErrContainerUnknown, err)
		}
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	var md metadata
	if err := json.Unmarshal(b, &md); err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}

	specBytes, err := os.ReadFile(r.root.ContainerConfigFile(id)) //nolint:gosec
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	var spec specs.Spec
	if err := json.Unmarshal(specBytes, &spec); err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, md.CreatedAt)
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	imageID, err := godigest.Parse(md.ImageID)
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}

	c := &Container{
		ID:           md.ID,
		RuntimeID:    md.RuntimeID,
		Name:         md.Name,
		CreatedAt:    createdAt,
		ImageID:      imageID,
		ScratchLayer: layer.Layer{NodeID: md.DiffID},
		RuntimeSpec:  &spec,
	}
	c.Status = r.queryStatus(ctx, c)
	return c, nil
}

func (r *runtime) queryStatus(ctx context.Context, c *Container) Status {
	state, err := r.runner.State(ctx, c.RuntimeID)
	if err != nil {
		return StatusExited
	}
	switch state.Status {
	case runc.StatusCreating, runc.StatusCreated:
		return StatusCreated
	case runc.StatusRunning:
		return StatusRunning
	default:
		return StatusExited
	}
}

func (r *runtime) CreateContainer(ctx context.Context, spec CreateSpec) (*Container, error) {
	img, err := r.images.GetImage(ctx, spec.ImageRef)
	if err != nil {
		return nil, err
	}

	id, runtimeID, err := r.allocateID()
	if err != nil {
		return nil, err
	}

	scratch, err := r.layers.NewScratch(ctx, img.TopLayer())
	if err != nil {
		return nil, err
	}

	mountPath, err := r.layers.Path(scratch)
	if err != nil {
		return nil, err
	}

	cmd := spec.Command
	if len(cmd) == 0 {
		cmd = img.Config.Config.Config.Cmd
	}
	cwd := spec.Workdir
	if cwd == "" {
		cwd = img.Config.Config.Config.WorkingDir
	}
	name := spec.Name
	if name == "" {
		name = runtimeID
	}

	runtimeSpec := &specs.Spec{
		Version:  "1.0.0",
		Hostname: runtimeID,
		Process: &specs.Process{
			Terminal: true,
			Args:     cmd,
			Env:      img.Config.Config.Config.Env,
			Cwd:      cwd,
		},
		Root: &specs.Root{
			Path:     mountPath,
			Readonly: false,
		},
	}

	c := &Container{
		ID:           id,
		RuntimeID:    runtimeID,
		Name:         name,
		CreatedAt:    r.clock.Now(),
		ImageID:      img.ManifestID,
		ScratchLayer: scratch,
		RuntimeSpec:  runtimeSpec,
		Status:       StatusCreated,
	}

	if err := r.save(c); err != nil {
		return nil, err
	}

	if err := r.runner.Create(ctx, runtimeID, r.root.ContainerDir(id)); err != nil {
		return nil, err
	}

	r.containers[id] = c
	if err := r.saveRuntimeFile(); err != nil {
		return nil, err
	}
	xlog.C(ctx).Debugf("container: created %s (%s)", idgen.Short(id), name)
	return c, nil
}

func (r *runtime) allocateID() (string, string, error) {
	for {
		id, err := r.ids.Hex256()
		if err != nil {
			return "", "", errdefs.NewE(errdefs.ErrSystem, err)
		}
		runtimeID := idgen.Short(id)
		if _, exists := r.containers[id]; exists {
			continue
		}
		collision := false
		for _, c := range r.containers {
			if c.RuntimeID == runtimeID {
				collision = true
				break
			}
		}
		if collision {
			continue
		}
		return id, runtimeID, nil
	}
}

func (r *runtime) save(c *Container) error {
	md := c.toMetadata()
	mdBytes, err := json.Marshal(md)
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.MkdirAll(r.root.ContainerDir(c.ID), 0o755); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := writeFile(r.root.ContainerMetadataFile(c.ID), mdBytes); err != nil {
		return err
	}
	specBytes, err := json.Marshal(c.RuntimeSpec)
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return writeFile(r.root.ContainerConfigFile(c.ID), specBytes)
}

func (r *runtime) StartContainer(ctx context.Context, ref string) error {
	c, err := r.GetContainer(ctx, ref)
	if err != nil {
		return err
	}
	if err := r.runner.Start(ctx, c.RuntimeID); err != nil {
		return err
	}
	c.Status = StatusRunning
	return nil
}

func (r *runtime) RemoveContainer(ctx context.Context, ref string, force bool) error {
	c, err := r.GetContainer(ctx, ref)
	if err != nil {
		return err
	}

	if c.Status != StatusExited {
		if !force {
			return errdefs.AsConflict(errdefs.ErrContainerRunning,
				fmt.Errorf("container %s is not exited", idgen.Short(c.ID)))
		}
		if err := r.runner.Delete(ctx, c.RuntimeID, true); err != nil {
			return err
		}
	}

	if err := r.layers.Remove(ctx, c.ScratchLayer); err != nil {
		return err
	}

	if err := os.RemoveAll(r.root.ContainerDir(c.ID)); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}

	delete(r.containers, c.ID)
	return r.saveRuntimeFile()
}

func (r *runtime) GetContainer(ctx context.Context, ref string) (*Container, error) {
	if c, ok := r.containers[ref]; ok {
		c.Status = r.queryStatus(ctx, c)
		return c, nil
	}
	for id, c := range r.containers {
		if idgen.Short(id) == ref {
			c.Status = r.queryStatus(ctx, c)
			return c, nil
		}
	}
	for _, c := range r.containers {
		if c.Name == ref {
			c.Status = r.queryStatus(ctx, c)
			return c, nil
		}
	}
	return nil, errdefs.AsNotFound(errdefs.ErrContainerUnknown,
		fmt.Errorf("container %q not found", ref))
}

func (r *runtime) ListContainers(ctx context.Context) ([]*Container, error) {
	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Container, 0, len(ids))
	for _, id := range ids {
		c := r.containers[id]
		c.Status = r.queryStatus(ctx, c)
		out = append(out, c)
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}
