// Package store wires every component — dataset service, graph driver,
// layer store, image store, repository/distribution, and runtime — into a
// single process-wide object, the way the teacher's own cmd/* entrypoints
// once constructed their dependencies before being trimmed (see DESIGN.md).
// Per spec.md §5, each construction simply re-reads the same on-disk state;
// there is no hidden global singleton.
package store

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/zfsoci/zedstore/pkg/clock"
	"github.com/zfsoci/zedstore/pkg/container"
	"github.com/zfsoci/zedstore/pkg/dataset"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/graph"
	"github.com/zfsoci/zedstore/pkg/idgen"
	"github.com/zfsoci/zedstore/pkg/imagestore"
	"github.com/zfsoci/zedstore/pkg/layer"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/repository"
	"github.com/zfsoci/zedstore/pkg/runc"
)

// DefaultRoot is the default store root, per spec.md §6.
const DefaultRoot = "/var/lib/zedstore"

// DefaultDatasetBin is the default dataset-service binary path.
const DefaultDatasetBin = "/usr/sbin/zfs"

// DefaultRuncBin is the default low-level runtime binary path.
const DefaultRuncBin = "/usr/sbin/runc"

// Config configures Open.
type Config struct {
	// Root is the store root directory. Defaults to DefaultRoot.
	Root pathspec.Root
	// DatasetBin is the dataset-service binary path. Defaults to DefaultDatasetBin.
	DatasetBin string
	// DatasetRootZFS is the root dataset name under which every chain's
	// base dataset is created (e.g. "rpool/zedstore").
	DatasetRootZFS string
	// RuncBin is the low-level runtime binary path. Defaults to DefaultRuncBin.
	RuncBin string

	// DatasetExecutor overrides how the dataset binary is invoked. Defaults
	// to dataset.NewOSExecutor(); tests substitute a fake to avoid shelling
	// out to a real dataset service.
	DatasetExecutor dataset.Executor
	// RuncExecutor overrides how the runtime binary is invoked. Defaults to
	// dataset.NewOSExecutor(); tests substitute a fake for the same reason.
	RuncExecutor dataset.Executor
}

func (c *Config) setDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.DatasetBin == "" {
		c.DatasetBin = DefaultDatasetBin
	}
	if c.RuncBin == "" {
		c.RuncBin = DefaultRuncBin
	}
}

// Store holds every constructed component for one process's lifetime.
type Store struct {
	Root pathspec.Root

	Dataset      dataset.Service
	Graph        graph.Driver
	Layers       layer.Store
	Images       imagestore.Store
	Distribution repository.Distribution
	Runtime      container.Runtime
}

// Open constructs every component and reconciles the distribution index
// against the repository index files actually on disk, per spec.md §9 Open
// Question 2 ("reconcile once at startup, not on every operation").
func Open(ctx context.Context, cfg Config) (*Store, error) {
	cfg.setDefaults()

	ds := dataset.NewExecService(cfg.DatasetBin, cfg.DatasetExecutor)
	ids := idgen.New()

	drv, err := graph.New(ctx, graph.TypeDataset, graph.Config{
		Service: ds,
		Root:    cfg.Root,
		RootZFS: cfg.DatasetRootZFS,
		IDs:     ids,
	})
	if err != nil {
		return nil, err
	}
	if err := drv.Reload(ctx); err != nil {
		return nil, err
	}

	layers, err := layer.NewStore(drv, cfg.Root)
	if err != nil {
		return nil, err
	}

	images := imagestore.NewStore(layers, cfg.Root, clock.New())

	dist, err := repository.NewDistribution(ctx, cfg.Root, images)
	if err != nil {
		return nil, err
	}
	if err := dist.Reconcile(ctx); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Root.OCILayoutFile()); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.Root.RepositoriesDir(), 0o755); err != nil {
			return nil, errdefs.NewE(errdefs.ErrSystem, err)
		}
		if err := os.WriteFile(cfg.Root.OCILayoutFile(), []byte(`{"imageLayoutVersion":"1.0.0"}`), 0o644); err != nil {
			return nil, errdefs.NewE(errdefs.ErrSystem, err)
		}
	}

	runner := runc.NewExecRunner(cfg.RuncBin, cfg.RuncExecutor)
	rt, err := container.NewRuntime(ctx, cfg.Root, dist, layers, runner, clock.New())
	if err != nil {
		return nil, err
	}

	return &Store{
		Root:         cfg.Root,
		Dataset:      ds,
		Graph:        drv,
		Layers:       layers,
		Images:       images,
		Distribution: dist,
		Runtime:      rt,
	}, nil
}
