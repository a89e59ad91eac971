package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/zfsoci/zedstore/pkg/dataset"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/idgen"
	"github.com/zfsoci/zedstore/pkg/pathspec"
)

// Type names a graph driver implementation, following the teacher's
// DriverType/DriverCreator registry so a store can be extended with a second
// dataset-service-compatible backend without touching callers.
type Type string

// TypeDataset is the only driver type zedstore ships: one backed directly by
// a dataset.Service.
const TypeDataset Type = "dataset"

// Config configures a Driver construction.
type Config struct {
	Service dataset.Service
	Root    pathspec.Root
	RootZFS string
	IDs     *idgen.Generator
}

// Creator constructs a Driver of its registered Type from a Config.
type Creator func(ctx context.Context, cfg Config) (Driver, error)

var (
	creatorsMu sync.RWMutex
	creators   = map[Type]Creator{}
)

// RegisterCreator registers a Creator for typ. It panics if typ is already
// registered, mirroring the teacher's MustRegisterDriverCreator.
func RegisterCreator(typ Type, creator Creator) {
	creatorsMu.Lock()
	defer creatorsMu.Unlock()
	if _, ok := creators[typ]; ok {
		panic(fmt.Sprintf("graph: driver creator %q already registered", typ))
	}
	creators[typ] = creator
}

// GetCreator returns the Creator registered for typ.
func GetCreator(typ Type) (Creator, bool) {
	creatorsMu.RLock()
	defer creatorsMu.RUnlock()
	creator, ok := creators[typ]
	return creator, ok
}

// New constructs a Driver of the given type.
func New(ctx context.Context, typ Type, cfg Config) (Driver, error) {
	creator, ok := GetCreator(typ)
	if !ok {
		return nil, errdefs.Newf(errdefs.ErrUnsupported, "graph driver type %q is not supported", typ)
	}
	return creator(ctx, cfg)
}

func init() {
	RegisterCreator(TypeDataset, func(_ context.Context, cfg Config) (Driver, error) {
		return NewDatasetDriver(cfg.Service, cfg.Root, cfg.RootZFS, cfg.IDs), nil
	})
}
