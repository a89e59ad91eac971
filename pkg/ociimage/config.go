package ociimage

import (
	"encoding/json"
	"time"

	godigest "github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/zfsoci/zedstore/pkg/errdefs"
)

// Default image config values applied when a caller's runtime spec does not
// supply them, per spec.md §4.4 step 3.
var (
	DefaultEnv = []string{"PATH=/usr/sbin:/usr/bin:/sbin:/bin"}
	DefaultCmd = []string{"/bin/sh"}
)

// DefaultCwd is the default working directory applied per spec.md §4.4 step 3.
const DefaultCwd = "/"

// RootFSType is the only rootfs.type value this module writes.
const RootFSType = "layers"

// Config wraps imgspecv1.Image.
type Config struct {
	imgspecv1.Image
}

// DeserializedConfig wraps Config with a copy of the exact bytes it was
// built or parsed from.
type DeserializedConfig struct {
	Config

	canonical []byte
}

// ConfigSpec carries the fields NewConfig derives an image config from.
type ConfigSpec struct {
	Platform imgspecv1.Platform
	Env      []string
	Cmd      []string
	Cwd      string
	DiffIDs  []godigest.Digest
	History  []imgspecv1.History
	Created  time.Time
}

// NewConfig derives an ImageConfig per spec.md §4.4 steps 3–4: Env/Cmd/Cwd
// default when unset, RootFS.Type is always "layers", and the created
// timestamp is taken from the injected clock, never time.Now.
func NewConfig(spec ConfigSpec) (*DeserializedConfig, error) {
	env := spec.Env
	if len(env) == 0 {
		env = DefaultEnv
	}
	cmd := spec.Cmd
	if len(cmd) == 0 {
		cmd = DefaultCmd
	}
	cwd := spec.Cwd
	if cwd == "" {
		cwd = DefaultCwd
	}

	created := spec.Created
	raw := imgspecv1.Image{
		Created:  &created,
		Platform: spec.Platform,
		Config: imgspecv1.ImageConfig{
			Env:        env,
			Cmd:        cmd,
			WorkingDir: cwd,
		},
		RootFS: imgspecv1.RootFS{
			Type:    RootFSType,
			DiffIDs: spec.DiffIDs,
		},
		History: spec.History,
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	c := &DeserializedConfig{}
	if err := c.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return c, nil
}

// UnmarshalJSON retains b verbatim as the canonical payload before parsing a
// shallow copy into the Config fields.
func (c *DeserializedConfig) UnmarshalJSON(b []byte) error {
	c.canonical = make([]byte, len(b))
	copy(c.canonical, b)

	var shallow Config
	if err := json.Unmarshal(c.canonical, &shallow); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	c.Config = shallow
	return nil
}

// MarshalJSON returns the canonical bytes verbatim.
func (c *DeserializedConfig) MarshalJSON() ([]byte, error) {
	if len(c.canonical) == 0 {
		return nil, errdefs.NewE(errdefs.ErrSystem, errConfigNotInitialized)
	}
	return c.canonical, nil
}

// Payload returns the canonical bytes used to compute the config-id digest.
func (c DeserializedConfig) Payload() ([]byte, error) {
	if len(c.canonical) == 0 {
		return nil, errdefs.NewE(errdefs.ErrSystem, errConfigNotInitialized)
	}
	return c.canonical, nil
}

// DiffIDs returns the rootfs diff-ids in chain order, root first.
func (c DeserializedConfig) DiffIDs() []godigest.Digest {
	return c.Config.RootFS.DiffIDs
}
