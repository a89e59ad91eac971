// Package runc drives the external low-level container runtime subprocess
// (a runc-compatible binary), behind a mockable Runner interface per
// spec.md §9 ("subprocess orchestration must be behind a mockable
// interface"). Argument shapes are grounded on solaris_oci/util/runc.py,
// restructured around spec.md §4.6/§6's exact verb set (create/start/
// delete/state) using pkg/dataset's Executor abstraction instead of
// runc.py's bare subprocess.call.
package runc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/zfsoci/zedstore/pkg/dataset"
	"github.com/zfsoci/zedstore/pkg/errdefs"
)

// Status is a runc state document's lifecycle status string.
type Status string

const (
	StatusCreating Status = "creating"
	StatusCreated  Status = "created"
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
)

// State is the JSON document "runc state <runtime_id>" prints, per spec.md
// §6's `{id, status, bundle, pid}`.
type State struct {
	ID      string `json:"id"`
	Status  Status `json:"status"`
	Bundle  string `json:"bundle"`
	Pid     int    `json:"pid"`
	Rootfs  string `json:"rootfs,omitempty"`
	Created string `json:"created,omitempty"`
}

// Runner drives the external runtime binary for one runtime-id at a time.
// Every method is synchronous and none are cancellable mid-flight, per
// spec.md §5's blocking-and-suspension note; callers wanting cancellation
// must kill the subprocess via ctx.
type Runner interface {
	// Create invokes "runc create <runtimeID> -b <bundlePath>".
	Create(ctx context.Context, runtimeID, bundlePath string) error
	// Start invokes "runc start <runtimeID>".
	Start(ctx context.Context, runtimeID string) error
	// Delete invokes "runc delete [--force] <runtimeID>".
	Delete(ctx context.Context, runtimeID string, force bool) error
	// State invokes "runc state <runtimeID>" and parses its JSON output.
	State(ctx context.Context, runtimeID string) (State, error)
}

// execRunner shells out to a runc-compatible binary via dataset.Executor.
type execRunner struct {
	bin string
	run dataset.Executor
}

// NewExecRunner returns a Runner backed by the given runtime binary path
// (e.g. "/usr/sbin/runc") and Executor. A nil Executor defaults to
// dataset.NewOSExecutor().
func NewExecRunner(bin string, run dataset.Executor) Runner {
	if run == nil {
		run = dataset.NewOSExecutor()
	}
	return &execRunner{bin: bin, run: run}
}

// runError re-tags err, raised by the shared dataset.Executor, as a runtime
// subprocess failure instead of a dataset service failure: the Executor
// interface is shared between pkg/dataset and pkg/runc, so it has no way to
// know which subprocess it just ran, and always tags non-zero exits as
// errdefs.ErrDatasetServiceFailure. Per spec.md §7 the two are distinct
// External error kinds.
func runError(err error) error {
	return errdefs.NewE(errdefs.ErrRuntimeSubprocessFailure, err)
}

func (r *execRunner) Create(ctx context.Context, runtimeID, bundlePath string) error {
	return runError(r.run.Run(ctx, r.bin, []string{"create", runtimeID, "-b", bundlePath}, nil, nil))
}

func (r *execRunner) Start(ctx context.Context, runtimeID string) error {
	return runError(r.run.Run(ctx, r.bin, []string{"start", runtimeID}, nil, nil))
}

func (r *execRunner) Delete(ctx context.Context, runtimeID string, force bool) error {
	args := []string{"delete"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, runtimeID)
	return runError(r.run.Run(ctx, r.bin, args, nil, nil))
}

func (r *execRunner) State(ctx context.Context, runtimeID string) (State, error) {
	var buf bytes.Buffer
	if err := r.run.Run(ctx, r.bin, []string{"state", runtimeID}, nil, &buf); err != nil {
		return State{}, runError(err)
	}
	var s State
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		return State{}, errdefs.NewE(errdefs.ErrSystem,
			fmt.Errorf("parsing runc state output: %w", err))
	}
	return s, nil
}
