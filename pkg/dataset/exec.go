package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/util/xio"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

// Executor runs a single dataset-binary invocation, behind a mockable
// interface per spec.md §9 ("subprocess orchestration must be behind a
// mockable interface").
type Executor interface {
	// Run executes name with args, feeding stdin (if non-nil) and writing
	// captured stdout to stdout (if non-nil). It returns the External error
	// joined with exit status and captured stderr on non-zero exit.
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// execExecutor runs the real binary via os/exec.
type execExecutor struct{}

// NewOSExecutor returns the Executor backed by os/exec.CommandContext.
func NewOSExecutor() Executor {
	return execExecutor{}
}

func (execExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if stdout != nil {
		cmd.Stdout = stdout
	}
	xlog.C(ctx).Debugf("running command: %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return errdefs.NewE(errdefs.ErrDatasetServiceFailure, fmt.Errorf(
			"%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String())))
	}
	return nil
}

// execService implements Service by shelling out to a zfs-compatible
// binary, with argument shapes grounded on solaris_oci/util/zfs.py.
type execService struct {
	bin string
	run Executor
}

// NewExecService returns a Service backed by the given dataset binary path
// (e.g. "/usr/sbin/zfs") and Executor.
func NewExecService(bin string, run Executor) Service {
	if run == nil {
		run = NewOSExecutor()
	}
	return &execService{bin: bin, run: run}
}

func (s *execService) Create(ctx context.Context, name string, opts CreateOptions) error {
	args := []string{"create"}
	if opts.Mountpoint != "" {
		args = append(args, "-o", "mountpoint="+opts.Mountpoint)
	}
	if opts.Compression {
		args = append(args, "-o", "compression=lz4")
	}
	args = append(args, name)
	return s.run.Run(ctx, s.bin, args, nil, nil)
}

func (s *execService) Clone(ctx context.Context, target, snapshot, mountpoint string) error {
	args := []string{"clone"}
	if mountpoint != "" {
		args = append(args, "-o", "mountpoint="+mountpoint)
	}
	args = append(args, snapshot, target)
	return s.run.Run(ctx, s.bin, args, nil, nil)
}

func (s *execService) Snapshot(ctx context.Context, dataset, snapName string, recursive bool) error {
	args := []string{"snapshot"}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, dataset+"@"+snapName)
	return s.run.Run(ctx, s.bin, args, nil, nil)
}

func (s *execService) SetReadonly(ctx context.Context, dataset string, readonly bool) error {
	val := "off"
	if readonly {
		val = "on"
	}
	return s.run.Run(ctx, s.bin, []string{"set", "readonly=" + val, dataset}, nil, nil)
}

func (s *execService) SetMountpoint(ctx context.Context, dataset, path string) error {
	return s.run.Run(ctx, s.bin, []string{"set", "mountpoint=" + path, dataset}, nil, nil)
}

func (s *execService) Get(ctx context.Context, dataset, property string) (Value, error) {
	var buf bytes.Buffer
	if err := s.run.Run(ctx, s.bin, []string{"get", "-Hp", property, dataset}, nil, &buf); err != nil {
		return Value{}, err
	}
	fields := strings.Split(strings.TrimSpace(buf.String()), "\t")
	if len(fields) < 3 {
		return Value{}, errdefs.NewE(errdefs.ErrDatasetServiceFailure,
			fmt.Errorf("unexpected zfs get output: %q", buf.String()))
	}
	return valueConvert(property, fields[2]), nil
}

func (s *execService) Destroy(ctx context.Context, name string, recursive, synchronous bool) error {
	args := []string{"destroy"}
	if recursive {
		args = append(args, "-r")
	}
	if synchronous {
		args = append(args, "-s")
	}
	args = append(args, name)
	return s.run.Run(ctx, s.bin, args, nil, nil)
}

func (s *execService) Send(ctx context.Context, w io.Writer, snapshot, fromSnapshot string, recursive bool) error {
	args := []string{"send"}
	if recursive {
		args = append(args, "-R")
	}
	if fromSnapshot != "" {
		args = append(args, "-I", fromSnapshot)
	}
	args = append(args, snapshot)
	mw := xio.NewMeasuredWriter(w)
	err := s.run.Run(ctx, s.bin, args, nil, mw)
	xlog.C(ctx).Debugf("dataset: sent %d bytes from %s", mw.Total(), snapshot)
	return err
}

func (s *execService) Receive(ctx context.Context, dataset string, r io.Reader) error {
	mr := xio.NewMeasuredReader(r)
	err := s.run.Run(ctx, s.bin, []string{"receive", dataset}, mr, nil)
	xlog.C(ctx).Debugf("dataset: received %d bytes into %s", mr.Total(), dataset)
	return err
}

func (s *execService) List(ctx context.Context, root string, recursive bool, kind Kind, properties []string) ([]Entry, error) {
	if len(properties) == 0 {
		properties = []string{"name", "used", "avail", "refer", "mountpoint"}
	}
	args := []string{"list", "-Hp"}
	if recursive {
		args = append(args, "-r")
	}
	if kind != "" {
		args = append(args, "-t", string(kind))
	}
	args = append(args, "-o", strings.Join(properties, ","))
	if root != "" {
		args = append(args, root)
	}
	var buf bytes.Buffer
	if err := s.run.Run(ctx, s.bin, args, nil, &buf); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, nil
	}
	var entries []Entry
	for _, line := range strings.Split(text, "\n") {
		values := strings.Split(line, "\t")
		entry := Entry{Properties: map[string]Value{}}
		for i, prop := range properties {
			if i >= len(values) {
				break
			}
			v := valueConvert(prop, values[i])
			if prop == "name" {
				entry.Name = values[i]
			}
			entry.Properties[prop] = v
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *execService) Exists(ctx context.Context, name string) (bool, error) {
	entries, err := s.List(ctx, name, false, KindAll, []string{"name"})
	if err != nil {
		return false, nil //nolint:nilerr // non-existent dataset surfaces as a command failure, not found
	}
	return len(entries) == 1, nil
}

func (s *execService) IsFilesystem(ctx context.Context, name string) (bool, error) {
	v, err := s.Get(ctx, name, "type")
	if err != nil {
		return false, nil //nolint:nilerr
	}
	return v.Text == "filesystem", nil
}

func (s *execService) IsSnapshot(ctx context.Context, name string) (bool, error) {
	v, err := s.Get(ctx, name, "type")
	if err != nil {
		return false, nil //nolint:nilerr
	}
	return v.Text == "snapshot", nil
}

// valueConvert normalizes a raw "zfs get"/"zfs list" field following
// solaris_oci/util/zfs.py's value_convert: "on"/"off" to bool, "-" to
// absent, "mountpoint" to a path, numeric strings to int64, anything else
// passed through as text.
func valueConvert(property, raw string) Value {
	switch raw {
	case "on":
		b := true
		return Value{Bool: &b, Present: true}
	case "off":
		b := false
		return Value{Bool: &b, Present: true}
	case "-":
		return Value{Present: false}
	}
	if property == "mountpoint" {
		return Value{Path: raw, Text: raw, Present: true}
	}
	if n, err := cast.ToInt64E(raw); err == nil && isNumeric(raw) {
		return Value{Int64: &n, Present: true}
	}
	return Value{Text: raw, Present: true}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return false
	}
	return true
}
