package dataset_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zfsoci/zedstore/pkg/dataset"
)

// fakeExecutor records the last invocation and plays back a canned
// stdout/error, standing in for the real dataset binary.
type fakeExecutor struct {
	gotName  string
	gotArgs  []string
	gotStdin string

	stdout string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.gotName = name
	f.gotArgs = args
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		f.gotStdin = string(b)
	}
	if f.err != nil {
		return f.err
	}
	if stdout != nil && f.stdout != "" {
		_, _ = io.WriteString(stdout, f.stdout)
	}
	return nil
}

func TestExecServiceCreate(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	err := svc.Create(context.Background(), "root/base/node", dataset.CreateOptions{
		Mountpoint:  "/mnt/node",
		Compression: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/usr/sbin/zfs", fake.gotName)
	assert.Equal(t, []string{"create", "-o", "mountpoint=/mnt/node", "-o", "compression=lz4", "root/base/node"}, fake.gotArgs)
}

func TestExecServiceClone(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	require.NoError(t, svc.Clone(context.Background(), "root/base/child", "root/base@snap", "/mnt/child"))
	assert.Equal(t, []string{"clone", "-o", "mountpoint=/mnt/child", "root/base@snap", "root/base/child"}, fake.gotArgs)
}

func TestExecServiceSnapshotRecursive(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	require.NoError(t, svc.Snapshot(context.Background(), "root/base", "node123", true))
	assert.Equal(t, []string{"snapshot", "-r", "root/base@node123"}, fake.gotArgs)
}

func TestExecServiceSetReadonly(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	require.NoError(t, svc.SetReadonly(context.Background(), "root/base", true))
	assert.Equal(t, []string{"set", "readonly=on", "root/base"}, fake.gotArgs)

	require.NoError(t, svc.SetReadonly(context.Background(), "root/base", false))
	assert.Equal(t, []string{"set", "readonly=off", "root/base"}, fake.gotArgs)
}

func TestExecServiceGetBool(t *testing.T) {
	fake := &fakeExecutor{stdout: "root/base\treadonly\ton\tlocal\n"}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	v, err := svc.Get(context.Background(), "root/base", "readonly")
	require.NoError(t, err)
	require.NotNil(t, v.Bool)
	assert.True(t, *v.Bool)
}

func TestExecServiceGetInt64(t *testing.T) {
	fake := &fakeExecutor{stdout: "root/base\tused\t104857600\t-\n"}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	v, err := svc.Get(context.Background(), "root/base", "used")
	require.NoError(t, err)
	require.NotNil(t, v.Int64)
	assert.Equal(t, int64(104857600), *v.Int64)
}

func TestExecServiceGetAbsent(t *testing.T) {
	fake := &fakeExecutor{stdout: "root/base\torigin\t-\t-\n"}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	v, err := svc.Get(context.Background(), "root/base", "origin")
	require.NoError(t, err)
	assert.False(t, v.Present)
}

func TestExecServiceDestroy(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	require.NoError(t, svc.Destroy(context.Background(), "root/base/node", true, true))
	assert.Equal(t, []string{"destroy", "-r", "-s", "root/base/node"}, fake.gotArgs)
}

func TestExecServiceSendIncremental(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	var buf bytes.Buffer
	require.NoError(t, svc.Send(context.Background(), &buf, "root/base@b", "root/base@a", false))
	assert.Equal(t, []string{"send", "-I", "root/base@a", "root/base@b"}, fake.gotArgs)
}

func TestExecServiceReceivePassesStdin(t *testing.T) {
	fake := &fakeExecutor{}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	require.NoError(t, svc.Receive(context.Background(), "root/base", strings.NewReader("stream-bytes")))
	assert.Equal(t, []string{"receive", "root/base"}, fake.gotArgs)
	assert.Equal(t, "stream-bytes", fake.gotStdin)
}

func TestExecServiceListParsesRows(t *testing.T) {
	fake := &fakeExecutor{stdout: "root/base\t1048576\t/mnt/base\nroot/base/node\t2097152\t/mnt/base/node\n"}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	entries, err := svc.List(context.Background(), "root", true, dataset.KindFilesystem, []string{"name", "used", "mountpoint"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "root/base", entries[0].Name)
	assert.Equal(t, int64(1048576), *entries[0].Properties["used"].Int64)
	assert.Equal(t, "/mnt/base/node", entries[1].Properties["mountpoint"].Path)
	assert.Equal(t, []string{"list", "-Hp", "-r", "-t", "filesystem", "-o", "name,used,mountpoint", "root"}, fake.gotArgs)
}

func TestExecServiceExistsFalseOnError(t *testing.T) {
	fake := &fakeExecutor{err: assert.AnError}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	ok, err := svc.Exists(context.Background(), "root/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExecServiceIsFilesystemAndIsSnapshot(t *testing.T) {
	fake := &fakeExecutor{stdout: "root/base\ttype\tfilesystem\t-\n"}
	svc := dataset.NewExecService("/usr/sbin/zfs", fake)

	isFS, err := svc.IsFilesystem(context.Background(), "root/base")
	require.NoError(t, err)
	assert.True(t, isFS)

	fake.stdout = "root/base@node\ttype\tsnapshot\t-\n"
	isSnap, err := svc.IsSnapshot(context.Background(), "root/base@node")
	require.NoError(t, err)
	assert.True(t, isSnap)
}
