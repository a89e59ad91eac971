package archive_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zfsoci/zedstore/pkg/archive"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "etc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "etc", "hello"), []byte("hi\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, archive.Pack(ctx, src, &buf))

	dst := t.TempDir()
	n, err := archive.Unpack(ctx, &buf, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := os.ReadFile(filepath.Join(dst, "etc", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(got))
}

func TestPackIsReproducibleAcrossRuns(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "hello"), []byte("hi\n"), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(src, "hello"), time.Now(), time.Now()))

	var first bytes.Buffer
	require.NoError(t, archive.Pack(ctx, src, &first))

	require.NoError(t, os.Chtimes(filepath.Join(src, "hello"), time.Now().Add(time.Hour), time.Now().Add(time.Hour)))
	var second bytes.Buffer
	require.NoError(t, archive.Pack(ctx, src, &second))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("1234"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("12"), 0o644))

	size, err := archive.DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)
}

func TestCompressDecompressGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	wc, err := archive.Compress(&buf, archive.CodecGzip, false)
	require.NoError(t, err)
	_, err = wc.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, wc.Close())

	rc, codec, err := archive.Decompress(&buf)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, archive.CodecGzip, codec)
}

func TestUnpackRejectsPathEscape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, packEvilEntry(&buf))

	dst := t.TempDir()
	_, err := archive.Unpack(context.Background(), &buf, dst)
	assert.Error(t, err)
}
