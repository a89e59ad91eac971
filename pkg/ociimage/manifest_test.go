package ociimage_test

import (
	"testing"

	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zfsoci/zedstore/pkg/ociimage"
)

func TestNewManifestRoundTrip(t *testing.T) {
	config := imgspecv1.Descriptor{
		MediaType: ociimage.MediaTypeConfig,
		Digest:    "sha256:" + repeat("a", 64),
		Size:      123,
	}
	layer := imgspecv1.Descriptor{
		MediaType: "application/vnd.oci.image.layer.nondistributable.v1.tar+gzip",
		Digest:    "sha256:" + repeat("b", 64),
		Size:      456,
	}
	m, err := ociimage.NewManifest(config, []imgspecv1.Descriptor{layer}, map[string]string{
		ociimage.RefNameAnnotation: "latest",
	})
	require.NoError(t, err)

	assert.Equal(t, ociimage.MediaTypeManifest, m.MediaType())
	assert.Equal(t, config, m.Config())
	assert.Equal(t, []imgspecv1.Descriptor{layer}, m.Layers())
	assert.Equal(t, "latest", m.RefName())

	payload, err := m.Payload()
	require.NoError(t, err)
	assert.NotEmpty(t, payload)

	var reparsed ociimage.DeserializedManifest
	require.NoError(t, reparsed.UnmarshalJSON(payload))
	reparsedPayload, err := reparsed.Payload()
	require.NoError(t, err)
	assert.Equal(t, payload, reparsedPayload)
	assert.Equal(t, m.Config(), reparsed.Config())
}

func TestManifestPayloadErrorsWhenUninitialized(t *testing.T) {
	var m ociimage.DeserializedManifest
	_, err := m.Payload()
	assert.Error(t, err)
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, s...)
	}
	return string(out[:n])
}
