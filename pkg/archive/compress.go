package archive

import (
	"io"

	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/util/xio/compression"
	_ "github.com/zfsoci/zedstore/pkg/util/xio/compression/builtin" // register gzip/tar/xz
)

// Codec names a registered layer compression format, per spec.md §6.
type Codec string

const (
	// CodecGzip compresses with gzip (parallel via pgzip when Multithread is set).
	CodecGzip Codec = "gzip"
	// CodecXZ compresses with xz.
	CodecXZ Codec = "xz"
)

// MediaTypeForCodec returns the OCI layer media type for the given codec,
// per spec.md §6.
func MediaTypeForCodec(c Codec) string {
	switch c {
	case CodecXZ:
		return "application/vnd.oci.image.layer.nondistributable.v1.tar+xz"
	default:
		return "application/vnd.oci.image.layer.nondistributable.v1.tar+gzip"
	}
}

// Compress wraps w with a compressor for the given codec. multithread
// requests the parallel variant where one is registered (gzip via pgzip).
func Compress(w io.Writer, c Codec, multithread bool) (io.WriteCloser, error) {
	format, err := compression.GetFormat(string(c))
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrCompressionFailure, err)
	}
	wc, err := format.Compress(w, compression.WithMultithread(multithread))
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrCompressionFailure, err)
	}
	return wc, nil
}

// Decompress auto-detects the codec used on r and returns an uncompressing
// reader alongside the detected codec name.
func Decompress(r io.Reader) (io.ReadCloser, Codec, error) {
	format, rewound, err := compression.DetectReader(r)
	if err != nil {
		return nil, "", errdefs.NewE(errdefs.ErrCompressionFailure, err)
	}
	rc, err := format.Uncompress(rewound)
	if err != nil {
		return nil, "", errdefs.NewE(errdefs.ErrCompressionFailure, err)
	}
	return rc, Codec(format.Name()), nil
}
