// Package builtin registers all compression formats exercised by the
// layer archive pipeline.
package builtin

import (
	_ "github.com/zfsoci/zedstore/pkg/util/xio/compression/gzip" // register gzip compression
	_ "github.com/zfsoci/zedstore/pkg/util/xio/compression/tar"  // register uncompressed tar passthrough
	_ "github.com/zfsoci/zedstore/pkg/util/xio/compression/xz"   // register xz compression
)
