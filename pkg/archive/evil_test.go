package archive_test

import (
	"archive/tar"
	"io"
)

// packEvilEntry writes a single tar entry whose name attempts to escape the
// extraction directory, for TestUnpackRejectsPathEscape.
func packEvilEntry(w io.Writer) error {
	tw := tar.NewWriter(w)
	if err := tw.WriteHeader(&tar.Header{
		Name:     "../../etc/passwd",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     0,
	}); err != nil {
		return err
	}
	return tw.Close()
}
