// Package archive packs and unpacks directory trees as tar archives and
// measures directory sizes, grounded on solaris_oci/util/file.py's tar/
// untar/du helpers but reimplemented in-process with archive/tar rather than
// shelling out to a tar(1) binary, since the teacher's own xio/compression
// stack already operates at the io.Reader/io.Writer level.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/util/xcontext"
	"github.com/zfsoci/zedstore/pkg/util/xio"
)

// epoch is the fixed timestamp every packed entry is stamped with, so that
// packing the same directory contents twice (even on different hosts, at
// different wall-clock times, owned by different uids) produces byte-
// identical tar output and therefore the same diff digest. Real mtimes,
// ownership, and usernames are host/run-specific and carry no content
// meaning for an image layer.
var epoch = time.Unix(0, 0).UTC()

func normalizeHeader(hdr *tar.Header) {
	hdr.ModTime = epoch
	hdr.AccessTime = time.Time{}
	hdr.ChangeTime = time.Time{}
	hdr.Uid = 0
	hdr.Gid = 0
	hdr.Uname = ""
	hdr.Gname = ""
}

// Pack walks dir and writes its contents as a tar stream to w. Entry names
// are relative to dir and use forward slashes. ctx is checked between
// entries so a large directory tree can be aborted promptly.
func Pack(ctx context.Context, dir string, w io.Writer) error {
	tw := tar.NewWriter(w)
	defer xio.CloseAndLogError(tw, "closing tar writer")

	var names []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		names = append(names, path)
		return nil
	}); err != nil {
		return errdefs.NewE(errdefs.ErrArchiveFailure, fmt.Errorf("walking %s: %w", dir, err))
	}
	sort.Strings(names)

	for _, path := range names {
		if err := xcontext.NonBlockingCheck(ctx, "packing", dir); err != nil {
			return errdefs.NewE(errdefs.ErrArchiveFailure, err)
		}
		if err := packOne(tw, dir, path); err != nil {
			return errdefs.NewE(errdefs.ErrArchiveFailure, err)
		}
	}
	return nil
}

func packOne(tw *tar.Writer, root, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)

	var link string
	if info.Mode()&os.ModeSymlink != 0 {
		link, err = os.Readlink(path)
		if err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = rel
	if info.IsDir() {
		hdr.Name += "/"
	}
	normalizeHeader(hdr)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.Mode().IsRegular() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer xio.CloseAndSkipError(f)
		if _, err := io.Copy(tw, f); err != nil {
			return err
		}
	}
	return nil
}

// MaxEntrySize bounds a single extracted file's size to guard against
// decompression-bomb style archives.
const MaxEntrySize = 8 << 30 // 8 GiB

// Unpack reads a tar stream from r and materializes it under dir, creating
// dir if it does not exist. Returns the total number of bytes written. ctx
// is checked between entries so a large archive can be aborted promptly.
func Unpack(ctx context.Context, r io.Reader, dir string) (int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errdefs.NewE(errdefs.ErrArchiveFailure, err)
	}
	tr := tar.NewReader(r)
	var total int64
	for {
		if err := xcontext.NonBlockingCheck(ctx, "unpacking", dir); err != nil {
			return total, errdefs.NewE(errdefs.ErrArchiveFailure, err)
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, errdefs.NewE(errdefs.ErrArchiveFailure, err)
		}
		n, err := unpackOne(tr, hdr, dir)
		total += n
		if err != nil {
			return total, errdefs.NewE(errdefs.ErrArchiveFailure, err)
		}
	}
	return total, nil
}

func unpackOne(tr *tar.Reader, hdr *tar.Header, dir string) (int64, error) {
	name := filepath.Clean(hdr.Name)
	if name == "." {
		return 0, nil
	}
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return 0, fmt.Errorf("tar entry escapes destination: %s", hdr.Name)
	}
	target := filepath.Join(dir, name)

	switch hdr.Typeflag {
	case tar.TypeDir:
		return 0, os.MkdirAll(target, os.FileMode(hdr.Mode)&0o777|0o700)
	case tar.TypeSymlink:
		_ = os.Remove(target)
		return 0, os.Symlink(hdr.Linkname, target)
	case tar.TypeLink:
		oldpath := filepath.Join(dir, filepath.Clean(hdr.Linkname))
		_ = os.Remove(target)
		return 0, os.Link(oldpath, target)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return 0, err
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0o777|0o600)
		if err != nil {
			return 0, err
		}
		defer xio.CloseAndSkipError(f)
		n, err := io.Copy(f, io.LimitReader(tr, MaxEntrySize))
		return n, err
	default:
		// skip device files, fifos, etc: not meaningful within a node mount.
		return 0, nil
	}
}

// DirSize reports the total apparent size, in bytes, of regular files under
// dir, mirroring solaris_oci/util/file.py's "du -bs" helper.
func DirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, errdefs.NewE(errdefs.ErrArchiveFailure, err)
	}
	return total, nil
}
