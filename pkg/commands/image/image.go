// Package image defines cmd/zed's "image" command and its subcommands.
package image

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/urfave/cli/v3"

	internalstore "github.com/zfsoci/zedstore/internal/store"
	"github.com/zfsoci/zedstore/pkg/archive"
	"github.com/zfsoci/zedstore/pkg/cmdhelper"
	"github.com/zfsoci/zedstore/pkg/imagestore"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/util/xos"
)

// Opener resolves cmd/zed's wired store for a parsed invocation.
type Opener func(ctx context.Context, cmd *cli.Command) (*internalstore.Store, error)

// Command is the "image" command and its subcommands.
type Command struct {
	Open Opener
}

// New creates a new image command bound to open.
func New(open Opener) *Command {
	return &Command{Open: open}
}

// ToCLI transforms to a *cli.Command.
func (c *Command) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "image",
		Usage: "Image operations",
		Commands: []*cli.Command{
			c.newImportCommand(),
			c.newLoadCommand(),
			c.newSaveCommand(),
			c.newTagCommand(),
			c.newInspectCommand(),
			c.newListCommand(),
			c.newRemoveCommand(),
			c.newHistoryCommand(),
		},
	}
}

func (c *Command) newImportCommand() *cli.Command {
	var cwd string
	var env, command []string
	var codec string
	return &cli.Command{
		Name:      "import",
		Usage:     "Create an image from a root filesystem archive",
		ArgsUsage: "REF ARCHIVE",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(2)),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "codec", Usage: `layer compression codec, oneof ["gzip", "xz"]`, Value: string(archive.CodecGzip), Destination: &codec},
			&cli.StringFlag{Name: "cwd", Usage: "container working directory", Destination: &cwd},
			&cli.StringSliceFlag{Name: "env", Usage: "environment variable KEY=VALUE", Destination: &env},
			&cli.StringSliceFlag{Name: "cmd", Usage: "default command", Destination: &command},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().Get(0)
			path := cmd.Args().Get(1)

			f, err := os.Open(path) //nolint:gosec
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck

			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := store.Distribution.CreateImage(ctx, ref, imagestore.CreateSpec{
				SourceArchive: f,
				Codec:         archive.Codec(codec),
				Env:           env,
				Cmd:           command,
				Cwd:           cwd,
			})
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Imported %s as %s", img.ShortID(), ref)
			return nil
		},
	}
}

// These are the entry names of a "save"d image archive: a gzip-compressed
// tar containing the image reference, the raw image config payload, and the
// compressed layer blob, so "load" can reconstruct an equivalent image.
const (
	envelopeRefEntry    = "ref.txt"
	envelopeConfigEntry = "config.json"
	envelopeLayerEntry  = "layer.bin"
)

func (c *Command) newSaveCommand() *cli.Command {
	var output string
	return &cli.Command{
		Name:      "save",
		Usage:     "Save an image to a local archive",
		ArgsUsage: "REF",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file path", Required: true, Destination: &output},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := store.Distribution.GetImage(ctx, ref)
			if err != nil {
				return err
			}
			if len(img.Layers) == 0 {
				return fmt.Errorf("image %s has no layers to save", img.ShortID())
			}
			top := img.Layers[len(img.Layers)-1]

			configPayload, err := img.Config.Payload()
			if err != nil {
				return err
			}
			blobPath := store.Root.LayerBlobFile(top.BlobDigest())
			blob, err := os.ReadFile(blobPath) //nolint:gosec
			if err != nil {
				return err
			}

			out, err := xos.Create(output) //nolint:gosec
			if err != nil {
				return err
			}
			defer out.Close() //nolint:errcheck

			gz := gzip.NewWriter(out)
			tw := tar.NewWriter(gz)
			for _, entry := range []struct {
				name string
				data []byte
			}{
				{envelopeRefEntry, []byte(ref)},
				{envelopeConfigEntry, configPayload},
				{envelopeLayerEntry, blob},
			} {
				if err := tw.WriteHeader(&tar.Header{Name: entry.name, Size: int64(len(entry.data)), Mode: 0o644}); err != nil {
					return err
				}
				if _, err := tw.Write(entry.data); err != nil {
					return err
				}
			}
			if err := tw.Close(); err != nil {
				return err
			}
			if err := gz.Close(); err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Saved %s to %s", img.ShortID(), output)
			return nil
		},
	}
}

func (c *Command) newLoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load an image from a local archive",
		ArgsUsage: "ARCHIVE",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			f, err := os.Open(path) //nolint:gosec
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck

			gz, err := gzip.NewReader(f)
			if err != nil {
				return err
			}
			defer gz.Close() //nolint:errcheck

			var ref string
			var configPayload, blob []byte
			tr := tar.NewReader(gz)
			for {
				hdr, err := tr.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				data, err := io.ReadAll(tr)
				if err != nil {
					return err
				}
				switch hdr.Name {
				case envelopeRefEntry:
					ref = string(data)
				case envelopeConfigEntry:
					configPayload = data
				case envelopeLayerEntry:
					blob = data
				}
			}
			if ref == "" || configPayload == nil || blob == nil {
				return fmt.Errorf("%s is not a valid zedstore image archive", path)
			}

			var cfg imgspecv1.Image
			if err := json.Unmarshal(configPayload, &cfg); err != nil {
				return err
			}

			decompressed, detectedCodec, err := archive.Decompress(bytes.NewReader(blob))
			if err != nil {
				return err
			}
			defer decompressed.Close() //nolint:errcheck

			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := store.Distribution.CreateImage(ctx, ref, imagestore.CreateSpec{
				SourceArchive: decompressed,
				Codec:         detectedCodec,
				Platform:      cfg.Platform,
				Env:           cfg.Config.Env,
				Cmd:           cfg.Config.Cmd,
				Cwd:           cfg.Config.WorkingDir,
			})
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Loaded %s as %s", img.ShortID(), ref)
			return nil
		},
	}
}

func (c *Command) newTagCommand() *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Tag an existing image under a new reference",
		ArgsUsage: "SRC DST",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(2)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := store.Distribution.TagImage(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Tagged %s as %s", img.ShortID(), cmd.Args().Get(1))
			return nil
		},
	}
}

func (c *Command) newInspectCommand() *cli.Command {
	var pretty bool
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Display detailed information about an image",
		ArgsUsage: "REF",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "pretty", Value: true, Destination: &pretty},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := store.Distribution.GetImage(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			payload, err := img.Manifest.Payload()
			if err != nil {
				return err
			}
			if pretty {
				prettified, err := cmdhelper.PrettifyJSON(payload)
				if err != nil {
					return err
				}
				payload = prettified
			}
			_, err = cmd.Writer.Write(payload)
			return err
		},
	}
}

func (c *Command) newListCommand() *cli.Command {
	return &cli.Command{
		Name:    "ls",
		Aliases: []string{"list"},
		Usage:   "List images",
		Before:  cli.BeforeFunc(cmdhelper.NoArgs()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			summaries, err := store.Distribution.ListImages(ctx)
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "%-30s %-12s %s", "REPOSITORY", "TAG", "IMAGE ID")
			for _, s := range summaries {
				cmdhelper.Fprintf(cmd.Writer, "%-30s %-12s %s", s.Repository, s.Tag, s.ManifestID.Encoded()[:12])
			}
			return nil
		},
	}
}

func (c *Command) newRemoveCommand() *cli.Command {
	var force bool
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove an image",
		ArgsUsage: "REF",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Destination: &force},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			if !force {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Are you sure you want to remove image %s", ref),
					Default:   "N",
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					if errors.Is(err, promptui.ErrAbort) {
						return nil
					}
					return err
				}
			}
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			if err := store.Distribution.RemoveImage(ctx, ref); err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Removed %s", ref)
			return nil
		},
	}
}

func (c *Command) newHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show the build history of an image",
		ArgsUsage: "REF",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := store.Distribution.GetImage(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			layerDigests := make([]string, len(img.Layers))
			layerSizes := make([]int64, len(img.Layers))
			for i, l := range img.Layers {
				layerDigests[i] = l.BlobDigest().String()
				layerSizes[i] = l.Size
			}
			for _, h := range ociimage.DisplayHistory(img.History(), layerDigests, layerSizes) {
				created := ""
				if !h.Created.IsZero() {
					created = h.Created.Format("2006-01-02T15:04:05Z")
				}
				cmdhelper.Fprintf(cmd.Writer, "%s  %s  %d  %s", created, h.Layer, h.Size, h.CreatedBy)
			}
			return nil
		},
	}
}
