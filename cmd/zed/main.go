// Package main is the entry point for zed, a thin CLI demonstrating the
// image and container operations backed by internal/store. Presentation
// logic here stays intentionally minimal: argument parsing and output
// formatting only, no business logic.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	internalstore "github.com/zfsoci/zedstore/internal/store"
	"github.com/zfsoci/zedstore/pkg/cmdhelper"
	"github.com/zfsoci/zedstore/pkg/commands"
	containercmd "github.com/zfsoci/zedstore/pkg/commands/container"
	imagecmd "github.com/zfsoci/zedstore/pkg/commands/image"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/util/homedir"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

var (
	configPath string
	rootDir    string
)

// defaultConfigPath returns ~/.zedstore/zedstore.yaml, used as the --config
// flag's default when the user does not pass one.
func defaultConfigPath() string {
	home, err := homedir.Get()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".zedstore", "zedstore.yaml")
}

func openStore(ctx context.Context, cmd *cli.Command) (*internalstore.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}

	return internalstore.Open(ctx, internalstore.Config{
		Root:           pathspec.Root(cfg.Root),
		DatasetBin:     cfg.DatasetBin,
		DatasetRootZFS: cfg.DatasetZFS,
		RuncBin:        cfg.RuncBin,
	})
}

func main() {
	app := cli.Command{
		Name:                  "zed",
		Usage:                 "zed manages OCI images and containers backed by a ZFS-style dataset service",
		Suggest:               true,
		EnableShellCompletion: true,
		HideVersion:           true,
		HideHelpCommand:       true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to zedstore.yaml",
				Value:       defaultConfigPath(),
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "store root directory, overrides the config file",
				Destination: &rootDir,
			},
		},
		Commands: []*cli.Command{
			commands.NewVersionCommand().ToCLI(),
			imagecmd.New(openStore).ToCLI(),
			containercmd.New(openStore).ToCLI(),
		},
		ExitErrHandler: func(_ context.Context, c *cli.Command, err error) {
			if err == nil {
				return
			}
			cli.HandleExitCoder(err)
			cmdhelper.Fprintf(c.ErrWriter, "Error: %+v", err)
			os.Exit(1)
		},
	}

	xlog.SetLevel(slog.LevelInfo)

	//nolint:errcheck // already checked in root command ExitErrHandler
	_ = app.Run(context.Background(), os.Args)
}
