// Package container defines cmd/zed's "container" command and its
// subcommands.
package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v3"

	internalstore "github.com/zfsoci/zedstore/internal/store"
	"github.com/zfsoci/zedstore/pkg/cmdhelper"
	"github.com/zfsoci/zedstore/pkg/container"
)

// Opener resolves cmd/zed's wired store for a parsed invocation.
type Opener func(ctx context.Context, cmd *cli.Command) (*internalstore.Store, error)

// Command is the "container" command and its subcommands.
type Command struct {
	Open Opener
}

// New creates a new container command bound to open.
func New(open Opener) *Command {
	return &Command{Open: open}
}

// ToCLI transforms to a *cli.Command.
func (c *Command) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "container",
		Usage: "Container operations",
		Commands: []*cli.Command{
			c.newCreateCommand(),
			c.newRunCommand(),
			c.newStartCommand(),
			c.newInspectCommand(),
			c.newListCommand(),
			c.newRemoveCommand(),
		},
	}
}

func createSpecFlags(spec *container.CreateSpec) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "container name", Destination: &spec.Name},
		&cli.StringFlag{Name: "workdir", Usage: "working directory override", Destination: &spec.Workdir},
		&cli.StringSliceFlag{Name: "entrypoint", Usage: "command override (repeat for each arg)", Destination: &spec.Command},
	}
}

func (c *Command) newCreateCommand() *cli.Command {
	spec := container.CreateSpec{}
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a container from an image",
		ArgsUsage: "IMAGE",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Flags:     createSpecFlags(&spec),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			spec.ImageRef = cmd.Args().First()
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			created, err := store.Runtime.CreateContainer(ctx, spec)
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "%s", created.Name)
			return nil
		},
	}
}

func (c *Command) newRunCommand() *cli.Command {
	spec := container.CreateSpec{}
	return &cli.Command{
		Name:      "run",
		Usage:     "Create and start a container from an image",
		ArgsUsage: "IMAGE",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Flags:     createSpecFlags(&spec),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			spec.ImageRef = cmd.Args().First()
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			created, err := store.Runtime.CreateContainer(ctx, spec)
			if err != nil {
				return err
			}
			if err := store.Runtime.StartContainer(ctx, created.ID); err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "%s", created.Name)
			return nil
		},
	}
}

func (c *Command) newStartCommand() *cli.Command {
	return &cli.Command{
		Name:      "start",
		Usage:     "Start a created container",
		ArgsUsage: "CONTAINER",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			if err := store.Runtime.StartContainer(ctx, ref); err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Started %s", ref)
			return nil
		},
	}
}

func (c *Command) newInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Display detailed information about a container",
		ArgsUsage: "CONTAINER",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			cont, err := store.Runtime.GetContainer(ctx, cmd.Args().First())
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, `ID        : %s
RuntimeID : %s
Name      : %s
Image     : %s
Status    : %s
Created   : %s`,
				cont.ID, cont.RuntimeID, cont.Name, cont.ImageID, cont.Status,
				cont.CreatedAt.Format("2006-01-02T15:04:05Z"))
			return nil
		},
	}
}

func (c *Command) newListCommand() *cli.Command {
	return &cli.Command{
		Name:    "ls",
		Aliases: []string{"list"},
		Usage:   "List containers",
		Before:  cli.BeforeFunc(cmdhelper.NoArgs()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := c.Open(ctx, cmd)
			if err != nil {
				return err
			}
			list, err := store.Runtime.ListContainers(ctx)
			if err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "%-14s %-20s %-10s %s", "CONTAINER ID", "NAME", "STATUS", "IMAGE")
			for _, cont := range list {
				cmdhelper.Fprintf(cmd.Writer, "%-14s %-20s %-10s %s", cont.RuntimeID, cont.Name, cont.Status, cont.ImageID)
			}
			return nil
		},
	}
}

func (c *Command) newRemoveCommand() *cli.Command {
	var force bool
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a container",
		ArgsUsage: "CONTAINER",
		Before:    cli.BeforeFunc(cmdhelper.ExactArgs(1)),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Destination: &force},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref := cmd.Args().First()
			if !force {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Are you sure you want to remove container %s", ref),
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
			if err := store.Runtime.RemoveContainer(ctx, ref, force); err != nil {
				return err
			}
			cmdhelper.Fprintf(cmd.Writer, "Removed %s", ref)
			return nil
		},
	}
}
