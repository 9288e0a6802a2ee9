//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package main

import (
	"context"
	"log"
	"os"

	"github.com/fieldworks/permengine/cmd/permctl/subcommands/catalog"
	"github.com/fieldworks/permengine/cmd/permctl/subcommands/check"
	"github.com/fieldworks/permengine/cmd/permctl/subcommands/serve"
	"github.com/fieldworks/permengine/cmd/permctl/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "permctl",
		Usage:   "A CLI application for working with the Fieldworks permission engine",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress decision log output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Evaluates a single permission for a user, optionally against an entity",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "directory",
						Aliases:  []string{"d"},
						Usage:    "Load the user/entity directory from `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "The user id to evaluate",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "permission",
						Aliases:  []string{"p"},
						Usage:    "The permission to evaluate, e.g. 'equipment.edit'",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "entity",
						Aliases: []string{"e"},
						Usage:   "The entity to evaluate against, as 'kind/id', e.g. 'workorder/wo-100'",
					},
				},
				Action: check.Execute,
			},
			{
				Name:  "batch",
				Usage: "Evaluates a set of permissions (default: the full catalog) against one context",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "directory",
						Aliases:  []string{"d"},
						Usage:    "Load the user/entity directory from `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "The user id to evaluate",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "permission",
						Aliases: []string{"p"},
						Usage:   "A permission to evaluate. Can be specified multiple times.",
					},
					&cli.StringFlag{
						Name:    "entity",
						Aliases: []string{"e"},
						Usage:   "The entity to evaluate against, as 'kind/id'",
					},
				},
				Action: check.ExecuteBatch,
			},
			{
				Name:   "catalog",
				Usage:  "Prints the permission catalog and who holds each permission",
				Action: catalog.Execute,
			},
			{
				Name:  "serve",
				Usage: "Creates a decision-point service",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "The TCP port to serve on.",
						Value: 9000,
					},
					&cli.StringFlag{
						Name:    "directory",
						Aliases: []string{"d"},
						Usage:   "Load the user/entity directory from `FILE` (optional; requests may carry inline contexts)",
					},
				},
				Action: serve.Execute,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
