//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package common holds helpers shared by the permctl subcommands.
package common

import (
	"context"
	"fmt"
	"io"

	"github.com/fieldworks/permengine/pkg/directory"
	"github.com/fieldworks/permengine/pkg/directory/static"
	"github.com/fieldworks/permengine/pkg/engine"
	"github.com/fieldworks/permengine/pkg/engine/decisionlog"
	"github.com/fieldworks/permengine/pkg/engine/options"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/urfave/cli/v3"
)

// NewCliEngine creates an [engine.Engine] configured from CLI command
// flags, writing decision log records to the supplied writer.
func NewCliEngine(cmd *cli.Command, stdout io.Writer) (engine.Engine, error) {
	engineOptions := []options.EngineOptionsFunc{
		options.WithDecisionLog(decisionlog.NewIoWriterFactory(stdout)),
	}
	if cmd.Root().Bool("quiet") {
		engineOptions[0] = options.WithDecisionLog(decisionlog.NewNullFactory())
	}

	return engine.NewEngine(engineOptions...)
}

// NewCliDirectory loads the static directory fixture named by the
// --directory flag. Returns nil when the flag is absent; subcommands that
// require directory lookups must check for that.
func NewCliDirectory(cmd *cli.Command) (directory.Service, error) {
	path := cmd.String("directory")
	if path == "" {
		return nil, nil
	}
	return static.New(path)
}

// ResolveContexts assembles the user and entity contexts for a
// check/batch invocation from the --user and --entity flags, resolving
// both through the directory. The --entity flag takes the form
// "kind/id", e.g. "workorder/wo-100", and is optional.
func ResolveContexts(ctx context.Context, dir directory.Service, userID, entityRef string) (*types.UserContext, *types.EntityContext, error) {
	if dir == nil {
		return nil, nil, fmt.Errorf("--directory is required to resolve --user and --entity")
	}
	if userID == "" {
		return nil, nil, fmt.Errorf("--user is required")
	}

	user, aerr := dir.UserContext(ctx, userID)
	if aerr != nil {
		return nil, nil, aerr
	}

	if entityRef == "" {
		return user, nil, nil
	}

	kind, id, ok := splitEntityRef(entityRef)
	if !ok {
		return nil, nil, fmt.Errorf("invalid entity reference %q; expected kind/id", entityRef)
	}

	entity, aerr := dir.EntityContext(ctx, kind, id)
	if aerr != nil {
		return nil, nil, aerr
	}

	return user, entity, nil
}

func splitEntityRef(ref string) (kind, id string, ok bool) {
	for i, r := range ref {
		if r == '/' {
			kind, id = ref[:i], ref[i+1:]
			return kind, id, kind != "" && id != ""
		}
	}
	return "", "", false
}
