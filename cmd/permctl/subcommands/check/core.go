//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package check implements the permctl check and batch subcommands.
package check

import (
	"context"
	"os"

	"github.com/fieldworks/permengine/cmd/permctl/common"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/urfave/cli/v3"

	pkgcommon "github.com/fieldworks/permengine/pkg/common"
)

// Result is the printed outcome of a single check.
type Result struct {
	User       string               `json:"user"`
	Permission types.Permission     `json:"permission"`
	Entity     *types.EntityContext `json:"entity,omitempty"`
	Allowed    bool                 `json:"allowed"`
}

// BatchResult is the printed outcome of a batch invocation.
type BatchResult struct {
	User    string                    `json:"user"`
	Entity  *types.EntityContext      `json:"entity,omitempty"`
	Results map[types.Permission]bool `json:"results"`
}

// Execute runs a single permission check from CLI flags and prints the
// decision as JSON.
func Execute(ctx context.Context, cmd *cli.Command) error {
	eng, err := common.NewCliEngine(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer eng.Close()

	dir, err := common.NewCliDirectory(cmd)
	if err != nil {
		return err
	}

	user, entity, err := common.ResolveContexts(ctx, dir, cmd.String("user"), cmd.String("entity"))
	if err != nil {
		return err
	}

	permission := types.Permission(cmd.String("permission"))
	allowed := eng.HasPermission(permission, *user, entity)

	pkgcommon.PrettyPrint(Result{
		User:       user.UserID,
		Permission: permission,
		Entity:     entity,
		Allowed:    allowed,
	})

	return nil
}

// ExecuteBatch runs a batch of permission checks against one context and
// prints the decisions as JSON. With no --permission flags, the full
// catalog is checked, which is handy for capability discovery.
func ExecuteBatch(ctx context.Context, cmd *cli.Command) error {
	eng, err := common.NewCliEngine(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer eng.Close()

	dir, err := common.NewCliDirectory(cmd)
	if err != nil {
		return err
	}

	user, entity, err := common.ResolveContexts(ctx, dir, cmd.String("user"), cmd.String("entity"))
	if err != nil {
		return err
	}

	var permissions []types.Permission
	for _, p := range cmd.StringSlice("permission") {
		permissions = append(permissions, types.Permission(p))
	}
	if len(permissions) == 0 {
		permissions = types.Catalog()
	}

	results := eng.BatchCheck(permissions, *user, entity)

	pkgcommon.PrettyPrint(BatchResult{
		User:    user.UserID,
		Entity:  entity,
		Results: results,
	})

	return nil
}
