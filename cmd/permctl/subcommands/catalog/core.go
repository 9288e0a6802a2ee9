//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package catalog implements the permctl catalog subcommand.
package catalog

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/urfave/cli/v3"
)

// grantSummaries maps each permission to a short description of who
// holds it beyond Owner/Admin, mirroring the rule table.
var grantSummaries = map[types.Permission]string{
	types.PermissionOrganizationManage:   "-",
	types.PermissionOrganizationInvite:   "-",
	types.PermissionEquipmentView:        "team members",
	types.PermissionEquipmentEdit:        "team managers",
	types.PermissionWorkOrderView:        "team members",
	types.PermissionWorkOrderEdit:        "team managers",
	types.PermissionWorkOrderAssign:      "team managers",
	types.PermissionWorkOrderChangeState: "team members, assignee",
	types.PermissionTeamView:             "team members",
	types.PermissionTeamManage:           "team managers",
}

// Execute prints the permission catalog with a summary of who holds each
// permission. Owner and Admin hold everything, so only the additional
// grants are listed.
func Execute(_ context.Context, _ *cli.Command) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "PERMISSION\tALSO GRANTED TO")
	for _, p := range types.Catalog() {
		fmt.Fprintf(w, "%s\t%s\n", p, grantSummaries[p])
	}

	return w.Flush()
}
