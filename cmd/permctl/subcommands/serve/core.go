//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package serve implements the permctl serve subcommand.
package serve

import (
	"context"
	"os"
	"os/signal"

	"github.com/fieldworks/permengine/cmd/permctl/common"
	"github.com/fieldworks/permengine/internal/logging"
	"github.com/fieldworks/permengine/pkg/decisionpoint/rest"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("permctl")

const agent string = "serve"

// Execute runs the serve command, starting a REST decision point server.
// It shuts down gracefully on interrupt signals.
func Execute(ctx context.Context, cmd *cli.Command) error {
	port := cmd.Int("port")

	eng, err := common.NewCliEngine(cmd, os.Stdout)
	if err != nil {
		return err
	}

	dir, err := common.NewCliDirectory(cmd)
	if err != nil {
		return err
	}

	server, err := rest.CreateServer(eng, dir, int(port))
	if err != nil {
		return err
	}

	logger.Infof(agent, "serve", "decision point listening on :%d", port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info(agent, "shutdown", "Shutting down server...")

	err = server.Stop(ctx)
	if err != nil {
		return err
	}
	eng.Close()

	logger.Info(agent, "shutdown", "Server exited gracefully.")
	return nil
}
