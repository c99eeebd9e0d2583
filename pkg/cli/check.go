package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"adowatch/pkg/cli/config"
)

// cmdCheck runs a single refresh cycle and prints the snapshot, useful for
// verifying credentials and configuration before running serve
func cmdCheck() *cli.Command {
	var devopsCfg config.DevOps

	return &cli.Command{
		Name:  "check",
		Usage: "Run one refresh cycle and print the snapshot as JSON",
		Flags: devopsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := devopsCfg.Validate(); err != nil {
				return err
			}

			coordinator, err := setupCoordinator(ctx, &devopsCfg)
			if err != nil {
				return err
			}

			snapshot, err := coordinator.Refresh(ctx)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(snapshot); err != nil {
				return goerr.Wrap(err, "failed to encode snapshot")
			}

			return nil
		},
	}
}
