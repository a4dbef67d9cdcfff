package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"datasetgen/internal/bootstrap"
	"datasetgen/internal/infra"
)

func newStopCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask a running batch in another process to stop after its current pose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rdb, err := infra.NewRedisClient(ctx, c.cfg)
			if err != nil {
				return err
			}
			if rdb == nil {
				return errors.New("stop needs REDIS_URL; without it a batch can only be stopped from its own process")
			}
			defer rdb.Close()

			if err := bootstrap.Token(c.cfg, rdb, &c.logger).Cancel(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stop requested")
			return nil
		},
	}
}
