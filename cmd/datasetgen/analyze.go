package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"datasetgen/internal/bootstrap"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <image>",
		Short: "Print the identity profile extracted from a reference image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read reference: %w", err)
			}

			components, err := bootstrap.Build(ctx, c.cfg, &c.logger, nil)
			if err != nil {
				return err
			}
			defer components.Close(ctx)

			if _, err := components.Studio.SetReference(data); err != nil {
				return err
			}
			text, err := components.Studio.Analyze(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
