package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"datasetgen/internal/catalog"
	"datasetgen/internal/domain"
)

func newPosesCmd(c *cli) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "poses",
		Short: "List the pose catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(c.cfg.PoseCatalogPath)
			if err != nil {
				return err
			}
			var only domain.PoseGroup
			if group != "" {
				if only, err = domain.ParsePoseGroup(group); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tGROUP\tLABEL")
			for _, p := range cat.Poses() {
				if only != "" && p.Group != only {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Group, p.Label)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only list poses of this group (portrait, upper, full)")
	return cmd
}
