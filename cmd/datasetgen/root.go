package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"datasetgen/internal/infra"
)

type globalOptions struct {
	envFile string
	verbose bool
	backend string
}

// cli carries state shared by the subcommands once the root pre-run has loaded it.
type cli struct {
	opts   globalOptions
	cfg    *infra.Config
	logger infra.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "datasetgen",
		Short:         "Generate a posed image dataset of one character from a reference photo",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&c.opts.backend, "backend", "", "override GENERATION_BACKEND (rest, sdk, synthetic)")

	root.AddCommand(
		newPosesCmd(c),
		newAnalyzeCmd(c),
		newRunCmd(c),
		newStopCmd(c),
	)
	return root
}

func (c *cli) load() error {
	// A missing dotenv file is fine; the environment may already be set.
	_ = godotenv.Load(c.opts.envFile)

	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	if c.opts.backend != "" {
		cfg.GenerationBackend = c.opts.backend
	}
	c.cfg = cfg
	c.logger = infra.NewCLILogger(c.opts.verbose)
	return nil
}
