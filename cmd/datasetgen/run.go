package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"datasetgen/internal/batch"
	"datasetgen/internal/bootstrap"
	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	"datasetgen/internal/storage"
	"datasetgen/internal/studio"
)

type runOptions struct {
	poses      []string
	profile    string
	manual     string
	eyeColor   string
	bodyBuild  string
	chestSize  string
	hipSize    string
	hairLock   bool
	bodyLock   bool
	resolution string
	project    string
	seed       uint64
	out        string
	format     string
	dryRun     bool
}

func newRunCmd(c *cli) *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Generate one image per selected pose and write them with captions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.dryRun {
				c.cfg.GenerationBackend = infra.BackendSynthetic
			}
			if cmd.Flags().Changed("seed") {
				c.cfg.PromptSeed = o.seed
				c.cfg.PromptSeeded = true
			}
			if o.out != "" {
				c.cfg.StoragePath = o.out
			}
			if o.format != "" {
				c.cfg.OutputFormat = strings.ToLower(o.format)
			}
			return runBatch(cmd, c, o, args[0])
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&o.poses, "poses", "p", nil, "pose ids to generate (default: the whole catalog)")
	f.StringVar(&o.profile, "profile", "", "profile mode: auto or manual (default: manual when --manual is set)")
	f.StringVar(&o.manual, "manual", "", "manual identity description")
	f.StringVar(&o.eyeColor, "eye-color", "", "eye color adjustment")
	f.StringVar(&o.bodyBuild, "body-build", "", "body build adjustment")
	f.StringVar(&o.chestSize, "chest-size", "", "chest size adjustment")
	f.StringVar(&o.hipSize, "hip-size", "", "hip size adjustment")
	f.BoolVar(&o.hairLock, "hair-lock", false, "keep the hairstyle from the profile")
	f.BoolVar(&o.bodyLock, "body-lock", false, "keep body shape from the reference")
	f.StringVarP(&o.resolution, "resolution", "r", string(domain.Resolution1K), "output resolution: 1K, 2K or 4K")
	f.StringVar(&o.project, "project", "", "project name used in prompt headers")
	f.Uint64Var(&o.seed, "seed", 0, "seed for wardrobe and expression draws")
	f.StringVarP(&o.out, "out", "o", "", "output directory (default: STORAGE_PATH)")
	f.StringVar(&o.format, "format", "", "image format: png or webp (default: OUTPUT_FORMAT)")
	f.BoolVar(&o.dryRun, "dry-run", false, "render placeholder images without calling the provider")
	return cmd
}

func runBatch(cmd *cobra.Command, c *cli, o runOptions, imagePath string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read reference: %w", err)
	}
	store, err := storage.NewFileStore(c.cfg.StoragePath)
	if err != nil {
		return err
	}

	components, err := bootstrap.Build(ctx, c.cfg, &c.logger, progressObserver(c.logger))
	if err != nil {
		return err
	}
	defer components.Close(context.Background())
	svc := components.Studio

	if err := configure(ctx, svc, o, data); err != nil {
		return err
	}

	// First interrupt stops after the pose in flight, a second one aborts it.
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		stops := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				stops++
				if stops == 1 {
					c.logger.Warn().Msg("run: stopping after the current pose, interrupt again to abort")
					if err := svc.Stop(ctx); err != nil {
						c.logger.Error().Err(err).Msg("run: stop request failed")
					}
					continue
				}
				cancel()
				return
			}
		}
	}()

	task, runErr := svc.Run(ctx)
	gallery := svc.Gallery()

	if len(gallery) > 0 {
		entries, err := store.WriteGallery(context.Background(), task.ID, gallery, c.cfg.OutputFormat)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d images to %s\n", len(entries), filepath.Join(store.BasePath(), task.ID))
	}

	snap := svc.Snapshot()
	for _, f := range snap.Batch.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %s\n", f.PoseID, f.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "batch %s %s: %d/%d poses\n", task.ID, task.Status, task.Current, task.Total)
	return runErr
}

func configure(ctx context.Context, svc *studio.Service, o runOptions, data []byte) error {
	if _, err := svc.SetReference(data); err != nil {
		return err
	}

	mode := domain.ProfileModeAuto
	if strings.TrimSpace(o.manual) != "" {
		mode = domain.ProfileModeManual
	}
	if o.profile != "" {
		parsed, err := domain.ParseProfileMode(o.profile)
		if err != nil {
			return err
		}
		mode = parsed
	}
	if err := svc.SetProfile(mode, o.manual); err != nil {
		return err
	}
	if mode == domain.ProfileModeAuto {
		if _, err := svc.Analyze(ctx); err != nil {
			return fmt.Errorf("analyze reference: %w", err)
		}
	}

	svc.SetAdjustments(domain.CharacterAdjustments{
		EyeColor:  o.eyeColor,
		BodyBuild: o.bodyBuild,
		ChestSize: o.chestSize,
		HipSize:   o.hipSize,
	})
	svc.SetLocks(o.hairLock, o.bodyLock)
	if err := svc.SetOutput(domain.Resolution(o.resolution), o.project); err != nil {
		return err
	}

	ids := o.poses
	if len(ids) == 0 {
		for _, p := range svc.Catalog().Poses() {
			ids = append(ids, p.ID)
		}
	}
	return svc.Select(ids)
}

func progressObserver(logger infra.Logger) batch.Observer {
	return batch.ObserverFunc(func(e batch.Event) {
		ev := logger.Info().
			Str("event", string(e.Type)).
			Int("current", e.Current).
			Int("total", e.Total)
		switch {
		case e.Image != nil:
			ev = ev.Str("pose_id", e.Image.PoseID)
		case e.Failure != nil:
			ev = ev.Str("pose_id", e.Failure.PoseID).Str("error", e.Failure.Message)
		case e.Error != "":
			ev = ev.Str("error", e.Error)
		}
		ev.Msg("run: progress")
	})
}
