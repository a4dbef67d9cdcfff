// Package batch runs one generation batch at a time over a session.
package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"datasetgen/internal/catalog"
	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	"datasetgen/internal/profile"
	"datasetgen/internal/prompt"
)

// Synthesizer is the part of the generation client a batch needs.
type Synthesizer interface {
	Synthesize(ctx context.Context, req domain.SynthesisRequest) (string, error)
}

// Params is the caller-facing input of one batch.
type Params struct {
	Reference      domain.ReferenceImage
	ProfileMode    domain.ProfileMode
	AutoProfile    string
	ManualProfile  string
	Adjustments    domain.CharacterAdjustments
	HairLocked     bool
	BodyLocked     bool
	Resolution     domain.Resolution
	ProjectContext string
	Authorized     bool
}

// Ready reports whether every precondition for starting a batch holds,
// apart from the selection which lives in the session.
func (p Params) Ready() bool {
	return p.Reference.Present() && p.Authorized && profile.IsReady(p.ProfileMode, p.AutoProfile, p.ManualProfile)
}

type Options struct {
	Catalog   *catalog.Catalog
	Composer  *prompt.Composer
	Generator Synthesizer
	Logger    *infra.Logger
	Observer  Observer
	Now       func() time.Time
}

type Orchestrator struct {
	catalog   *catalog.Catalog
	composer  *prompt.Composer
	generator Synthesizer
	logger    *infra.Logger
	observer  Observer
	now       func() time.Time
}

func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	composer := opts.Composer
	if composer == nil {
		composer = prompt.NewComposer(prompt.Options{Wardrobe: catalog.Wardrobe, Expressions: catalog.Expressions})
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	return &Orchestrator{
		catalog:   cat,
		composer:  composer,
		generator: opts.Generator,
		logger:    logger,
		observer:  observer,
		now:       now,
	}
}

// Run executes one batch over the poses selected in session. It returns
// started=false with a nil error when a precondition does not hold. The
// returned error is the fatal authorization failure, ErrBatchRunning, or the
// context error when ctx ends the batch early.
func (o *Orchestrator) Run(ctx context.Context, session *Session, params Params, token CancelToken) (bool, error) {
	identity, ok := profile.ActiveProfile(params.ProfileMode, params.AutoProfile, params.ManualProfile)
	if !ok || !params.Reference.Present() || !params.Authorized || session.Selection().Len() == 0 {
		o.logger.Debug().
			Bool("reference", params.Reference.Present()).
			Bool("profile", ok).
			Bool("authorized", params.Authorized).
			Msg("batch: preconditions not met, not starting")
		return false, nil
	}
	if token == nil {
		token = NewMemoryToken()
	}

	task, selection, err := session.begin(uuid.NewString())
	if err != nil {
		return false, err
	}
	if err := token.Reset(ctx); err != nil {
		o.logger.Warn().Err(err).Str("batch_id", task.ID).Msg("batch: reset cancel token failed")
	}

	poses := o.catalog.Filter(selection)
	log := o.logger.With().Str("batch_id", task.ID).Logger()
	log.Info().Int("total", task.Total).Str("resolution", string(params.Resolution)).Msg("batch: started")
	o.observer.Publish(newEvent(EventStarted, task, o.now()))

	for _, pose := range poses {
		if o.stopRequested(ctx, session, token) {
			task, changed := session.stop()
			if changed {
				o.observer.Publish(newEvent(EventStopped, task, o.now()))
			}
			log.Info().Int("current", task.Current).Msg("batch: stopped")
			o.observer.Publish(newEvent(EventFinished, task, o.now()))
			return true, nil
		}
		if err := ctx.Err(); err != nil {
			o.abort(log, session, err)
			return true, err
		}

		composed := o.composer.Compose(prompt.Request{
			Pose:           pose,
			Adjustments:    params.Adjustments,
			Identity:       identity,
			HairLocked:     params.HairLocked,
			BodyLocked:     params.BodyLocked,
			Resolution:     params.Resolution,
			ProjectContext: params.ProjectContext,
		})

		uri, err := o.generator.Synthesize(ctx, domain.SynthesisRequest{
			Reference:   params.Reference,
			Prompt:      composed.Prompt,
			Resolution:  params.Resolution,
			AspectRatio: composed.AspectRatio,
		})
		now := o.now()
		switch {
		case err == nil:
			img := domain.GeneratedImage{
				ID:        fmt.Sprintf("%s-%d", pose.ID, now.UnixNano()),
				PoseID:    pose.ID,
				Label:     pose.Label,
				URL:       uri,
				Prompt:    composed.Prompt,
				Timestamp: now,
				Group:     pose.Group,
			}
			task = session.recordSuccess(img)
			log.Info().Str("pose_id", pose.ID).Int("current", task.Current).Msg("batch: pose generated")
			event := newEvent(EventImage, task, now)
			meta := img
			meta.URL = ""
			event.Image = &meta
			o.observer.Publish(event)
		case ctx.Err() != nil:
			o.abort(log, session, ctx.Err())
			return true, ctx.Err()
		case domain.IsFatal(err):
			task = session.fail(err.Error())
			log.Error().Err(err).Str("pose_id", pose.ID).Msg("batch: credential rejected, aborting")
			o.observer.Publish(newEvent(EventFinished, task, now))
			return true, err
		default:
			asset := domain.FailedAsset{
				ID:        uuid.NewString(),
				PoseID:    pose.ID,
				Label:     pose.Label,
				Message:   err.Error(),
				Prompt:    composed.Prompt,
				Timestamp: now,
			}
			task = session.recordFailure(asset)
			log.Warn().Err(err).Str("pose_id", pose.ID).Int("current", task.Current).Msg("batch: pose failed")
			event := newEvent(EventFailure, task, now)
			event.Failure = &asset
			o.observer.Publish(event)
		}
	}

	task = session.finish(domain.TaskStatusCompleted)
	log.Info().
		Str("status", string(task.Status)).
		Int("current", task.Current).
		Int("images", len(task.Images)).
		Msg("batch: finished")
	o.observer.Publish(newEvent(EventFinished, task, o.now()))
	return true, nil
}

// RequestStop sets token and, when a batch is generating, marks it stopped at
// once. The running loop exits at its next pose boundary.
func (o *Orchestrator) RequestStop(ctx context.Context, session *Session, token CancelToken) error {
	var cancelErr error
	if token != nil {
		cancelErr = token.Cancel(ctx)
	}
	if task, changed := session.stop(); changed {
		o.logger.Info().Str("batch_id", task.ID).Int("current", task.Current).Msg("batch: stop requested")
		o.observer.Publish(newEvent(EventStopped, task, o.now()))
	}
	return cancelErr
}

func (o *Orchestrator) stopRequested(ctx context.Context, session *Session, token CancelToken) bool {
	return session.status() == domain.TaskStatusStopped || token.Cancelled(ctx)
}

func (o *Orchestrator) abort(log zerolog.Logger, session *Session, err error) {
	task, _ := session.stop()
	log.Warn().Err(err).Int("current", task.Current).Msg("batch: context ended")
	o.observer.Publish(newEvent(EventFinished, task, o.now()))
}
