// Package studio is the caller-facing surface around one batch session:
// reference image, identity profile, output settings, selection and runs.
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"datasetgen/internal/batch"
	"datasetgen/internal/catalog"
	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	"datasetgen/internal/profile"
	"datasetgen/internal/refimage"
)

// Authorizer is the credential store view the studio needs.
type Authorizer interface {
	Authorized() bool
	Invalidate()
}

type Options struct {
	Catalog          *catalog.Catalog
	Orchestrator     *batch.Orchestrator
	Analyzer         profile.Analyzer
	Credentials      Authorizer
	Token            batch.CancelToken
	ReferenceMaxEdge int
	Logger           *infra.Logger
}

// Settings is everything about a batch apart from the reference and the selection.
type Settings struct {
	ProfileMode    domain.ProfileMode          `json:"profile_mode"`
	AutoProfile    string                      `json:"auto_profile"`
	ManualProfile  string                      `json:"manual_profile"`
	Adjustments    domain.CharacterAdjustments `json:"adjustments"`
	HairLocked     bool                        `json:"hair_locked"`
	BodyLocked     bool                        `json:"body_locked"`
	Resolution     domain.Resolution           `json:"resolution"`
	ProjectContext string                      `json:"project_context"`
}

// State is a read-only view for callers.
type State struct {
	Settings     Settings       `json:"settings"`
	HasReference bool           `json:"has_reference"`
	Reference    ReferenceInfo  `json:"reference"`
	Authorized   bool           `json:"authorized"`
	Ready        bool           `json:"ready"`
	Batch        batch.Snapshot `json:"batch"`
}

type ReferenceInfo struct {
	MIMEType string `json:"mime_type,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
}

type Service struct {
	catalog     *catalog.Catalog
	orch        *batch.Orchestrator
	analyzer    profile.Analyzer
	credentials Authorizer
	token       batch.CancelToken
	maxEdge     int
	logger      *infra.Logger
	session     *batch.Session

	mu        sync.Mutex
	settings  Settings
	reference domain.ReferenceImage
	running   bool
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(opts Options) (*Service, error) {
	if opts.Orchestrator == nil {
		return nil, errors.New("studio: orchestrator is required")
	}
	if opts.Credentials == nil {
		return nil, errors.New("studio: credentials are required")
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	token := opts.Token
	if token == nil {
		token = batch.NewMemoryToken()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		catalog:     cat,
		orch:        opts.Orchestrator,
		analyzer:    opts.Analyzer,
		credentials: opts.Credentials,
		token:       token,
		maxEdge:     opts.ReferenceMaxEdge,
		logger:      logger,
		session:     batch.NewSession(),
		settings: Settings{
			ProfileMode: domain.ProfileModeAuto,
			Adjustments: domain.DefaultAdjustments(),
			Resolution:  domain.Resolution1K,
		},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// SetReference decodes and normalizes data and replaces the reference. A
// new reference discards the previous analysis.
func (s *Service) SetReference(data []byte) (ReferenceInfo, error) {
	ref, err := refimage.Prepare(data, s.maxEdge)
	if err != nil {
		return ReferenceInfo{}, err
	}
	s.mu.Lock()
	s.reference = ref
	s.settings.AutoProfile = ""
	s.mu.Unlock()

	info := referenceInfo(ref)
	s.logger.Info().
		Str("mime", info.MIMEType).
		Int("width", info.Width).
		Int("height", info.Height).
		Msg("studio: reference updated")
	return info, nil
}

// Analyze extracts the identity profile from the current reference and stores it.
func (s *Service) Analyze(ctx context.Context) (string, error) {
	if s.analyzer == nil {
		return "", fmt.Errorf("%w: no analyzer configured", domain.ErrNotReady)
	}
	s.mu.Lock()
	ref := s.reference
	s.mu.Unlock()
	if !ref.Present() {
		return "", fmt.Errorf("%w: upload a reference image first", domain.ErrNotReady)
	}
	if !s.credentials.Authorized() {
		return "", domain.ErrUnauthorized
	}

	text, err := s.analyzer.Analyze(ctx, ref)
	if err != nil {
		if domain.IsFatal(err) {
			s.credentials.Invalidate()
		}
		return "", err
	}

	s.mu.Lock()
	// The reference may have been replaced while the analysis ran.
	if sameImage(s.reference, ref) {
		s.settings.AutoProfile = text
	}
	s.mu.Unlock()
	return text, nil
}

func (s *Service) SetProfile(mode domain.ProfileMode, manual string) error {
	parsed, err := domain.ParseProfileMode(string(mode))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.ProfileMode = parsed
	s.settings.ManualProfile = manual
	return nil
}

func (s *Service) SetAdjustments(adj domain.CharacterAdjustments) {
	def := domain.DefaultAdjustments()
	adj.EyeColor = orDefault(adj.EyeColor, def.EyeColor)
	adj.BodyBuild = orDefault(adj.BodyBuild, def.BodyBuild)
	adj.ChestSize = orDefault(adj.ChestSize, def.ChestSize)
	adj.HipSize = orDefault(adj.HipSize, def.HipSize)
	s.mu.Lock()
	s.settings.Adjustments = adj
	s.mu.Unlock()
}

func (s *Service) SetLocks(hair, body bool) {
	s.mu.Lock()
	s.settings.HairLocked = hair
	s.settings.BodyLocked = body
	s.mu.Unlock()
}

// SetOutput sets the resolution and the project naming context.
func (s *Service) SetOutput(res domain.Resolution, project string) error {
	parsed, err := domain.ParseResolution(string(res))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings.Resolution = parsed
	s.settings.ProjectContext = strings.TrimSpace(project)
	s.mu.Unlock()
	return nil
}

// Select replaces the selection after checking every id against the catalog.
func (s *Service) Select(ids []string) error {
	if err := s.catalog.Validate(ids); err != nil {
		return err
	}
	return s.session.Select(ids...)
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Ready reports whether Start would begin a batch.
func (s *Service) Ready() bool {
	return s.params().Ready() && s.session.Selection().Len() > 0
}

// Run executes a batch and blocks until it ends. It returns ErrNotReady when
// a precondition is missing.
func (s *Service) Run(ctx context.Context) (domain.GenerationTask, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return s.session.Task(), domain.ErrBatchRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()
	return s.run(ctx)
}

// Start launches a batch in the background and returns once it is accepted.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.ErrBatchRunning
	}
	if reason := s.notReadyReason(); reason != "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNotReady, reason)
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()
		if _, err := s.run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Msg("studio: batch ended with error")
		}
	}()
	return nil
}

func (s *Service) run(ctx context.Context) (domain.GenerationTask, error) {
	params := s.params()
	started, err := s.orch.Run(ctx, s.session, params, s.token)
	if err != nil && domain.IsFatal(err) {
		s.credentials.Invalidate()
		s.logger.Warn().Msg("studio: credential invalidated, re-authorization required")
	}
	if !started && err == nil {
		s.mu.Lock()
		reason := s.notReadyReason()
		s.mu.Unlock()
		if reason == "" {
			reason = "preconditions changed"
		}
		return s.session.Task(), fmt.Errorf("%w: %s", domain.ErrNotReady, reason)
	}
	return s.session.Task(), err
}

// Stop requests a cooperative stop of the running batch.
func (s *Service) Stop(ctx context.Context) error {
	return s.orch.RequestStop(ctx, s.session, s.token)
}

// Wait blocks until the background batch, if any, returns.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close stops any running batch and waits for it.
func (s *Service) Close(ctx context.Context) error {
	_ = s.Stop(ctx)
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) Snapshot() State {
	s.mu.Lock()
	settings := s.settings
	ref := s.reference
	s.mu.Unlock()

	snap := s.session.Snapshot()
	params := s.paramsFrom(settings, ref)
	return State{
		Settings:     settings,
		HasReference: ref.Present(),
		Reference:    referenceInfo(ref),
		Authorized:   params.Authorized,
		Ready:        params.Ready() && len(snap.Selection) > 0,
		Batch:        snap,
	}
}

func (s *Service) Gallery() []domain.GeneratedImage {
	return s.session.Snapshot().Gallery
}

func (s *Service) Image(id string) (domain.GeneratedImage, error) {
	img, ok := s.session.Image(id)
	if !ok {
		return domain.GeneratedImage{}, domain.ErrNotFound
	}
	return img, nil
}

func (s *Service) ClearGallery() error {
	return s.session.ClearGallery()
}

func (s *Service) params() batch.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paramsFrom(s.settings, s.reference)
}

func (s *Service) paramsFrom(settings Settings, ref domain.ReferenceImage) batch.Params {
	return batch.Params{
		Reference:      ref,
		ProfileMode:    settings.ProfileMode,
		AutoProfile:    settings.AutoProfile,
		ManualProfile:  settings.ManualProfile,
		Adjustments:    settings.Adjustments,
		HairLocked:     settings.HairLocked,
		BodyLocked:     settings.BodyLocked,
		Resolution:     settings.Resolution,
		ProjectContext: settings.ProjectContext,
		Authorized:     s.credentials.Authorized(),
	}
}

// notReadyReason must be called with s.mu held.
func (s *Service) notReadyReason() string {
	switch {
	case !s.reference.Present():
		return "reference image is missing"
	case !profile.IsReady(s.settings.ProfileMode, s.settings.AutoProfile, s.settings.ManualProfile):
		if s.settings.ProfileMode == domain.ProfileModeManual {
			return "manual profile is empty"
		}
		return "reference has not been analyzed"
	case !s.credentials.Authorized():
		return "api key is missing or was rejected"
	case s.session.Selection().Len() == 0:
		return "no poses selected"
	}
	return ""
}

func referenceInfo(ref domain.ReferenceImage) ReferenceInfo {
	if !ref.Present() {
		return ReferenceInfo{}
	}
	return ReferenceInfo{MIMEType: ref.MIMEType, Width: ref.Width, Height: ref.Height, Bytes: len(ref.Data)}
}

func sameImage(a, b domain.ReferenceImage) bool {
	return len(a.Data) == len(b.Data) && (len(a.Data) == 0 || &a.Data[0] == &b.Data[0])
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
