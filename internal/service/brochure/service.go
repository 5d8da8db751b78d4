// Package brochure is the orchestration layer: it owns the brochure
// lifecycle and sequences synthesis, patching, assets, and rendering
// around the repository.
package brochure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/repositories"
	"prospekt/internal/domain/services"
	"prospekt/internal/preset"
	"prospekt/internal/render"
	"prospekt/internal/service/assets"
	"prospekt/internal/service/contact"
	"prospekt/internal/service/patch"
	"prospekt/internal/service/synth/promptinfo"
)

// Service implements the BrochureService interface.
type Service struct {
	repo     repositories.BrochureRepository
	text     services.TextSynthesizer
	image    services.ImageSynthesizer
	patcher  *patch.Engine
	assets   *assets.Manager
	contacts *contact.Resolver
	renderer *render.Coordinator
	presets  *preset.Catalog
	locks    *lockRegistry
	logger   *slog.Logger
}

// NewService creates the brochure service.
func NewService(
	repo repositories.BrochureRepository,
	text services.TextSynthesizer,
	image services.ImageSynthesizer,
	patcher *patch.Engine,
	assetMgr *assets.Manager,
	contacts *contact.Resolver,
	renderer *render.Coordinator,
	presets *preset.Catalog,
	logger *slog.Logger,
) services.BrochureService {
	return &Service{
		repo:     repo,
		text:     text,
		image:    image,
		patcher:  patcher,
		assets:   assetMgr,
		contacts: contacts,
		renderer: renderer,
		presets:  presets,
		locks:    newLockRegistry(),
		logger:   logger,
	}
}

// Generate creates a new brochure from a free-text prompt. Text and
// hero synthesis run concurrently; a user-supplied hero upload skips
// image generation entirely.
func (s *Service) Generate(ctx context.Context, userID string, req *services.GenerateRequest) (*services.MutationResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if len(prompt) < config.MinPromptLength {
		return nil, fmt.Errorf("%w: prompt is too short", domain.ErrValidation)
	}
	if len(prompt) > config.MaxPromptLength {
		return nil, fmt.Errorf("%w: prompt exceeds %d characters", domain.ErrValidation, config.MaxPromptLength)
	}

	presetKey := req.Preset
	if presetKey == "" {
		presetKey = preset.Default
	}
	if !s.presets.Valid(presetKey) {
		return nil, fmt.Errorf("%w: unknown preset %q", domain.ErrValidation, presetKey)
	}
	style := s.presets.Get(presetKey)

	info := promptinfo.Extract(prompt)
	id := uuid.NewString()

	var (
		bundle *services.CopyBundle
		hero   []byte
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		bundle, err = s.text.Synthesize(groupCtx, prompt, info, style.Tone)
		return err
	})
	if req.Hero == nil {
		group.Go(func() error {
			data, err := s.image.Synthesize(groupCtx, &services.ImageRequest{
				Prompt:     prompt,
				Info:       info,
				Preset:     presetKey,
				StyleHint:  style.ImageStyle,
				NameOnText: info.ResortName,
			})
			if err != nil {
				// Image loss never fails generation; the layout
				// degrades to text-only.
				s.logger.Warn("hero synthesis failed, continuing without image", "brochure_id", id, "error", err)
				return nil
			}
			hero = data
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	schema := &models.Schema{
		Meta: models.Meta{
			Preset:     presetKey,
			ResortName: info.ResortName,
			Location:   info.Location,
			Prompt:     prompt,
		},
		Copy: models.Copy{
			Headline:    bundle.Headline,
			Description: bundle.Description,
		},
		Amenities: bundle.Amenities,
	}
	schema.Hero.Alt = "Exterior view of " + info.ResortName
	schema.ApplyDefaults()

	switch {
	case req.Hero != nil:
		if err := s.assets.SetHero(ctx, id, schema, req.Hero); err != nil {
			return nil, err
		}
	case hero != nil:
		if err := s.assets.StoreGeneratedHero(ctx, id, schema, hero); err != nil {
			return nil, err
		}
	}

	if err := schema.Validate(s.presets); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	now := time.Now()
	b := &models.Brochure{
		ID:        id,
		UserID:    userID,
		Prompt:    prompt,
		Schema:    schema,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := &services.MutationResult{Brochure: b}
	outputs, err := s.renderer.Render(ctx, id, schema)
	if err != nil {
		var re *domain.RenderError
		if !errors.As(err, &re) {
			return nil, err
		}
		s.logger.Warn("initial render failed, brochure created without artifacts",
			"brochure_id", id, "stage", re.Stage, "error", re.Err)
		result.StaleOutputs = true
		result.RenderDetail = re.Error()
	} else {
		b.PNGPath = outputs.PNGPath
		b.PDFPath = outputs.PDFPath
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create brochure: %w", err)
	}

	s.logger.Info("brochure generated",
		"brochure_id", id,
		"preset", presetKey,
		"resort", info.ResortName,
		"stale_outputs", result.StaleOutputs,
	)
	return result, nil
}

// Refine applies a free-text instruction to the brochure's schema. A
// no-match outcome leaves the brochure completely untouched.
func (s *Service) Refine(ctx context.Context, id, userID, instruction string) (*services.RefineResult, error) {
	release, err := s.locks.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.patcher.Apply(ctx, id, b.Schema, instruction)
	if err != nil {
		return nil, err
	}
	if outcome.Outcome == patch.OutcomeNoMatch {
		return &services.RefineResult{
			Outcome:  services.RefineNoMatch,
			Message:  outcome.Message,
			Brochure: b,
		}, nil
	}

	mutation, err := s.persist(ctx, b, outcome.Schema)
	if err != nil {
		return nil, err
	}
	return &services.RefineResult{
		Outcome:      services.RefineApplied,
		Brochure:     mutation.Brochure,
		StaleOutputs: mutation.StaleOutputs,
		RenderDetail: mutation.RenderDetail,
	}, nil
}

// SetHero replaces the hero image with a user upload and re-renders.
func (s *Service) SetHero(ctx context.Context, id, userID string, upload *services.Upload) (*services.MutationResult, error) {
	release, err := s.locks.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	next := b.Schema.Clone()
	if err := s.assets.SetHero(ctx, id, next, upload); err != nil {
		return nil, err
	}
	return s.persist(ctx, b, next)
}

// AppendGallery fills the remaining gallery capacity from the batch
// and re-renders. Uploads past capacity are dropped and counted in the
// result; a full gallery rejects the call.
func (s *Service) AppendGallery(ctx context.Context, id, userID string, uploads []*services.Upload) (*services.GalleryResult, error) {
	release, err := s.locks.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	next := b.Schema.Clone()
	accepted, overflow, err := s.assets.AppendGallery(ctx, id, next, uploads)
	if err != nil {
		return nil, err
	}

	mutation, err := s.persist(ctx, b, next)
	if err != nil {
		return nil, err
	}
	return &services.GalleryResult{MutationResult: *mutation, Accepted: accepted, Overflow: overflow}, nil
}

// UpdateContact merges present fields into the contact section. A
// no-op update returns the current state without rendering.
func (s *Service) UpdateContact(ctx context.Context, id, userID string, update *services.ContactUpdate) (*services.MutationResult, error) {
	release, err := s.locks.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	next := b.Schema.Clone()
	changed, err := s.contacts.Apply(ctx, id, next, update)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &services.MutationResult{Brochure: b}, nil
	}
	return s.persist(ctx, b, next)
}

// List returns the user's brochures, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.BrochureSummary, error) {
	return s.repo.List(ctx, userID)
}

// persist writes the new schema version and its render outputs in one
// update. A render failure keeps the previous artifact paths and flags
// the outputs stale; the schema change is never lost.
func (s *Service) persist(ctx context.Context, b *models.Brochure, schema *models.Schema) (*services.MutationResult, error) {
	b.Schema = schema
	result := &services.MutationResult{Brochure: b}

	outputs, err := s.renderer.Render(ctx, b.ID, schema)
	if err != nil {
		var re *domain.RenderError
		if !errors.As(err, &re) {
			return nil, err
		}
		s.logger.Warn("render failed, keeping previous artifacts",
			"brochure_id", b.ID, "stage", re.Stage, "error", re.Err)
		result.StaleOutputs = true
		result.RenderDetail = re.Error()
	} else {
		b.PNGPath = outputs.PNGPath
		b.PDFPath = outputs.PDFPath
	}

	b.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update brochure: %w", err)
	}
	return result, nil
}
