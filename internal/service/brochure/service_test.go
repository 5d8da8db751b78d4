package brochure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
	"prospekt/internal/preset"
	"prospekt/internal/render"
	"prospekt/internal/service/assets"
	"prospekt/internal/service/contact"
	"prospekt/internal/service/patch"
	synthimage "prospekt/internal/service/synth/image"
	synthtext "prospekt/internal/service/synth/text"
)

type memRepo struct {
	mu    sync.Mutex
	items map[string]*models.Brochure
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]*models.Brochure)}
}

func (r *memRepo) Create(_ context.Context, b *models.Brochure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = b
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id, userID string) (*models.Brochure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *b
	clone.Schema = b.Schema.Clone()
	return &clone, nil
}

func (r *memRepo) Update(_ context.Context, b *models.Brochure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[b.ID] = b
	return nil
}

func (r *memRepo) List(_ context.Context, userID string) ([]models.BrochureSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BrochureSummary
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, b.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, path string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return path, nil
}

func (s *memStore) Load(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *memStore) Resolve(path string) (string, error) { return "/store/" + path, nil }

type stubRasterizer struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (r *stubRasterizer) Rasterize(_ context.Context, _ string) ([]byte, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail {
		return nil, nil, fmt.Errorf("chromium unavailable")
	}
	return []byte("png"), []byte("pdf"), nil
}

type testEnv struct {
	service    services.BrochureService
	repo       *memRepo
	rasterizer *stubRasterizer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	store := newMemStore()
	repo := newMemRepo()
	rasterizer := &stubRasterizer{}

	catalog, err := preset.NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	textSynth := synthtext.NewSynthesizer(nil, logger)

	placeholder, err := synthimage.NewPlaceholder("")
	if err != nil {
		t.Fatalf("create placeholder: %v", err)
	}
	imageSynth := synthimage.NewSynthesizer(nil, placeholder, func(key string) string {
		return catalog.Get(key).Tint
	}, logger)

	contactResolver := contact.NewResolver(store)
	assetMgr := assets.NewManager(store, logger)
	heroRegen := NewHeroRegenerator(imageSynth, assetMgr, catalog)
	engine := patch.NewEngine(nil, patch.NewMatcher(catalog.Keys()), textSynth, contactResolver, heroRegen, catalog, logger)

	renderer, err := render.NewRenderer(store)
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}
	coordinator := render.NewCoordinator(renderer, rasterizer, store, logger)

	svc := NewService(
		repo,
		textSynth,
		imageSynth,
		engine,
		assetMgr,
		contactResolver,
		coordinator,
		catalog,
		logger,
	)
	return &testEnv{service: svc, repo: repo, rasterizer: rasterizer}
}

func TestGenerateHappyPath(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini with an infinity pool",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	b := result.Brochure
	if b.ID == "" {
		t.Fatal("brochure id not assigned")
	}
	if result.StaleOutputs {
		t.Errorf("stale outputs on a successful render: %s", result.RenderDetail)
	}
	if b.PNGPath == "" || b.PDFPath == "" {
		t.Error("artifact paths not set")
	}
	if b.Schema.Meta.Preset != preset.Default {
		t.Errorf("preset = %q, want default", b.Schema.Meta.Preset)
	}
	if b.Schema.Meta.ResortName != "Azure Palms Resort" {
		t.Errorf("resort name = %q", b.Schema.Meta.ResortName)
	}
	if b.Schema.Hero.Source != models.HeroSourceAI {
		t.Errorf("hero source = %q, want ai", b.Schema.Hero.Source)
	}
	if b.Schema.Hero.Image == "" {
		t.Error("placeholder hero not stored")
	}
	if len(b.Schema.Amenities) < 4 {
		t.Errorf("amenities = %v", b.Schema.Amenities)
	}
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  services.GenerateRequest
	}{
		{name: "prompt too short", req: services.GenerateRequest{Prompt: "hi"}},
		{name: "unknown preset", req: services.GenerateRequest{
			Prompt: "a brochure for Azure Palms Resort",
			Preset: "vaporwave",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Generate(context.Background(), "user-1", &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRefineAppliesAndPersists(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	id := gen.Brochure.ID

	result, err := env.service.Refine(context.Background(), id, "user-1",
		`change the headline to "A Private Aegean Escape"`)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if result.Outcome != services.RefineApplied {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if result.Brochure.Schema.Copy.Headline != "A Private Aegean Escape" {
		t.Errorf("headline = %q", result.Brochure.Schema.Copy.Headline)
	}

	stored, err := env.repo.GetByID(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Schema.Copy.Headline != "A Private Aegean Escape" {
		t.Error("refinement not persisted")
	}
}

func TestRefineNoMatchLeavesEverythingUntouched(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	rendersBefore := env.rasterizer.calls

	result, err := env.service.Refine(context.Background(), gen.Brochure.ID, "user-1",
		"what is the meaning of hospitality")
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if result.Outcome != services.RefineNoMatch {
		t.Fatalf("outcome = %q, want no match", result.Outcome)
	}
	if env.rasterizer.calls != rendersBefore {
		t.Error("no-match refinement triggered a render")
	}
}

func TestRefineRenderFailureKeepsSchemaAndOldArtifacts(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	id := gen.Brochure.ID
	oldPNG := gen.Brochure.PNGPath

	env.rasterizer.fail = true
	result, err := env.service.Refine(context.Background(), id, "user-1",
		`change the headline to "Still Standing"`)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if !result.StaleOutputs {
		t.Fatal("stale outputs flag not set after render failure")
	}
	if result.RenderDetail == "" {
		t.Error("render detail missing")
	}

	stored, _ := env.repo.GetByID(context.Background(), id, "user-1")
	if stored.Schema.Copy.Headline != "Still Standing" {
		t.Error("schema change lost on render failure")
	}
	if stored.PNGPath != oldPNG {
		t.Error("previous artifact path not retained")
	}
}

func TestRefineWrongOwnerIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = env.service.Refine(context.Background(), gen.Brochure.ID, "user-2", "hide the amenities")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMutationBusyWhileLocked(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	id := gen.Brochure.ID

	svc := env.service.(*Service)
	release, err := svc.locks.acquire(id)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	if _, err := env.service.Refine(context.Background(), id, "user-1", "hide the amenities"); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("Refine err = %v, want ErrBusy", err)
	}
	if _, err := env.service.UpdateContact(context.Background(), id, "user-1", &services.ContactUpdate{}); !errors.Is(err, domain.ErrBusy) {
		t.Errorf("UpdateContact err = %v, want ErrBusy", err)
	}
}

func TestHeroSourcePersistsAcrossRefinement(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	id := gen.Brochure.ID

	// Force the hero to user-owned without the upload pipeline.
	env.repo.mu.Lock()
	env.repo.items[id].Schema.Hero.Source = models.HeroSourceUser
	env.repo.mu.Unlock()

	result, err := env.service.Refine(context.Background(), id, "user-1",
		`change the headline to "New Headline Here"`)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if result.Brochure.Schema.Hero.Source != models.HeroSourceUser {
		t.Error("user hero source lost across an unrelated refinement")
	}
}

func TestUpdateContactNoopSkipsRender(t *testing.T) {
	env := newTestEnv(t)

	gen, err := env.service.Generate(context.Background(), "user-1", &services.GenerateRequest{
		Prompt: "Design a brochure for Azure Palms Resort in Santorini",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	rendersBefore := env.rasterizer.calls

	result, err := env.service.UpdateContact(context.Background(), gen.Brochure.ID, "user-1", &services.ContactUpdate{})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if result.StaleOutputs {
		t.Error("noop update flagged stale")
	}
	if env.rasterizer.calls != rendersBefore {
		t.Error("noop contact update triggered a render")
	}
}

func TestListScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	for _, user := range []string{"user-1", "user-1", "user-2"} {
		if _, err := env.service.Generate(context.Background(), user, &services.GenerateRequest{
			Prompt: "Design a brochure for Azure Palms Resort in Santorini",
		}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
	}

	summaries, err := env.service.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Errorf("summaries = %d, want 2", len(summaries))
	}
}
