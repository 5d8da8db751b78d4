// Package assets normalizes user image uploads and places them into a
// brochure's schema: the hero slot and the bounded gallery.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	_ "image/jpeg"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
	"prospekt/internal/storage"
)

// Manager validates, normalizes, and stores uploaded images, then
// mutates the schema to reference them. It never renders; the caller
// owns the render cycle.
type Manager struct {
	store  storage.Store
	logger *slog.Logger
}

// NewManager creates an asset manager over the given store.
func NewManager(store storage.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// SetHero replaces the hero image with a normalized copy of the upload
// and marks the hero source as user. A user hero permanently supersedes
// AI generation for this brochure.
func (m *Manager) SetHero(ctx context.Context, brochureID string, schema *models.Schema, upload *services.Upload) error {
	data, err := m.normalize(upload)
	if err != nil {
		return err
	}

	path, err := m.store.Save(ctx, heroPath(brochureID), data)
	if err != nil {
		return fmt.Errorf("store hero image: %w", err)
	}

	schema.Hero.Image = path
	schema.Hero.Source = models.HeroSourceUser
	return nil
}

// StoreGeneratedHero saves AI-produced hero bytes without touching the
// source discriminator rules for uploads.
func (m *Manager) StoreGeneratedHero(ctx context.Context, brochureID string, schema *models.Schema, data []byte) error {
	path, err := m.store.Save(ctx, heroPath(brochureID), data)
	if err != nil {
		return fmt.Errorf("store generated hero: %w", err)
	}
	schema.Hero.Image = path
	schema.Hero.Source = models.HeroSourceAI
	return nil
}

// AppendGallery adds uploads to the gallery in order, filling whatever
// capacity remains. Files past capacity are not stored; the overflow
// count is reported so the caller can tell the user what was dropped.
// A full gallery rejects the call outright.
func (m *Manager) AppendGallery(ctx context.Context, brochureID string, schema *models.Schema, uploads []*services.Upload) (accepted, overflow int, err error) {
	if len(uploads) == 0 {
		return 0, 0, fmt.Errorf("%w: no gallery images provided", domain.ErrValidation)
	}

	remaining := config.MaxGalleryImages - len(schema.Gallery)
	if remaining <= 0 {
		return 0, 0, fmt.Errorf("%w: gallery is full (%d images)", domain.ErrValidation, config.MaxGalleryImages)
	}
	if len(uploads) > remaining {
		overflow = len(uploads) - remaining
		uploads = uploads[:remaining]
	}

	// Normalize every file before storing any, so a bad file in the
	// middle of the batch cannot leave a partial append.
	normalized := make([][]byte, len(uploads))
	for i, upload := range uploads {
		data, err := m.normalize(upload)
		if err != nil {
			return 0, 0, fmt.Errorf("file %d (%s): %w", i+1, upload.Filename, err)
		}
		normalized[i] = data
	}

	nextPos := nextGalleryPosition(schema.Gallery)
	for i, data := range normalized {
		pos := nextPos + i
		path, err := m.store.Save(ctx, galleryPath(brochureID, pos), data)
		if err != nil {
			return 0, 0, fmt.Errorf("store gallery image %d: %w", pos, err)
		}
		schema.Gallery = append(schema.Gallery, models.GalleryImage{Image: path, Position: pos})
	}
	return len(normalized), overflow, nil
}

// normalize decodes the upload, enforces size bounds, downscales
// anything over the dimension cap, and re-encodes as PNG.
func (m *Manager) normalize(upload *services.Upload) ([]byte, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrValidation)
	}
	if len(upload.Data) > config.MaxUploadBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrValidation, config.MaxUploadBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a decodable image", domain.ErrValidation)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%w: unsupported image format %q", domain.ErrValidation, format)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", domain.ErrValidation)
	}

	if w > config.MaxImageDimension || h > config.MaxImageDimension {
		scale := float64(config.MaxImageDimension) / float64(max(w, h))
		dw, dh := max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}

// nextGalleryPosition returns one past the highest assigned position.
// Positions are never reused, so the count alone is not enough.
func nextGalleryPosition(gallery []models.GalleryImage) int {
	next := 1
	for _, img := range gallery {
		if img.Position >= next {
			next = img.Position + 1
		}
	}
	return next
}

func heroPath(brochureID string) string {
	return fmt.Sprintf("runs/%s/hero_%s.png", brochureID, shortID())
}

func galleryPath(brochureID string, position int) string {
	return fmt.Sprintf("runs/%s/gallery_%d.png", brochureID, position)
}

// shortID versions hero files so a replaced hero never serves stale
// bytes from an unchanged path.
func shortID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
