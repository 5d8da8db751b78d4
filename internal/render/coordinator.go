package render

import (
	"context"
	"fmt"
	"log/slog"

	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/storage"
)

// Coordinator runs the full export cycle for one schema version. Any
// failure is a RenderError: the caller keeps the schema and the
// previous artifacts stay in place.
type Coordinator struct {
	renderer   *Renderer
	rasterizer Rasterizer
	store      storage.Store
	logger     *slog.Logger
}

// NewCoordinator wires the renderer, rasterizer, and artifact store.
func NewCoordinator(renderer *Renderer, rasterizer Rasterizer, store storage.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		renderer:   renderer,
		rasterizer: rasterizer,
		store:      store,
		logger:     logger,
	}
}

// Render exports schema to PNG and PDF under the brochure's run
// directory and returns the stored paths.
func (c *Coordinator) Render(ctx context.Context, brochureID string, schema *models.Schema) (*Outputs, error) {
	html, err := c.renderer.HTML(ctx, schema)
	if err != nil {
		return nil, &domain.RenderError{Stage: "html", Err: err}
	}

	png, pdf, err := c.rasterizer.Rasterize(ctx, html)
	if err != nil {
		return nil, &domain.RenderError{Stage: "rasterize", Err: err}
	}

	pngPath, err := c.store.Save(ctx, fmt.Sprintf("runs/%s/brochure.png", brochureID), png)
	if err != nil {
		return nil, &domain.RenderError{Stage: "store", Err: err}
	}
	pdfPath, err := c.store.Save(ctx, fmt.Sprintf("runs/%s/brochure.pdf", brochureID), pdf)
	if err != nil {
		return nil, &domain.RenderError{Stage: "store", Err: err}
	}

	c.logger.Debug("brochure rendered", "brochure_id", brochureID, "png", pngPath, "pdf", pdfPath)
	return &Outputs{PNGPath: pngPath, PDFPath: pdfPath}, nil
}
