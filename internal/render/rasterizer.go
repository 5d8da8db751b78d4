package render

import "context"

// Outputs are the stored artifact paths for one render cycle.
type Outputs struct {
	PNGPath string
	PDFPath string
}

// Rasterizer turns a self-contained HTML document into PNG and PDF
// bytes at the fixed page size.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) (png, pdf []byte, err error)
}
