// Package render turns a brochure schema into its exported artifacts:
// deterministic HTML, then PNG and PDF through a rasterizer. Rendering
// is a pure function of the schema; two renders of the same schema
// produce layout-identical documents.
package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"prospekt/internal/domain/models"
	"prospekt/internal/storage"
)

//go:embed templates/brochure.html
var templateFiles embed.FS

// PageWidth and PageHeight are the fixed brochure canvas in CSS pixels.
const (
	PageWidth  = 1080
	PageHeight = 1350
)

// Renderer builds the brochure HTML document. Stored images are
// embedded as data URLs so the document is self-contained for the
// rasterizer.
type Renderer struct {
	tmpl  *template.Template
	store storage.Store
	now   func() time.Time
}

// NewRenderer parses the embedded template over the given store.
func NewRenderer(store storage.Store) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/brochure.html")
	if err != nil {
		return nil, fmt.Errorf("parse brochure template: %w", err)
	}
	return &Renderer{tmpl: tmpl, store: store, now: time.Now}, nil
}

type galleryView struct {
	DataURL  template.URL
	Position int
}

type brochureView struct {
	GeneratedAt string

	Location  string
	NameLine1 string
	NameLine2 string
	NameLine3 string

	HeroDataURL template.URL
	HeroAlt     string

	Headline    string
	Description string
	Amenities   string
	Gallery     []galleryView

	HasContact bool
	Contact    models.Contact
	QRDataURL  template.URL
}

// HTML renders the schema to a complete document. The generation
// timestamp appears only inside an HTML comment, never in layout.
func (r *Renderer) HTML(ctx context.Context, schema *models.Schema) (string, error) {
	view := brochureView{
		GeneratedAt: r.now().UTC().Format(time.RFC3339),
		Location:    schema.Meta.Location,
		HeroAlt:     schema.Hero.Alt,
		Headline:    schema.Copy.Headline,
		Description: schema.Copy.Description,
		Amenities:   strings.Join(schema.Amenities, " - "),
		Contact:     schema.Contact,
	}
	view.NameLine1, view.NameLine2, view.NameLine3 = splitNameLines(schema.Meta.ResortName)
	view.HasContact = schema.Contact.Email != "" || schema.Contact.Phone != "" ||
		schema.Contact.Website != "" || schema.Contact.Address != ""

	if schema.Hero.Image != "" {
		url, err := r.dataURL(ctx, schema.Hero.Image)
		if err != nil {
			return "", fmt.Errorf("embed hero image: %w", err)
		}
		view.HeroDataURL = url
	}
	for _, img := range schema.Gallery {
		url, err := r.dataURL(ctx, img.Image)
		if err != nil {
			return "", fmt.Errorf("embed gallery image %d: %w", img.Position, err)
		}
		view.Gallery = append(view.Gallery, galleryView{DataURL: url, Position: img.Position})
	}
	if schema.Contact.QRCode != "" {
		url, err := r.dataURL(ctx, schema.Contact.QRCode)
		if err != nil {
			return "", fmt.Errorf("embed qr code: %w", err)
		}
		view.QRDataURL = url
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute brochure template: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) dataURL(ctx context.Context, path string) (template.URL, error) {
	data, err := r.store.Load(ctx, path)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)), nil
}

// splitNameLines breaks a resort name into up to three display lines:
// first word, second word, remainder.
func splitNameLines(name string) (string, string, string) {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return "", "", ""
	case 1:
		return words[0], "", ""
	case 2:
		return words[0], words[1], ""
	default:
		return words[0], words[1], strings.Join(words[2:], " ")
	}
}
