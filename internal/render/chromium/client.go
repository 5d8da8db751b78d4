// Package chromium implements the rasterizer against a headless
// Chromium companion service: one POST carrying the document, PNG and
// PDF bytes back in the response.
package chromium

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"prospekt/internal/render"
)

// Client rasterizes HTML through the companion service's /render
// endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a rasterizer client. timeout bounds the full
// request; rasterization of a fully embedded document is slow but
// bounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type renderRequest struct {
	HTML        string  `json:"html"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	DeviceScale float64 `json:"device_scale_factor"`
}

type renderResponse struct {
	PNG string `json:"png"`
	PDF string `json:"pdf"`
}

// Rasterize submits the document and decodes both artifacts from the
// response.
func (c *Client) Rasterize(ctx context.Context, html string) ([]byte, []byte, error) {
	body, err := json.Marshal(renderRequest{
		HTML:        html,
		Width:       render.PageWidth,
		Height:      render.PageHeight,
		DeviceScale: 2,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("rasterizer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, nil, fmt.Errorf("rasterizer status %d: %s", resp.StatusCode, snippet)
	}

	var decoded renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("decode rasterizer response: %w", err)
	}

	png, err := base64.StdEncoding.DecodeString(decoded.PNG)
	if err != nil {
		return nil, nil, fmt.Errorf("decode png artifact: %w", err)
	}
	pdf, err := base64.StdEncoding.DecodeString(decoded.PDF)
	if err != nil {
		return nil, nil, fmt.Errorf("decode pdf artifact: %w", err)
	}
	if len(png) == 0 || len(pdf) == 0 {
		return nil, nil, fmt.Errorf("rasterizer returned empty artifacts")
	}
	return png, pdf, nil
}
