// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/ManuGH/shortify/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("shortify").ParseFS(templateFS, "templates/*.html"))

// FeatureStyle is the inline style of landing card id: hidden until the
// session has revealed it.
func (p Page) FeatureStyle(id string) template.CSS {
	if p.reveal == nil {
		return template.CSS(p.Reveal.InitialStyle())
	}
	return template.CSS(p.reveal.Style(id))
}

// FeatureRevealed reports whether landing card id is already revealed.
func (p Page) FeatureRevealed(id string) bool {
	return p.reveal != nil && p.reveal.Revealed(id)
}

// RenderPage writes the full document.
func RenderPage(w io.Writer, p Page) error {
	if err := templates.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// RenderRegion renders one region as an HTML fragment.
func RenderRegion(p Page, r app.Region) (string, error) {
	if templates.Lookup(string(r)) == nil {
		return "", fmt.Errorf("render region %q: unknown region", r)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(r), p); err != nil {
		return "", fmt.Errorf("render region %q: %w", r, err)
	}
	return buf.String(), nil
}

// RenderRegions renders each region keyed by name. Duplicates render once.
func RenderRegions(p Page, regions []app.Region) (map[string]string, error) {
	out := make(map[string]string, len(regions))
	for _, r := range regions {
		if _, ok := out[string(r)]; ok {
			continue
		}
		html, err := RenderRegion(p, r)
		if err != nil {
			return nil, err
		}
		out[string(r)] = html
	}
	return out, nil
}
