// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Renderer renders prompt templates. A file in dir shadows the
// embedded default of the same name, so prompts can be customized
// without rebuilding.
type Renderer struct {
	dir string
}

// NewRenderer builds a renderer reading overrides from dir; an empty
// dir uses only the embedded defaults.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// promptData carries every field any prompt template may reference.
type promptData struct {
	PaperID      string
	Title        string
	Authors      string
	Abstract     string
	KimiSummary  string
	LocalComment string
	PDFSummary   string
	Phase1Output string
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data promptData) (string, error) {
	var body []byte
	if r.dir != "" {
		if b, err := os.ReadFile(filepath.Join(r.dir, name)); err == nil {
			body = b
		}
	}
	if body == nil {
		b, err := defaultTemplates.ReadFile("templates/" + name)
		if err != nil {
			return "", fmt.Errorf("template %s not found: %w", name, err)
		}
		body = b
	}

	tmpl, err := template.New(name).Parse(string(body))
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}
