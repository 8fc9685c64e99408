// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
)

// deckTemplate wraps the rendered slides in a minimal standalone page:
// one full-height section per slide, title slide centered.
var deckTemplate = template.Must(template.New("deck").Parse(`<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: "Helvetica Neue", Arial, "PingFang SC", sans-serif; }
section.slide { min-height: 100vh; box-sizing: border-box; padding: 4rem 6rem; border-bottom: 1px solid #ddd; }
section.slide.title-slide { display: flex; flex-direction: column; justify-content: center; text-align: center; }
section.slide h1 { font-size: 2.6rem; }
section.slide h2 { font-size: 1.8rem; border-bottom: 2px solid #333; padding-bottom: 0.4rem; }
section.slide ul { font-size: 1.2rem; line-height: 1.8; }
section.slide p { font-size: 1.1rem; line-height: 1.6; }
p.slide-authors { color: #555; font-size: 1.3rem; }
span.slide-number { float: right; color: #999; font-size: 0.9rem; }
</style>
</head>
<body>
{{range .Slides}}{{.}}
{{end}}</body>
</html>
`))

// Export renders the markdown summary as an HTML slide deck at
// slidesDir/{paperID}_slides.html and returns the written path. The
// first slide becomes the title slide, carrying the paper title and
// authors when the summary itself provides none.
func Export(markdownContent, paperID, title, authors, slidesDir string) (string, error) {
	if err := os.MkdirAll(slidesDir, 0o755); err != nil {
		return "", fmt.Errorf("creating slides directory: %w", err)
	}

	slides := ParseSlides(markdownContent)
	if len(slides) == 0 {
		slides = []Slide{{Title: title}}
	}

	md := goldmark.New()

	var rendered []template.HTML
	for i, slide := range slides {
		var body bytes.Buffer
		if err := md.Convert([]byte(slide.markdown()), &body); err != nil {
			return "", fmt.Errorf("rendering slide %d: %w", i+1, err)
		}

		var section bytes.Buffer
		if i == 0 {
			heading := slide.Title
			if heading == "" {
				heading = title
			}
			fmt.Fprintf(&section, `<section class="slide title-slide">`+"\n")
			fmt.Fprintf(&section, "<h1>%s</h1>\n", template.HTMLEscapeString(heading))
			if authors != "" {
				fmt.Fprintf(&section, `<p class="slide-authors">%s</p>`+"\n", template.HTMLEscapeString(authors))
			}
		} else {
			fmt.Fprintf(&section, `<section class="slide">`+"\n")
			fmt.Fprintf(&section, `<h2><span class="slide-number">%d</span>%s</h2>`+"\n",
				i, template.HTMLEscapeString(slide.Title))
		}
		section.Write(body.Bytes())
		section.WriteString("</section>")

		rendered = append(rendered, template.HTML(section.String()))
	}

	var page bytes.Buffer
	err := deckTemplate.Execute(&page, struct {
		Title  string
		Slides []template.HTML
	}{Title: title, Slides: rendered})
	if err != nil {
		return "", fmt.Errorf("rendering deck: %w", err)
	}

	path := filepath.Join(slidesDir, paperID+"_slides.html")
	if err := os.WriteFile(path, page.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing deck: %w", err)
	}
	return path, nil
}
