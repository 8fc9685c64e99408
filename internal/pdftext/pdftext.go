// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts bounded plain text from downloaded PDFs and
// distills it into a compact section digest for prompt assembly.
package pdftext

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TruncationMarker is appended when extracted text hits the character
// budget.
const TruncationMarker = "\n\n... (content truncated)"

// minSectionLineLen filters heading-body noise: lines shorter than
// this are dropped by KeySections.
const minSectionLineLen = 50

// Extract reads up to maxPages pages (0 = all) from the PDF at path
// and returns the concatenated text, each page prefixed with its
// number. The result never exceeds maxChars plus the truncation
// marker; maxChars <= 0 means unbounded.
func Extract(path string, maxPages, maxChars int) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if maxPages > 0 && maxPages < numPages {
		numPages = maxPages
	}

	var parts []string
	total := 0
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := pageText(page)
		if err != nil {
			log.Printf("pdftext: page %d of %s unreadable: %v", i, path, err)
			continue
		}
		if text == "" {
			continue
		}

		part := fmt.Sprintf("[Page %d]\n%s", i, text)
		parts = append(parts, part)
		total += len(part)
		if maxChars > 0 && total >= maxChars {
			break
		}
	}

	full := strings.Join(parts, "\n\n")
	return Truncate(full, maxChars), nil
}

// pageText reconstructs a page's text row by row so words keep their
// reading order.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		var words []string
		for _, word := range row.Content {
			words = append(words, word.S)
		}
		b.WriteString(strings.Join(words, " "))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Truncate bounds text at maxChars, appending the truncation marker
// when anything was cut. maxChars <= 0 disables the bound.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + TruncationMarker
}

var headingPattern = regexp.MustCompile(`^\s*#+\s*\w+`)

// sectionBudgets caps how many lines each detected section contributes
// to the digest.
var sectionBudgets = map[string]int{
	"abstract":     5,
	"introduction": 10,
	"method":       15,
	"conclusion":   10,
}

// KeySections groups lines under detected headings (abstract,
// introduction, method, conclusion) and returns a compact markdown
// digest. It is a lightweight fallback for when no multimodal analysis
// path is available: heading detection is keyword matching and short
// lines are discarded as noise.
func KeySections(text string) string {
	sections := map[string][]string{}
	order := []string{"abstract", "introduction", "method", "conclusion"}

	current := ""
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))

		if headingPattern.MatchString(line) {
			switch {
			case strings.Contains(lower, "abstract"):
				current = "abstract"
			case strings.Contains(lower, "intro"):
				current = "introduction"
			case strings.Contains(lower, "method") || strings.Contains(lower, "approach") || strings.Contains(lower, "proposal"):
				current = "method"
			case strings.Contains(lower, "conclusion") || strings.Contains(lower, "future"):
				current = "conclusion"
			default:
				current = ""
			}
			continue
		}

		if current != "" && len(strings.TrimSpace(line)) > minSectionLineLen {
			sections[current] = append(sections[current], strings.TrimSpace(line))
		}
	}

	titles := map[string]string{
		"abstract":     "## Abstract",
		"introduction": "## Introduction",
		"method":       "## Method",
		"conclusion":   "## Conclusion",
	}

	var parts []string
	for _, name := range order {
		lines := sections[name]
		if len(lines) == 0 {
			continue
		}
		if budget := sectionBudgets[name]; len(lines) > budget {
			lines = lines[:budget]
		}
		parts = append(parts, titles[name], strings.Join(lines, " "))
	}

	return strings.Join(parts, "\n")
}

// Analyzer is an optional multimodal route for PDF content; the VL
// chat client implements it.
type Analyzer interface {
	AnalyzePDF(ctx context.Context, path string) (string, error)
}

// Process produces a digest of the PDF. When analyzer is non-nil the
// document is routed to it first; on failure (or when analyzer is nil)
// the heuristic text path is used: Extract then KeySections.
func Process(ctx context.Context, path string, analyzer Analyzer, maxPages, maxChars int) (string, error) {
	if analyzer != nil {
		digest, err := analyzer.AnalyzePDF(ctx, path)
		if err == nil {
			return digest, nil
		}
		log.Printf("pdftext: direct analysis failed, falling back to text extraction: %v", err)
	}

	text, err := Extract(path, maxPages, maxChars)
	if err != nil {
		return "", err
	}
	return KeySections(text), nil
}
