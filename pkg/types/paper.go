// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and domain records shared by
// all stages of the summary pipeline.
package types

import "strings"

// ArxivPaper holds the metadata for one arXiv paper. Instances are
// immutable once a fetcher returns them; a re-fetch produces a new one.
type ArxivPaper struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors" yaml:"authors"`
	Abstract   string   `json:"abstract" yaml:"abstract"`
	Published  string   `json:"published" yaml:"published"`
	Updated    string   `json:"updated" yaml:"updated"`
	PDFURL     string   `json:"pdf_url" yaml:"pdf_url"`
	Subjects   []string `json:"subjects" yaml:"subjects"`
	DOI        string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	JournalRef string   `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`
	Comment    string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ArxivURL returns the abstract page URL for the paper.
func (p *ArxivPaper) ArxivURL() string {
	return "https://arxiv.org/abs/" + p.ID
}

// AuthorList returns the authors joined with commas.
func (p *ArxivPaper) AuthorList() string {
	return strings.Join(p.Authors, ", ")
}

// Tags returns the first three subject categories joined with commas.
func (p *ArxivPaper) Tags() string {
	subjects := p.Subjects
	if len(subjects) > 3 {
		subjects = subjects[:3]
	}
	return strings.Join(subjects, ", ")
}

// KimiSummary is the FAQ-style digest retrieved from papers.cool.
// KeyPoints is always an allocated slice, even when extraction found
// nothing; use NewKimiSummary to preserve that invariant.
type KimiSummary struct {
	PaperID       string   `json:"paper_id"`
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points"`
	Methods       string   `json:"methods,omitempty"`
	Contributions string   `json:"contributions,omitempty"`
	RawHTML       string   `json:"raw_html,omitempty"`
}

// NewKimiSummary returns an empty summary for the paper with KeyPoints
// allocated.
func NewKimiSummary(paperID string) *KimiSummary {
	return &KimiSummary{PaperID: paperID, KeyPoints: []string{}}
}

// IsEmpty reports whether the summary carries no usable content.
func (k *KimiSummary) IsEmpty() bool {
	return k.Summary == "" && len(k.KeyPoints) == 0
}

// PaperData aggregates everything collected for one generation request.
// Either fetch may have failed: Arxiv and Kimi are nil on total failure
// of their source, and the pipeline continues with what it has.
type PaperData struct {
	PaperID      string
	Arxiv        *ArxivPaper
	Kimi         *KimiSummary
	LocalComment string
	PDFText      string
	PDFPath      string
}

// Title returns the paper title, or "" when metadata is absent.
func (d *PaperData) Title() string {
	if d.Arxiv == nil {
		return ""
	}
	return d.Arxiv.Title
}

// Authors returns the comma-joined author list, or "" when metadata is absent.
func (d *PaperData) Authors() string {
	if d.Arxiv == nil {
		return ""
	}
	return d.Arxiv.AuthorList()
}

// Abstract returns the original abstract, or "" when metadata is absent.
func (d *PaperData) Abstract() string {
	if d.Arxiv == nil {
		return ""
	}
	return d.Arxiv.Abstract
}
