// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/xml"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string `xml:"id"`
	Title      string `xml:"title"`
	Summary    string `xml:"summary"`
	Published  string `xml:"published"`
	Updated    string `xml:"updated"`
	Authors    []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	} `xml:"link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
	DOI        string `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string `xml:"http://arxiv.org/schemas/atom journal_ref"`
	Comment    string `xml:"http://arxiv.org/schemas/atom comment"`
}

// parseAtom extracts the first entry of an arXiv Atom response. A feed
// with no entries means the identifier is unknown to arXiv.
func parseAtom(body []byte) (*types.ArxivPaper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 {
		return nil, ErrNotFound
	}
	entry := feed.Entries[0]

	// The entry id is a URL like https://arxiv.org/abs/2301.12345v1.
	id := entry.ID
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}

	paper := &types.ArxivPaper{
		ID:         id,
		Title:      collapseWhitespace(entry.Title),
		Abstract:   collapseWhitespace(entry.Summary),
		Published:  strings.TrimSpace(entry.Published),
		Updated:    strings.TrimSpace(entry.Updated),
		DOI:        strings.TrimSpace(entry.DOI),
		JournalRef: strings.TrimSpace(entry.JournalRef),
		Comment:    strings.TrimSpace(entry.Comment),
	}

	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			paper.Authors = append(paper.Authors, name)
		}
	}

	for _, link := range entry.Links {
		if link.Title == "pdf" || link.Type == "application/pdf" {
			paper.PDFURL = link.Href
			break
		}
	}

	for _, cat := range entry.Categories {
		if cat.Term != "" {
			paper.Subjects = append(paper.Subjects, cat.Term)
		}
	}

	return paper, nil
}

// collapseWhitespace joins the continuation lines Atom feeds wrap long
// fields into.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
