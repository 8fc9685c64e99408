// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv fetches paper metadata from the arXiv Atom API, with a
// headless-browser scrape as the alternate route, and downloads PDFs.
package arxiv

import (
	"errors"
	"fmt"
	"regexp"
)

// idPattern matches modern arXiv identifiers: YYMM.NNNNN with an
// optional version suffix.
var idPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)

// ErrInvalidID reports a malformed arXiv identifier. Checked before
// any network activity so typos fail immediately.
var ErrInvalidID = errors.New("invalid arXiv identifier")

// ErrNotFound reports that arXiv answered but has no entry for the
// requested identifier.
var ErrNotFound = errors.New("paper not found on arXiv")

// ValidateID checks that id looks like a modern arXiv identifier
// (e.g. "2301.12345" or "2301.12345v2").
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (want NNNN.NNNNN, e.g. 2301.12345)", ErrInvalidID, id)
	}
	return nil
}
