// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-digest/internal/httputil"
)

// downloadMaxRetries caps PDF download attempts; PDFs are large enough
// that the metadata retry budget is too generous.
const downloadMaxRetries = 2

// DownloadPDF fetches the paper's PDF into destDir and returns the
// saved path. An existing file is reused unless force is set. The
// download goes through a temporary file so an interrupted transfer
// never leaves a truncated PDF at the final path.
func (f *Fetcher) DownloadPDF(ctx context.Context, paperID, destDir string, force bool) (string, error) {
	if err := ValidateID(paperID); err != nil {
		return "", err
	}

	destPath := filepath.Join(destDir, paperID+".pdf")
	if !force {
		if _, err := os.Stat(destPath); err == nil {
			return destPath, nil
		}
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating PDF directory: %w", err)
	}

	url := strings.ReplaceAll(f.cfg.PDFURL, "{id}", paperID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, downloadMaxRetries)
	if err != nil {
		return "", fmt.Errorf("downloading PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(destDir, ".download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}
