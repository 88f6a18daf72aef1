package roster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadTimeout bounds a roster export download
const DownloadTimeout = 2 * time.Minute

// Download saves the spreadsheet export at url to dest
func Download(ctx context.Context, client *http.Client, url, dest string) error {
	if client == nil {
		client = &http.Client{Timeout: DownloadTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading roster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading roster: unexpected status code: %d", resp.StatusCode)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating download directory: %w", err)
		}
	}

	// A failed download leaves an existing roster untouched
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".roster-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	return nil
}
