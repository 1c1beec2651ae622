package checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	devenv "visacheck/dev/env"
	"visacheck/internal/components/assert"
)

// Snapshot is whatever was captured of the page at the end of a run.
type Snapshot struct {
	HTMLPath       string
	ScreenshotPath string
}

// takeSnapshot saves the current page as <dir>/<runID>.html and .png. What
// could be captured is kept even if the other half fails.
func takeSnapshot(ctx context.Context, page PageSession, dir, runID string) (Snapshot, error) {
	assert.NotEmptyStr(runID)

	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return Snapshot{}, err
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return Snapshot{}, err
	}

	var out Snapshot
	var errlist []error

	html, err := page.Content(ctx)
	if err == nil {
		path := filepath.Join(dir, runID+".html")
		err = os.WriteFile(path, []byte(html), 0o644)
		if err == nil {
			out.HTMLPath = path
		}
	}
	if err != nil {
		errlist = append(errlist, fmt.Errorf("save html: %w", err))
	}

	png, err := page.Screenshot(ctx)
	if err == nil {
		path := filepath.Join(dir, runID+".png")
		err = os.WriteFile(path, png, 0o644)
		if err == nil {
			out.ScreenshotPath = path
		}
	}
	if err != nil {
		errlist = append(errlist, fmt.Errorf("save screenshot: %w", err))
	}

	return out, errors.Join(errlist...)
}
