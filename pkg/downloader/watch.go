package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avolkov/minutedigest/pkg/poll"
)

// ErrDownloadTimeout is returned when no new file stabilized before the
// download deadline.
var ErrDownloadTimeout = errors.New("downloader: timed out waiting for download to complete")

// Snapshot is the set of file names present in the download directory before
// a download was triggered. Anything not in the snapshot is a candidate.
type Snapshot map[string]struct{}

// SnapshotDir records the current file-name set of dir.
func SnapshotDir(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}
	snap := make(Snapshot, len(entries))
	for _, ent := range entries {
		snap[ent.Name()] = struct{}{}
	}
	return snap, nil
}

// Detector infers that a browser-triggered download finished. The browser
// gives no completion callback, so the only signal is a side channel; the
// interface keeps the observation strategy swappable without touching the
// orchestration.
type Detector interface {
	// WaitForDownload blocks until a file not present in before has finished
	// landing, returning its path. The deadline comes from ctx.
	WaitForDownload(ctx context.Context, before Snapshot) (string, error)
}

// DirWatcher detects completion by polling the download directory and
// watching candidate file sizes.
//
// One stability policy covers both in-progress and final extensions: a
// candidate is complete once its size is observed non-zero and unchanged on
// two consecutive polls. A file still carrying a temporary extension can be
// data-complete; some browsers rename it only when they shut down, so the
// temporary path is returned as is.
type DirWatcher struct {
	Dir      string
	Interval time.Duration
	// FinalExts and TempExts filter candidates. Defaults cover PDF exports
	// from Chrome (.pdf, .crdownload, .tmp).
	FinalExts []string
	TempExts  []string
}

// NewDirWatcher returns a watcher with the default extension filters.
func NewDirWatcher(dir string, interval time.Duration) *DirWatcher {
	return &DirWatcher{
		Dir:       dir,
		Interval:  interval,
		FinalExts: []string{".pdf"},
		TempExts:  []string{".crdownload", ".tmp"},
	}
}

func (w *DirWatcher) WaitForDownload(ctx context.Context, before Snapshot) (string, error) {
	lastSizes := make(map[string]int64)
	var completed string

	check := func(ctx context.Context) (bool, error) {
		entries, err := os.ReadDir(w.Dir)
		if err != nil {
			return false, fmt.Errorf("failed to read download directory: %w", err)
		}

		for _, ent := range entries {
			name := ent.Name()
			if _, existed := before[name]; existed {
				continue
			}
			if ent.IsDir() || !w.candidate(name) {
				continue
			}

			info, err := ent.Info()
			if err != nil {
				// The file can vanish between ReadDir and Stat while the
				// browser renames it; just look again next poll.
				continue
			}

			size := info.Size()
			prev, seen := lastSizes[name]
			lastSizes[name] = size
			if seen && size > 0 && size == prev {
				completed = filepath.Join(w.Dir, name)
				return true, nil
			}
		}
		return false, nil
	}

	if _, err := poll.First(ctx, w.Interval, check); err != nil {
		if errors.Is(err, poll.ErrTimeout) {
			return "", ErrDownloadTimeout
		}
		return "", err
	}
	return completed, nil
}

func (w *DirWatcher) candidate(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range w.FinalExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, ext := range w.TempExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
