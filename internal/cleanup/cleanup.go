package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Start removes cached archives in dir older than maxAge, once right away and
// then on every interval until ctx is done.
func Start(ctx context.Context, dir string, interval, maxAge time.Duration) {
	slog.Info("Archive cache cleanup scheduled", "dir", dir, "interval", interval, "max_age", maxAge)
	CleanupCachedArchives(dir, maxAge, time.Now())

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				CleanupCachedArchives(dir, maxAge, now)
			}
		}
	}()
}

// CleanupCachedArchives deletes *.zip files in dir last modified before
// now-maxAge and returns how many were removed.
func CleanupCachedArchives(dir string, maxAge time.Duration, now time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read archive cache dir", "dir", dir, "error", err)
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if now.Sub(info.ModTime()) > maxAge {
			fullPath := filepath.Join(dir, entry.Name())
			if err := os.Remove(fullPath); err != nil {
				slog.Warn("Failed to remove cached archive", "path", fullPath, "error", err)
				continue
			}
			removed++
			slog.Debug("Removed cached archive", "path", fullPath, "age", now.Sub(info.ModTime()).Round(time.Second))
		}
	}
	return removed
}
