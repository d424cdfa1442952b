package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// newImageCleanupTask creates the scheduled task that sweeps stale transient
// image files. Vision requests delete their own files on completion; this
// task catches anything orphaned by crashes or interrupted handlers.
func newImageCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "image_cleanup")

	return func(ctx context.Context) error {
		dir := deps.Config.Session.ImageDir
		maxAge := deps.Config.Session.ImageMaxAge

		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to read image directory: %w", err)
		}

		cutoff := time.Now().Add(-maxAge)
		removed := 0
		for _, entry := range entries {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if entry.IsDir() {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				log.WarnContext(ctx, "Failed to stat image file", "name", entry.Name(), "error", err)
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.WarnContext(ctx, "Failed to remove stale image file", "path", path, "error", err)
				continue
			}
			removed++
		}

		if removed > 0 {
			log.InfoContext(ctx, "Removed stale image files", "count", removed)
		}
		return nil
	}
}
