package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	photoDownloadTimeout = 30 * time.Second
	maxPhotoSizeBytes    = 10 * 1024 * 1024
)

// downloadPhotoToFile fetches the largest available size of a photo and
// writes it to a transient file under the configured image directory. The
// caller owns the returned path and must remove it when done.
func downloadPhotoToFile(ctx context.Context, b *bot.Bot, deps HandlerDeps, photos []models.PhotoSize) (string, error) {
	if len(photos) == 0 {
		return "", fmt.Errorf("no photo sizes provided")
	}
	// Telegram orders photo sizes ascending; the last one is the largest.
	fileID := photos[len(photos)-1].FileID

	dlCtx, cancel := context.WithTimeout(ctx, photoDownloadTimeout)
	defer cancel()

	fileObj, err := b.GetFile(dlCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("failed to get file: %w", err)
	}
	if fileObj.FilePath == "" {
		return "", fmt.Errorf("empty file path returned from Telegram")
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", deps.Config.Telegram.Token, fileObj.FilePath)
	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	dir := deps.Config.Session.ImageDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(dir, fileID+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	_, err = io.Copy(out, io.LimitReader(resp.Body, maxPhotoSizeBytes))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		removeTransientFile(ctx, deps, path)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path, nil
}

// removeTransientFile deletes a request-scoped file, logging rather than
// failing when cleanup is impossible.
func removeTransientFile(ctx context.Context, deps HandlerDeps, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		deps.Logger.WarnContext(ctx, "Failed to remove transient image file", "path", path, "error", err)
	}
}
