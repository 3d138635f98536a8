// Package share publishes exported files. The primary channel is a
// Google Drive upload with a link anyone can open; when Drive is not
// configured or the upload fails the caller gets the local file path
// instead, so sharing never blocks an export.
package share

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

const (
	MethodDrive = "drive"
	MethodLocal = "local"
)

// Result is the outcome of one share attempt. Success is true even on
// the local fallback: the user still has a usable file.
type Result struct {
	Success bool   `json:"success"`
	Link    string `json:"link"`
	Method  string `json:"method"`
	Error   string `json:"error,omitempty"`
}

// Uploader pushes a local file to a remote destination and returns a
// shareable link.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Sharer wraps an optional uploader with the local fallback.
type Sharer struct {
	uploader Uploader
}

func NewSharer(uploader Uploader) *Sharer {
	return &Sharer{uploader: uploader}
}

// ShareWithFallback tries the remote upload and degrades to the local
// path. The upload error, if any, is carried in the result for the UI
// to surface.
func (s *Sharer) ShareWithFallback(ctx context.Context, path string) Result {
	if s.uploader == nil {
		return Result{Success: true, Link: path, Method: MethodLocal}
	}

	link, err := s.uploader.Upload(ctx, path)
	if err != nil {
		slog.WarnContext(ctx, "Drive upload failed, falling back to local path",
			"file", filepath.Base(path),
			"error", err)
		return Result{
			Success: true,
			Link:    path,
			Method:  MethodLocal,
			Error:   fmt.Sprintf("drive upload failed: %v", err),
		}
	}

	slog.InfoContext(ctx, "Export shared via Drive",
		"file", filepath.Base(path),
		"link", link)
	return Result{Success: true, Link: link, Method: MethodDrive}
}
