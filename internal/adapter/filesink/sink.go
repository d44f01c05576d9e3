// Package filesink writes generated documents into a directory.
package filesink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/pws-advisor-service/internal/compose"
)

// Sink writes each document to dir/<filename>, replacing earlier versions.
type Sink struct {
	dir    string
	logger *slog.Logger
}

// New creates a file sink rooted at dir. The directory is created on first use.
func New(dir string, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (s *Sink) Name() string { return "file" }

// Emit writes doc atomically: readers see either the old or the new file.
func (s *Sink) Emit(ctx context.Context, doc compose.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(doc.Filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".doc-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.WriteString(doc.Content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", doc.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", doc.Filename, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", doc.Filename, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", doc.Filename, err)
	}

	s.logger.Debug("document written", "path", path)
	return nil
}

// Path resolves filename inside the sink directory, rejecting names that
// would escape it.
func (s *Sink) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid document filename %q", filename)
	}
	return filepath.Join(s.dir, filename), nil
}
