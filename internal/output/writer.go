// Package output writes finished reports to the output directory.
package output

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Report categories, one file each.
const (
	CategoryMetadata    = "metadata"
	CategoryFundraising = "fundraising"
	CategoryTokenomics  = "tokenomics"
)

var validCategory = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Writer writes <dir>/<category>.md files.
type Writer struct {
	dir string
	log *zap.Logger
}

// NewWriter creates a Writer rooted at dir. A nil logger disables logging.
func NewWriter(dir string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{dir: dir, log: log}
}

// Path returns the file a category is written to.
func (w *Writer) Path(category string) string {
	return filepath.Join(w.dir, category+".md")
}

// Write replaces the category's file with content. The file is written to a
// temporary name first and renamed into place, so readers never see a
// partial report.
func (w *Writer) Write(category, content string) (string, error) {
	if !validCategory.MatchString(category) {
		return "", eris.Errorf("output: invalid category %q", category)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "output: create dir %s", w.dir)
	}

	tmp, err := os.CreateTemp(w.dir, "."+category+"-*.md")
	if err != nil {
		return "", eris.Wrap(err, "output: create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return "", eris.Wrapf(err, "output: write %s", category)
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrapf(err, "output: close %s", category)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", eris.Wrapf(err, "output: chmod %s", category)
	}

	path := w.Path(category)
	if err := os.Rename(tmpName, path); err != nil {
		return "", eris.Wrapf(err, "output: rename into %s", path)
	}
	w.log.Info("report written", zap.String("category", category), zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}
