package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSharer delivers rendered documents by writing them into a directory,
// the server-side stand-in for a device share sheet. The document title
// becomes the file name, so repeated shares of the same report overwrite.
type DirSharer struct {
	dir string
}

func NewDirSharer(dir string) *DirSharer {
	return &DirSharer{dir: dir}
}

func (d *DirSharer) Share(_ context.Context, doc Document) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create share directory: %w", err)
	}
	path := filepath.Join(d.dir, filepath.Base(doc.Title))
	if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
		return fmt.Errorf("write shared document: %w", err)
	}
	return nil
}
