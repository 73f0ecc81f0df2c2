package annotation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rnapolis/rnative/internal/models"
)

// FileAnnotator loads annotations previously written to disk by an external
// classifier. It satisfies ensemble.Annotator.
type FileAnnotator struct{}

// NewFileAnnotator returns an annotator reading JSON, YAML or gzip files.
func NewFileAnnotator() *FileAnnotator {
	return &FileAnnotator{}
}

// Annotate reads and decodes the annotation at path.
func (a *FileAnnotator) Annotate(ctx context.Context, path string) (*models.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, ModelName(path))
}

// ReadFile returns the contents of path, decompressing it when it ends in .gz
// or starts with the gzip magic bytes.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") && !isGzip(data) {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return out, nil
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// ModelName is the file base name without .gz and the format extension.
func ModelName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}
