// Package artifact holds the file handling shared by the output sinks.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile creates the parent directories of path, truncates the file and
// streams content into it. Errors from content are returned unwrapped.
func WriteFile(path string, content func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := content(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteTo adapts an io.WriterTo, such as an encoded image, to WriteFile.
func WriteTo(src io.WriterTo) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := src.WriteTo(w)
		return err
	}
}
