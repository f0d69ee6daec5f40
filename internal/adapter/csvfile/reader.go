package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// Reader loads the raw dataset from a CSV file.
// It implements pipeline.Extractor.
type Reader struct {
	path string
}

// NewReader creates a Reader for the dataset at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Source returns the file the reader loads from.
func (r *Reader) Source() string { return r.path }

// Extract reads the whole file into memory. A missing file or malformed CSV
// is returned as an error.
func (r *Reader) Extract(_ context.Context) (domain.RawTable, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadTable(f)
}

// ReadTable parses CSV with a header row. Rows may have fewer fields than the
// header; missing trailing cells read as empty.
func ReadTable(src io.Reader) (domain.RawTable, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, errors.New("read dataset: empty file, no header row")
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read dataset header: %w", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read dataset: %w", err)
	}

	return domain.RawTable{Header: header, Rows: rows}, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
