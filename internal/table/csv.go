package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Veraticus/moodmap/internal/common"
)

// WriteOptions controls how a table is serialized.
type WriteOptions struct {
	// BOM prefixes the file with a UTF-8 byte order mark so spreadsheet
	// tools detect the encoding.
	BOM bool
}

// Read loads a CSV file. A leading UTF-8 BOM is stripped.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses CSV from r. The first record is the header.
func Decode(r io.Reader) (*Table, error) {
	// BOMOverride honours a BOM if present and otherwise passes bytes through.
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", common.ErrMalformedCSV)
	}

	header := records[0]
	for _, row := range records[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row has %d fields, header has %d", common.ErrMalformedCSV, len(row), len(header))
		}
	}

	return New(header, records[1:]), nil
}

// Encode writes t as CSV to w.
func Encode(w io.Writer, t *Table, opts WriteOptions) error {
	var bom *transform.Writer
	if opts.BOM {
		bom = transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		w = bom
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	if bom != nil {
		if err := bom.Close(); err != nil {
			return fmt.Errorf("failed to flush output: %w", err)
		}
	}
	return nil
}

// Write replaces path with t. The data goes to a temporary file in the same
// directory first and is renamed into place, so a failed write leaves any
// existing file untouched and never produces a partial one.
func Write(path string, t *Table, opts WriteOptions) (err error) {
	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
		return fmt.Errorf("failed to create output directory: %w", mkErr)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, t, opts); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
