// Package dataset reads and writes the CSV files handed to the Redmine
// importer: one header line followed by one line per issue.
package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
)

// Dataset is a header plus rows of text fields, one row per issue.
type Dataset struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Write encodes ds as CSV. Lines always end in "\n"; fields containing the
// delimiter, a quote or a line break are quoted.
func Write(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false

	if err := cw.Write(ds.Header); err != nil {
		return failure.Wrap(failure.ErrIOWrite, err, "writing header")
	}
	for i, row := range ds.Rows {
		if err := cw.Write(row); err != nil {
			return failure.Wrap(failure.ErrIOWrite, err, "writing row %d", i+1)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return failure.Wrap(failure.ErrIOWrite, err, "flushing rows")
	}
	return nil
}

// WriteFile writes ds to path, replacing any existing file. It returns the
// number of bytes written.
func WriteFile(path string, ds *Dataset) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "creating output"), path)
	}

	cw := &countingWriter{w: f}
	if err := Write(cw, ds); err != nil {
		f.Close()
		return cw.n, failure.WithPath(err, path)
	}
	if err := f.Close(); err != nil {
		return cw.n, failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "closing output"), path)
	}
	return cw.n, nil
}

// Read decodes a CSV dataset. The first record is the header; every other
// record must have the same number of fields.
// A \r\n inside a quoted field is read back as \n.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	records, err := cr.ReadAll()
	if err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "reading dataset")
	}
	if len(records) == 0 {
		return nil, failure.New(failure.ErrMalformedInput, "dataset has no header")
	}
	return &Dataset{Header: records[0], Rows: records[1:]}, nil
}

// ReadFile reads the dataset at path.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.WithPath(failure.Wrap(failure.ErrInputNotFound, err, "opening dataset"), path)
		}
		return nil, failure.WithPath(failure.Wrap(failure.ErrMalformedInput, err, "opening dataset"), path)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, failure.WithPath(err, path)
	}
	return ds, nil
}

// Column returns the values of the named column, or nil if the header has no
// such column.
func (ds *Dataset) Column(name string) []string {
	idx := -1
	for i, h := range ds.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, len(ds.Rows))
	for i, row := range ds.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
