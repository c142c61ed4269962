package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
)

func sample() *Dataset {
	return &Dataset{
		Header: []string{"Subject", "Description", "Watchers"},
		Rows: [][]string{
			{"Bug A", "desc\n\nComment: 2020-01-02 - bob: fix it", "alice,carol"},
			{"say \"hi\"", "", ""},
			{"plain", "café ✓", "x"},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()))

	want := "Subject,Description,Watchers\n" +
		"Bug A,\"desc\n\nComment: 2020-01-02 - bob: fix it\",\"alice,carol\"\n" +
		"\"say \"\"hi\"\"\",,\n" +
		"plain,café ✓,x\n"
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "\r\n")
}

func TestWriteHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &Dataset{Header: []string{"a", "b"}}))
	assert.Equal(t, "a,b\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ds := sample()
	require.NoError(t, Write(&buf, ds))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Header, got.Header)
	assert.Equal(t, ds.Rows, got.Rows)
}

func TestCarriageReturnsWrittenButNotReadBack(t *testing.T) {
	ds := &Dataset{
		Header: []string{"Subject", "Description"},
		Rows:   [][]string{{"crlf", "line1\r\nline2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ds))
	assert.Equal(t, "Subject,Description\ncrlf,\"line1\r\nline2\"\n", buf.String())

	// Reading normalizes \r\n inside quoted fields to \n.
	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"crlf", "line1\nline2"}}, got.Rows)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSinkFailure(t *testing.T) {
	err := Write(failingWriter{}, sample())
	assert.ErrorIs(t, err, failure.ErrIOWrite)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := WriteFile(path, sample())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample().Rows, got.Rows)
}

func TestWriteFileUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	_, err := WriteFile(path, sample())
	assert.ErrorIs(t, err, failure.ErrIOWrite)
	assert.Contains(t, err.Error(), path)
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, failure.ErrInputNotFound)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, failure.ErrMalformedInput)

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"))
	assert.ErrorIs(t, err, failure.ErrMalformedInput)
}

func TestColumn(t *testing.T) {
	ds := sample()
	assert.Equal(t, []string{"alice,carol", "", "x"}, ds.Column("Watchers"))
	assert.Nil(t, ds.Column("Nope"))
}
