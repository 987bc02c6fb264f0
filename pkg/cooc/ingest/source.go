package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Source supplies the raw corpus. Open is called once per pass over the
// corpus, so every pass re-reads the underlying data.
type Source interface {
	Open() (io.ReadCloser, error)
}

// FileSource reads a corpus file. Each line is one record of at least three
// tab separated fields; the third field is the document text.
type FileSource struct {
	Path string
	// Encoding is "utf-8" (default) or "latin1".
	Encoding string
}

// Open opens the file, decoding it to UTF-8 when needed.
func (s FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", s.Path, err)
	}

	switch strings.ToLower(s.Encoding) {
	case "", "utf-8", "utf8":
		return f, nil
	case "latin1", "latin-1", "latin_1", "iso-8859-1":
		return decodedFile{Reader: charmap.ISO8859_1.NewDecoder().Reader(f), f: f}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported corpus encoding %q", s.Encoding)
	}
}

type decodedFile struct {
	io.Reader
	f *os.File
}

func (d decodedFile) Close() error { return d.f.Close() }

// StringSource serves records held in memory.
type StringSource []string

// Open returns the records joined by newlines.
func (s StringSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(strings.Join(s, "\n"))), nil
}

// Record formats a document as a record accepted by the corpus reader.
func Record(id, title, text string) string {
	return id + "\t" + title + "\t" + text
}
