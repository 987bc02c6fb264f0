package rss

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/cooc/pkg/cooc/ingest"
)

// Item represents a simplified RSS/news item
type Item struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Outlet      string    `json:"outlet"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"text"`
	SourceCats  []string  `json:"source_cats"`
}

// JSONLSource reads a JSON lines feed dump as a corpus. Every item becomes
// one tab separated record (url, title, body) with embedded tabs and line
// breaks flattened to spaces. Malformed lines are logged and skipped.
type JSONLSource struct {
	Path string
}

// Open implements ingest.Source. The file is converted while it is read.
func (s JSONLSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	pr, pw := io.Pipe()
	go func() {
		defer f.Close()
		pw.CloseWithError(writeRecords(pw, f, s.Path))
	}()
	return pr, nil
}

func writeRecords(w io.Writer, r io.Reader, path string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	bw := bufio.NewWriter(w)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", line, path, err)
			continue
		}
		rec := ingest.Record(flatten(item.URL), flatten(item.Title), flatten(item.Body))
		if _, err := bw.WriteString(rec + "\n"); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return bw.Flush()
}

var flattener = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func flatten(s string) string {
	return flattener.Replace(s)
}
