package rss

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/cooc/pkg/cooc/ingest"
)

func TestJSONLSourceFeedsReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	content := `{"url":"https://a.example/1","title":"Hot\troom","text":"hot room\nwith a view"}
not json
{"url":"https://a.example/2","title":"Cold","text":"cold\tfood"}

`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := ingest.NewReader(JSONLSource{Path: path}, ingest.ReaderOptions{})
	var docs [][]string
	for doc, err := range r.Docs(context.Background()) {
		if err != nil {
			t.Fatalf("Docs: %v", err)
		}
		docs = append(docs, doc)
	}

	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d: %v", len(docs), docs)
	}
	want := [][]string{{"hot", "room", "with", "a", "view"}, {"cold", "food"}}
	for i := range want {
		if len(docs[i]) != len(want[i]) {
			t.Fatalf("doc %d: got %v, want %v", i, docs[i], want[i])
		}
		for j := range want[i] {
			if docs[i][j] != want[i][j] {
				t.Errorf("doc %d token %d: got %q, want %q", i, j, docs[i][j], want[i][j])
			}
		}
	}
}

func TestJSONLSourceStopsEarly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	var content string
	for i := 0; i < 1000; i++ {
		content += `{"url":"u","title":"t","text":"word"}` + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := ingest.NewReader(JSONLSource{Path: path}, ingest.ReaderOptions{MaxDocs: 3})
	n := 0
	for _, err := range r.Docs(context.Background()) {
		if err != nil {
			t.Fatalf("Docs: %v", err)
		}
		n++
	}
	if n != 3 {
		t.Errorf("Expected 3 documents, got %d", n)
	}
}

func TestJSONLSourceMissingFile(t *testing.T) {
	if _, err := (JSONLSource{Path: "/nonexistent/docs.jsonl"}).Open(); err == nil {
		t.Error("Should error on nonexistent file")
	}
}
