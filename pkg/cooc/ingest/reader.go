package ingest

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"maps"
	"strings"
)

const maxRecordSize = 16 << 20

// ReaderOptions configures a corpus Reader.
type ReaderOptions struct {
	// MaxDocs stops the pass after this many documents. Zero or negative
	// means no limit.
	MaxDocs int
	// Ignore lists tokens dropped from every document.
	Ignore []string
	// StripHTML removes markup from the text field before tokenizing.
	StripHTML bool
	// Progress, when set, receives throughput reports.
	Progress *Progress
}

// Reader turns a Source into a stream of tokenized documents. Every call to
// Docs starts a new pass that re-opens the source.
type Reader struct {
	source    Source
	tokenizer *Tokenizer
	maxDocs   int
	stripHTML bool
	ignore    map[string]struct{}
	progress  *Progress
}

// NewReader creates a reader over src.
func NewReader(src Source, opts ReaderOptions) *Reader {
	ignore := make(map[string]struct{}, len(opts.Ignore))
	for _, w := range opts.Ignore {
		ignore[strings.ToLower(w)] = struct{}{}
	}
	return &Reader{
		source:    src,
		tokenizer: NewTokenizer(),
		maxDocs:   opts.MaxDocs,
		stripHTML: opts.StripHTML,
		ignore:    ignore,
		progress:  opts.Progress,
	}
}

// WithIgnore returns a copy of the reader that additionally drops the given
// tokens. The receiver is not modified.
func (r *Reader) WithIgnore(extra map[string]struct{}) *Reader {
	cp := *r
	cp.ignore = maps.Clone(r.ignore)
	if cp.ignore == nil {
		cp.ignore = make(map[string]struct{}, len(extra))
	}
	maps.Copy(cp.ignore, extra)
	return &cp
}

// Docs starts a pass over the corpus and yields the tokens of each document,
// lowercased and with ignored tokens removed. Records with fewer than three
// tab separated fields are skipped. If the source cannot be read the
// sequence yields a single non-nil error and stops.
func (r *Reader) Docs(ctx context.Context) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		rc, err := r.source.Open()
		if err != nil {
			yield(nil, err)
			return
		}
		defer rc.Close()

		if r.progress != nil {
			r.progress.reset()
		}

		sc := bufio.NewScanner(rc)
		sc.Buffer(make([]byte, 64*1024), maxRecordSize)

		doc := 0
		for sc.Scan() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if r.maxDocs > 0 && doc >= r.maxDocs {
				return
			}

			fields := strings.SplitN(sc.Text(), "\t", 3)
			if len(fields) != 3 {
				continue
			}
			doc++
			r.progress.Observe(doc)

			if !yield(r.tokens(fields[2]), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, fmt.Errorf("read corpus: %w", err))
		}
	}
}

func (r *Reader) tokens(text string) []string {
	if r.stripHTML {
		text = StripHTML(text)
	}
	var out []string
	for tok := range r.tokenizer.Tokens(strings.ToLower(text)) {
		if _, skip := r.ignore[tok]; skip {
			continue
		}
		out = append(out, tok)
	}
	return out
}
