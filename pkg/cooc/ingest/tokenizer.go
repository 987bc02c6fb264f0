package ingest

import (
	"iter"
	"regexp"
	"strings"
)

// wordChar is a unicode-aware \w.
const wordChar = `[\pL\pN_]`

// tokenPattern lists the token classes in priority order. Alternation is
// leftmost-first, so earlier classes win when several match at one position.
var tokenPattern = regexp.MustCompile(strings.Join([]string{
	`(?:\pL\.)+`,    // abbreviations: u.s.
	`\d+:(?:\.\d)+`, // decimal pairs
	`(?:https?://)?(?:` + wordChar + `+\.)+\pL{2,}(?:[\pL\pN_/]+)?`, // urls and host names
	`[@#]?` + wordChar + `+(?:[-']` + wordChar + `+)*`,              // words, @user, #tag
	`\$\d+(?:\.\d+)?%?`,              // currency
	`\\[Uu]` + wordChar + `+(?:'t)?`, // escaped unicode
	`\.\.\.`,                         // ellipsis
	`[!?]+`,
}, "|"))

// Tokenizer splits lowercased text into word tokens using a fixed set of
// lexical patterns. It trades linguistic accuracy for speed: anything outside
// the token classes (whitespace, stray punctuation) is dropped.
type Tokenizer struct {
	pattern *regexp.Regexp
}

// NewTokenizer creates a tokenizer with the default token classes.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{pattern: tokenPattern}
}

// Tokens returns a lazy sequence over the tokens of text. The sequence can be
// ranged over any number of times and always yields the same tokens.
func (t *Tokenizer) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for pos < len(text) {
			loc := t.pattern.FindStringIndex(text[pos:])
			if loc == nil {
				return
			}
			if !yield(text[pos+loc[0] : pos+loc[1]]) {
				return
			}
			pos += loc[1]
		}
	}
}

// Tokenize collects all tokens of text.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for tok := range t.Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}
