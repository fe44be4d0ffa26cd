// Package tokenfmt serializes token streams for tooling: a human readable
// text listing, JSON, and deterministic CBOR with a BLAKE2b-256 digest that
// identifies a stream independently of how it was produced.
package tokenfmt

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cera-lang/cera/core/invariant"
	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/lexer"
)

// Version is the stream format version.
const Version uint8 = 1

// Record is one token with its position.
type Record struct {
	Class  string `json:"class" cbor:"1,keyasint"`
	Text   string `json:"text" cbor:"2,keyasint"`
	Offset int    `json:"offset" cbor:"3,keyasint"`
	Len    int    `json:"len" cbor:"4,keyasint"`
	Line   int    `json:"line" cbor:"5,keyasint"`   // 1-based
	Column int    `json:"column" cbor:"6,keyasint"` // 1-based, in runes
}

// Stream is a serialized token stream.
type Stream struct {
	Version uint8    `json:"version" cbor:"1,keyasint"`
	Source  string   `json:"source,omitempty" cbor:"2,keyasint,omitempty"`
	Tokens  []Record `json:"tokens" cbor:"3,keyasint"`
}

// NewStream builds a stream from tokenizer output. tokens and spans must be
// index-aligned and the spans must lie within idx's source.
func NewStream(name string, idx *text.Index, tokens []lexer.Token, spans []text.Span) *Stream {
	invariant.Precondition(len(tokens) == len(spans), "tokens and spans must align (%d vs %d)", len(tokens), len(spans))

	s := &Stream{
		Version: Version,
		Source:  name,
		Tokens:  make([]Record, len(tokens)),
	}
	for i, tok := range tokens {
		line, col := idx.Location(spans[i].Offset)
		s.Tokens[i] = Record{
			Class:  string(tok.Class()),
			Text:   tok.Text(),
			Offset: spans[i].Offset,
			Len:    spans[i].Len,
			Line:   line,
			Column: col,
		}
	}
	return s
}

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatCBOR)}
}

var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat resolves a format name. Unknown names get a suggestion of
// the closest supported one when there is a plausible match.
func ParseFormat(name string) (Format, error) {
	if slices.Contains(Formats(), name) {
		return Format(name), nil
	}
	if match := closestFormat(name); match != "" {
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownFormat, name, match)
	}
	return "", fmt.Errorf("%w %q (supported: %v)", ErrUnknownFormat, name, Formats())
}

// closestFormat finds the closest supported format using fuzzy matching
func closestFormat(name string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, Formats())
	if len(ranks) > 0 {
		slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int { return a.Distance - b.Distance })
		return ranks[0].Target
	}
	return ""
}
