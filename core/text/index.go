package text

import (
	"iter"
	"sort"
	"unicode/utf8"

	"github.com/cera-lang/cera/core/invariant"
)

// Index maps byte offsets of a source text to lines.
// It is built once per source and never mutated afterwards, so it can be
// shared freely between goroutines.
type Index struct {
	src string
	// Offsets of every '\n' in src, ascending.
	lineFeeds []int
}

// NewIndex scans src once and records the offset of every line feed.
func NewIndex(src string) *Index {
	var feeds []int
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			feeds = append(feeds, i)
		}
	}
	return &Index{src: src, lineFeeds: feeds}
}

// Source returns the indexed text.
func (x *Index) Source() string {
	return x.src
}

// FindLine returns the 0-based line containing offset.
// A line feed belongs to the line it terminates: in "ab\ncd" offset 2 is on
// line 0 and offset 3 on line 1.
func (x *Index) FindLine(offset int) int {
	invariant.InRange(offset, 0, len(x.src), "offset")
	return sort.SearchInts(x.lineFeeds, offset)
}

// Location converts offset into a 1-based line and a 1-based column counted
// in runes.
func (x *Index) Location(offset int) (line, column int) {
	line = x.FindLine(offset)
	start := x.lineStart(line)
	return line + 1, utf8.RuneCountInString(x.src[start:offset]) + 1
}

// Line returns the n-th line (0-based) including its trailing line feed.
// It reports false for lines past the end, including the empty line that
// would follow a final line feed.
func (x *Index) Line(n int) (string, bool) {
	if n < 0 || n > len(x.lineFeeds) {
		return "", false
	}
	start := x.lineStart(n)
	end := len(x.src)
	if n < len(x.lineFeeds) {
		end = x.lineFeeds[n] + 1
	}
	if start == end {
		return "", false
	}
	return x.src[start:end], true
}

// LineCount returns the number of lines Line reports.
func (x *Index) LineCount() int {
	if len(x.src) == 0 {
		return 0
	}
	if x.src[len(x.src)-1] == '\n' {
		return len(x.lineFeeds)
	}
	return len(x.lineFeeds) + 1
}

// Lines returns an iterator over the lines of the source. Call Lines again
// to start over.
func (x *Index) Lines() *LineIter {
	return &LineIter{index: x}
}

// All yields (line number, line) pairs in order.
func (x *Index) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		lines := x.Lines()
		for {
			n := lines.next
			line, ok := lines.Next()
			if !ok || !yield(n, line) {
				return
			}
		}
	}
}

func (x *Index) lineStart(line int) int {
	if line == 0 {
		return 0
	}
	return x.lineFeeds[line-1] + 1
}

// LineIter walks an Index line by line.
type LineIter struct {
	index *Index
	next  int
}

// Next returns the next line, or false once the source is exhausted.
func (it *LineIter) Next() (string, bool) {
	line, ok := it.index.Line(it.next)
	if ok {
		it.next++
	}
	return line, ok
}
