package diagnostic

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/lexer"
)

type spanErr struct{ span text.Span }

func (e spanErr) Error() string { return "bad region" }
func (e spanErr) Span() text.Span { return e.span }

func lexError(t *testing.T, src string) error {
	t.Helper()
	_, _, err := lexer.Tokenize(src)
	require.Error(t, err)
	return err
}

func render(t *testing.T, src string, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, text.NewIndex(src), d, false))
	return buf.String()
}

func TestFromLexerErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Diagnostic
	}{
		{
			name: "no_match_echoes_rest_of_line",
			src:  "a $b c\nnext",
			expected: Diagnostic{
				File:    "m.cera",
				Message: "no token matches at @2",
				Span:    text.Span{Offset: 2, Len: 1},
				Hint:    `unmatched input: "$b c"`,
			},
		},
		{
			name: "unterminated_string",
			src:  "x = \"abc",
			expected: Diagnostic{
				File:    "m.cera",
				Message: "unterminated string literal at @4",
				Span:    text.Span{Offset: 4, Len: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := text.NewIndex(tt.src)
			got := FromError("m.cera", idx, lexError(t, tt.src))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("diagnostic mismatch (-expected +actual):\n%s", diff)
			}
		})
	}
}

func TestFromErrorWithoutSpan(t *testing.T) {
	d := FromError("", text.NewIndex("abc"), errors.New("boom"))
	assert.Equal(t, Diagnostic{Message: "boom"}, d)
}

func TestFromErrorClampsSpan(t *testing.T) {
	d := FromError("", text.NewIndex("abc"), spanErr{text.Span{Offset: 2, Len: 10}})
	assert.Equal(t, text.Span{Offset: 2, Len: 1}, d.Span)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		diag     Diagnostic
		expected string
	}{
		{
			name: "single_caret",
			src:  "x = \"abc",
			diag: Diagnostic{File: "m.cera", Message: "unterminated", Span: text.Span{Offset: 4, Len: 1}},
			expected: "" +
				"error: unterminated\n" +
				" --> m.cera:1:5\n" +
				"  |\n" +
				"1 | x = \"abc\n" +
				"  |     ^\n",
		},
		{
			name: "underline_on_second_line",
			src:  "first\nlet 12abc = 1\n",
			diag: Diagnostic{Message: "bad", Span: text.Span{Offset: 10, Len: 5}},
			expected: "" +
				"error: bad\n" +
				" --> 2:5\n" +
				"  |\n" +
				"2 | let 12abc = 1\n" +
				"  |     ^~~~~\n",
		},
		{
			name: "underline_stops_at_line_end",
			src:  "ab\ncd",
			diag: Diagnostic{Message: "m", Span: text.Span{Offset: 1, Len: 3}},
			expected: "" +
				"error: m\n" +
				" --> 1:2\n" +
				"  |\n" +
				"1 | ab\n" +
				"  |  ^\n",
		},
		{
			name: "runes_not_bytes",
			src:  "é = ü",
			diag: Diagnostic{Message: "m", Span: text.Span{Offset: 5, Len: 2}},
			expected: "" +
				"error: m\n" +
				" --> 1:5\n" +
				"  |\n" +
				"1 | é = ü\n" +
				"  |     ^\n",
		},
		{
			name: "hint",
			src:  "$",
			diag: Diagnostic{Message: "m", Hint: "h"},
			expected: "" +
				"error: m\n" +
				" --> 1:1\n" +
				"  |\n" +
				"1 | $\n" +
				"  | ^\n" +
				"  = hint: h\n",
		},
		{
			name: "empty_source",
			src:  "",
			diag: Diagnostic{Message: "m"},
			expected: "" +
				"error: m\n" +
				" --> 1:1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render(t, tt.src, tt.diag))
		})
	}
}

func TestRenderColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, text.NewIndex("a"), Diagnostic{Message: "m"}, true))
	assert.Contains(t, buf.String(), ColorRed+"error: "+ColorReset)
	assert.Contains(t, buf.String(), ColorRed+"^"+ColorReset)
}

func TestWidePrefixGutter(t *testing.T) {
	src := ""
	for i := 0; i < 11; i++ {
		src += "x\n"
	}
	out := render(t, src, Diagnostic{Message: "m", Span: text.Span{Offset: 20, Len: 1}})
	expected := "" +
		"error: m\n" +
		"  --> 11:1\n" +
		"   |\n" +
		"11 | x\n" +
		"   | ^\n"
	assert.Equal(t, expected, out)
}
