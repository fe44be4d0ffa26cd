package tokenfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/lexer"
)

func streamOf(t *testing.T, name, src string) *Stream {
	t.Helper()
	tokens, spans, err := lexer.Tokenize(src)
	require.NoError(t, err)
	return NewStream(name, text.NewIndex(src), tokens, spans)
}

func TestNewStream(t *testing.T) {
	s := streamOf(t, "main.cera", "a = 1.5\n  \"é\" [")

	expected := []Record{
		{Class: "ident", Text: "a", Offset: 0, Len: 1, Line: 1, Column: 1},
		{Class: "punct", Text: "=", Offset: 2, Len: 1, Line: 1, Column: 3},
		{Class: "float", Text: "15e-1", Offset: 4, Len: 3, Line: 1, Column: 5},
		{Class: "string", Text: `"é"`, Offset: 10, Len: 4, Line: 2, Column: 3},
		{Class: "punct", Text: "[", Offset: 15, Len: 1, Line: 2, Column: 7},
	}
	if diff := cmp.Diff(expected, s.Tokens); diff != "" {
		t.Errorf("records mismatch (-expected +actual):\n%s", diff)
	}
	assert.Equal(t, Version, s.Version)
	assert.Equal(t, "main.cera", s.Source)
}

func TestWriteText(t *testing.T) {
	s := streamOf(t, "", "foo(12)")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, s))

	expected := "" +
		"1:1  [0,3)  ident  foo\n" +
		"1:4  [3,4)  punct  (\n" +
		"1:5  [4,6)  int    12\n" +
		"1:7  [6,7)  punct  )\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteJSON(t *testing.T) {
	s := streamOf(t, "x.cera", `"hi"`)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, s))

	var decoded Stream
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	if diff := cmp.Diff(*s, decoded); diff != "" {
		t.Errorf("JSON stream mismatch (-expected +actual):\n%s", diff)
	}
	assert.Contains(t, buf.String(), `"class": "string"`)
}

func TestCBORDeterminism(t *testing.T) {
	src := "let x = 0xff + 2.5e3 // c\n[\"s\"]"

	var first []byte
	for i := 0; i < 5; i++ {
		data, err := streamOf(t, "a.cera", src).MarshalBinary()
		require.NoError(t, err)
		if i == 0 {
			first = data
			continue
		}
		assert.True(t, bytes.Equal(first, data), "encoding %d differs from first", i)
	}

	var decoded Stream
	require.NoError(t, decoded.UnmarshalBinary(first))
	if diff := cmp.Diff(*streamOf(t, "a.cera", src), decoded); diff != "" {
		t.Errorf("CBOR stream mismatch (-expected +actual):\n%s", diff)
	}
}

func TestWriteCBORMatchesMarshalBinary(t *testing.T) {
	s := streamOf(t, "", "a b")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCBOR, s))
	data, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}

func TestUnmarshalRejectsOtherVersions(t *testing.T) {
	s := streamOf(t, "", "a")
	s.Version = Version + 1
	data, err := s.MarshalBinary()
	require.NoError(t, err)

	var decoded Stream
	assert.ErrorContains(t, decoded.UnmarshalBinary(data), "unsupported stream version")
	assert.Error(t, decoded.UnmarshalBinary([]byte{0xff, 0x00}))
}

func TestDigest(t *testing.T) {
	a, err := streamOf(t, "a.cera", "x = 1").Digest()
	require.NoError(t, err)

	b, err := streamOf(t, "b.cera", "x = /* c */ 1").Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "offsets are part of the stream")

	c, err := streamOf(t, "c.cera", "x = 1").Digest()
	require.NoError(t, err)
	assert.Equal(t, a, c, "source name is excluded")

	d, err := streamOf(t, "a.cera", "x = 2").Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		errMsg   string
	}{
		{"text", FormatText, ""},
		{"json", FormatJSON, ""},
		{"cbor", FormatCBOR, ""},
		{"jsn", "", `unknown format "jsn" (did you mean "json"?)`},
		{"cbr", "", `unknown format "cbr" (did you mean "cbor"?)`},
		{"txt", "", `unknown format "txt" (did you mean "text"?)`},
		{"yaml", "", `unknown format "yaml" (supported: [text json cbor])`},
		{"", "", `unknown format "" (supported: [text json cbor])`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, format)
				return
			}
			require.ErrorIs(t, err, ErrUnknownFormat)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestNewStreamPanicsOnMisalignedInput(t *testing.T) {
	idx := text.NewIndex("a")
	assert.Panics(t, func() {
		NewStream("", idx, []lexer.Token{lexer.NewIdentifier("a")}, nil)
	})
}
