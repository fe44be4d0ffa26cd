package literal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxUnicodeDigits is the number of hex digits of a \u escape.
const maxUnicodeDigits = 6

// Unescape decodes the body of a double-quoted string literal (the text
// between the quotes). Supported escapes:
//
//	\n \r \t \\ \0 \' \"
//	\xHH       ASCII byte, HH <= 7F
//	\uHHHHHH   Unicode scalar value, exactly six hex digits
//	\u{H...}   Unicode scalar value, one to six hex digits
//
// Error spans are relative to body.
func Unescape(body string) (string, error) {
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		if body[i] != '\\' {
			_, size := utf8.DecodeRuneInString(body[i:])
			b.WriteString(body[i : i+size])
			i += size
			continue
		}

		if i+1 >= len(body) {
			return "", &EscapeError{Kind: UnexpectedStrEnd, Region: spanOf(i, 1)}
		}

		next, size := utf8.DecodeRuneInString(body[i+1:])
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '0':
			b.WriteByte(0)
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case 'x':
			v, err := fixedHex(body, i, 2)
			if err != nil {
				return "", err
			}
			if v > 0x7F {
				return "", invalidEscape(i, 4)
			}
			b.WriteByte(byte(v))
			i += 4
			continue
		case 'u':
			r, n, err := unicodeEscape(body, i)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
			continue
		default:
			return "", invalidEscape(i, 1+size)
		}
		i += 2
	}

	return b.String(), nil
}

// fixedHex reads exactly digits hex digits following the two-byte escape
// introducer at body[at].
func fixedHex(body string, at, digits int) (uint64, error) {
	width := 2 + digits
	if at+width > len(body) {
		return 0, invalidEscape(at, len(body)-at)
	}
	v, err := strconv.ParseUint(body[at+2:at+width], 16, 32)
	if err != nil {
		return 0, invalidEscape(at, width)
	}
	return v, nil
}

// unicodeEscape decodes a \u escape starting at body[at] and returns the rune
// and the number of bytes consumed.
func unicodeEscape(body string, at int) (rune, int, error) {
	if at+2 < len(body) && body[at+2] == '{' {
		j := at + 3
		for j < len(body) && j-(at+3) < maxUnicodeDigits && digitValue(rune(body[j]), 16) >= 0 {
			j++
		}
		if j == at+3 {
			return 0, 0, invalidEscape(at, 3)
		}
		if j >= len(body) || body[j] != '}' {
			return 0, 0, &EscapeError{Kind: ExpectedCloseBracket, Region: spanOf(j, 0)}
		}
		v, _ := strconv.ParseUint(body[at+3:j], 16, 32)
		if !utf8.ValidRune(rune(v)) {
			return 0, 0, invalidEscape(at, j+1-at)
		}
		return rune(v), j + 1 - at, nil
	}

	v, err := fixedHex(body, at, maxUnicodeDigits)
	if err != nil {
		return 0, 0, err
	}
	if !utf8.ValidRune(rune(v)) {
		return 0, 0, invalidEscape(at, 2+maxUnicodeDigits)
	}
	return rune(v), 2 + maxUnicodeDigits, nil
}

func invalidEscape(at, n int) *EscapeError {
	return &EscapeError{Kind: InvalidEscapedChar, Region: spanOf(at, n)}
}
