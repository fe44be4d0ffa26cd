package lexer

import (
	"github.com/cera-lang/cera/core/literal"
	"github.com/cera-lang/cera/core/text"
	"github.com/cera-lang/cera/runtime/parsing"
)

// tokenParsers are tried in order after trivia; the first match wins.
var tokenParsers = []parsing.Func[Token]{
	parseIdentifier,
	parseLiteral,
	parsePunctuation,
}

// TryParse reads one token, or one run of trivia, from the start of src.
// It is the parsing.Func that Tokenize drives. Errors are relative to src.
func TryParse(src string) (parsing.Outcome[Token], error) {
	if src == "" {
		return parsing.Unmatched[Token](), nil
	}
	if n := skipTrivia(src); n > 0 {
		return parsing.Skipped[Token](n), nil
	}
	for _, parse := range tokenParsers {
		out, err := parse(src)
		if err != nil || out.Kind() != parsing.NoMatch {
			return out, err
		}
	}
	return parsing.Unmatched[Token](), &Error{Kind: NoMatch, Region: text.Span{Len: 1}}
}

type triviaState int

const (
	inCode triviaState = iota
	inLineComment
	inBlockComment
)

// skipTrivia returns the length of the leading whitespace and comments of
// src. Block comments do not nest; an unterminated one runs to the end.
func skipTrivia(src string) int {
	state := inCode
	i := 0
	for i < len(src) {
		switch state {
		case inCode:
			ch := src[i]
			if ch < 128 && isWhitespace[ch] {
				i++
				continue
			}
			if ch != '/' || i+1 >= len(src) {
				return i
			}
			switch src[i+1] {
			case '/':
				state = inLineComment
			case '*':
				state = inBlockComment
			default:
				return i
			}
			i += 2
		case inLineComment:
			if src[i] == '\n' {
				state = inCode
			}
			i++
		case inBlockComment:
			if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
				state = inCode
				i += 2
				continue
			}
			i++
		}
	}
	return i
}

func parseIdentifier(src string) (parsing.Outcome[Token], error) {
	if src[0] >= 128 || !isIdentStart[src[0]] {
		return parsing.Unmatched[Token](), nil
	}
	n := 1
	for n < len(src) && src[n] < 128 && isIdentPart[src[n]] {
		n++
	}
	return parsing.Matched(NewIdentifier(src[:n]), n), nil
}

func parseLiteral(src string) (parsing.Outcome[Token], error) {
	switch ch := src[0]; {
	case ch == '"':
		return parseString(src)
	case ch < 128 && isDigit[ch]:
		return parseNumeral(src)
	default:
		return parsing.Unmatched[Token](), nil
	}
}

// parseString reads a double-quoted literal. An escaped quote does not end
// the literal; decoding errors are rebased past the opening quote.
func parseString(src string) (parsing.Outcome[Token], error) {
	escaped := false
	for i := 1; i < len(src); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch src[i] {
		case '\\':
			escaped = true
		case '"':
			s, err := literal.Unescape(src[1:i])
			if err != nil {
				if p, ok := err.(positioned); ok {
					p.Offset(1)
				}
				return parsing.Unmatched[Token](), wrap(BadString, err, i+1)
			}
			return parsing.Matched(NewString(s), i+1), nil
		}
	}
	return parsing.Unmatched[Token](), &Error{Kind: UnexpectedEOF, Region: text.Span{Len: 1}}
}

// parseNumeral reads an integer or float literal. The shape is decided
// here; the value (and its errors) come from the literal package.
func parseNumeral(src string) (parsing.Outcome[Token], error) {
	n, isFloat := scanNumeral(src)
	if isFloat {
		f, err := literal.ParseFloat(src[:n])
		if err != nil {
			return parsing.Unmatched[Token](), wrap(BadFloat, err, n)
		}
		return parsing.Matched(NewFloat(f), n), nil
	}

	v, err := literal.ParseInt(src[:n])
	if err != nil {
		return parsing.Unmatched[Token](), wrap(BadInt, err, n)
	}
	return parsing.Matched(NewInt(v), n), nil
}

// scanNumeral returns the length of the numeral at the start of src and
// whether it has float shape. Whatever follows the numeral starts the next
// token, so 12abc is an integer then an identifier.
//
// A lone 0 followed by b, o, d or x takes the prefix and the following
// identifier characters, so bad digits are reported by the base parser.
// After a dot the fraction runs over digits, underscores, one e or E and a
// sign directly after it. The dot makes a float only if that run holds a
// digit: 1.e5 and 1.e-5 are floats while 1.foo and 1..2 end the integer
// before the dot.
func scanNumeral(src string) (int, bool) {
	i := scanRun(src, 0, &isNumeralPart)
	if i == 1 && src[0] == '0' && i < len(src) && src[i] < 128 && isRadix[src[i]] {
		return scanRun(src, i+1, &isIdentPart), false
	}
	if i >= len(src) || src[i] != '.' {
		return i, false
	}

	j := i + 1
	sawDigit, sawMarker := false, false
scan:
	for ; j < len(src); j++ {
		switch ch := src[j]; {
		case ch < 128 && isDigit[ch]:
			sawDigit = true
		case ch == '_':
		case (ch == 'e' || ch == 'E') && !sawMarker:
			sawMarker = true
			if j+1 < len(src) && (src[j+1] == '+' || src[j+1] == '-') {
				j++
			}
		default:
			break scan
		}
	}
	if !sawDigit {
		return i, false
	}
	return j, true
}

func scanRun(src string, i int, class *[128]bool) int {
	for i < len(src) && src[i] < 128 && class[src[i]] {
		i++
	}
	return i
}

func parsePunctuation(src string) (parsing.Outcome[Token], error) {
	ch := src[0]
	if ch >= 128 || !isPunctuation[ch] {
		return parsing.Unmatched[Token](), nil
	}
	return parsing.Matched(NewSpecial(punctuation[ch]), 1), nil
}
