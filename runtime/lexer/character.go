package lexer

// ASCII character lookup tables. Use the inline bounds-checked form:
//
//	if ch < 128 && isDigit[ch] { ... }
//
// Bytes >= 128 never start a token; they only appear inside strings and
// comments.
var (
	isWhitespace  [128]bool // Space, tab, newline, form feed, carriage return
	isLetter      [128]bool // a-z, A-Z, _
	isDigit       [128]bool // 0-9
	isIdentStart  [128]bool // Letter or _
	isIdentPart   [128]bool // Letter, digit or _
	isNumeralPart [128]bool // Digit or _
	isRadix       [128]bool // b, o, d, x after a leading 0
	punctuation   [128]SpecialChar
	isPunctuation [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\n' || ch == '\f' || ch == '\r'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i]
		isNumeralPart[i] = isDigit[i] || ch == '_'
		isRadix[i] = ch == 'b' || ch == 'o' || ch == 'd' || ch == 'x'
	}

	for sc := Dot; sc <= Question; sc++ {
		ch := sc.Symbol()
		punctuation[ch] = sc
		isPunctuation[ch] = true
	}
}

// IsIdentifier reports whether s is a complete identifier token.
func IsIdentifier(s string) bool {
	if s == "" || s[0] >= 128 || !isIdentStart[s[0]] {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] >= 128 || !isIdentPart[s[i]] {
			return false
		}
	}
	return true
}
