// Package literal decodes the bodies of numeric and string literals.
//
// Numerals are parsed into math/big values and floats are kept as an exact
// (mantissa, base-10 exponent) pair: no binary floating point is involved at
// any step, so a downstream consumer can round to whatever target type it
// needs exactly once.
//
// All errors carry positions relative to the string handed to the parser.
// Callers embedding a literal in a larger text rebase them with Offset.
package literal

import (
	"fmt"
	"math/big"
	"strings"
)

// Float is the exact value Mantissa * 10^Exponent.
type Float struct {
	Mantissa *big.Int // never negative
	Exponent *big.Int
}

// Rat returns the exact rational value of f.
func (f Float) Rat() *big.Rat {
	r := new(big.Rat).SetInt(f.Mantissa)
	if f.Exponent.Sign() == 0 {
		return r
	}
	scale := new(big.Int).Exp(big.NewInt(10), new(big.Int).Abs(f.Exponent), nil)
	if f.Exponent.Sign() > 0 {
		return r.Mul(r, new(big.Rat).SetInt(scale))
	}
	return r.Quo(r, new(big.Rat).SetInt(scale))
}

// Equal reports whether f and g have the same mantissa and exponent.
// 10e-1 and 1e0 are not Equal even though their values are.
func (f Float) Equal(g Float) bool {
	return f.Mantissa.Cmp(g.Mantissa) == 0 && f.Exponent.Cmp(g.Exponent) == 0
}

func (f Float) String() string {
	return fmt.Sprintf("%se%s", f.Mantissa, f.Exponent)
}

// digitValue returns the value of ch in base, or -1 if ch is not a digit of base.
func digitValue(ch rune, base int) int {
	var v int
	switch {
	case '0' <= ch && ch <= '9':
		v = int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		v = int(ch-'a') + 10
	case 'A' <= ch && ch <= 'F':
		v = int(ch-'A') + 10
	default:
		return -1
	}
	if v >= base {
		return -1
	}
	return v
}

// parseBase folds the digits of s in the given base, skipping interior
// underscores.
func parseBase(s string, base int) (*big.Int, error) {
	if s == "" {
		return nil, intErr(ZeroLength, 0)
	}
	if s[0] == '_' {
		return nil, intErr(InvalidChar, 0)
	}
	if s[len(s)-1] == '_' {
		return nil, intErr(InvalidChar, len(s)-1)
	}

	acc := new(big.Int)
	b := big.NewInt(int64(base))
	digit := new(big.Int)
	for i, ch := range s {
		if ch == '_' {
			continue
		}
		v := digitValue(ch, base)
		if v < 0 {
			return nil, intErr(InvalidChar, i)
		}
		acc.Mul(acc, b)
		acc.Add(acc, digit.SetInt64(int64(v)))
	}
	return acc, nil
}

// ParseBinary parses base-2 digits with optional interior underscores.
func ParseBinary(s string) (*big.Int, error) { return parseBase(s, 2) }

// ParseOctal parses base-8 digits with optional interior underscores.
func ParseOctal(s string) (*big.Int, error) { return parseBase(s, 8) }

// ParseDecimal parses base-10 digits with optional interior underscores.
func ParseDecimal(s string) (*big.Int, error) { return parseBase(s, 10) }

// ParseHexadecimal parses base-16 digits (either case) with optional interior
// underscores.
func ParseHexadecimal(s string) (*big.Int, error) { return parseBase(s, 16) }

// ParseInt parses an unsigned integer literal. A leading 0b, 0o, 0d or 0x
// selects the base; anything else is decimal. Errors are relative to s,
// including the two prefix bytes.
func ParseInt(s string) (*big.Int, error) {
	if len(s) >= 2 && s[0] == '0' {
		var parse func(string) (*big.Int, error)
		switch s[1] {
		case 'b':
			parse = ParseBinary
		case 'o':
			parse = ParseOctal
		case 'd':
			parse = ParseDecimal
		case 'x':
			parse = ParseHexadecimal
		}
		if parse != nil {
			v, err := parse(s[2:])
			if err != nil {
				err.(*IntError).Offset(2)
				return nil, err
			}
			return v, nil
		}
	}
	return ParseDecimal(s)
}

// ParseFloat parses a decimal float literal of the form
// int '.' [fraction] [('e'|'E') ['+'|'-'] exponent].
// The result is exact: "12.3e4" is Mantissa 123, Exponent 3.
func ParseFloat(s string) (Float, error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return Float{}, &FloatError{Kind: NoDecimalDot, Region: spanOf(0, len(s))}
	}

	mantissa, err := ParseDecimal(s[:dot])
	if err != nil {
		return Float{}, badNumber(err.(*IntError), 0)
	}

	fracStart := dot + 1
	fracEnd := len(s)
	marker := strings.IndexAny(s[fracStart:], "eE")
	if marker >= 0 {
		fracEnd = fracStart + marker
	}

	fraction := s[fracStart:fracEnd]
	digits := int64(len(fraction) - strings.Count(fraction, "_"))
	if fraction != "" {
		fv, err := ParseDecimal(fraction)
		if err != nil {
			return Float{}, badNumber(err.(*IntError), fracStart)
		}
		shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)
		mantissa.Mul(mantissa, shift)
		mantissa.Add(mantissa, fv)
	}

	exponent := big.NewInt(-digits)
	if marker >= 0 {
		suffix, err := parseExponent(s, fracEnd+1)
		if err != nil {
			return Float{}, err
		}
		exponent.Add(exponent, big.NewInt(suffix))
	}

	return Float{Mantissa: mantissa, Exponent: exponent}, nil
}

// parseExponent parses the signed exponent suffix of s starting at start.
func parseExponent(s string, start int) (int64, error) {
	sign := int64(1)
	digitsStart := start
	if digitsStart < len(s) && (s[digitsStart] == '+' || s[digitsStart] == '-') {
		if s[digitsStart] == '-' {
			sign = -1
		}
		digitsStart++
	}
	if digitsStart == len(s) {
		return 0, badNumber(intErr(ZeroLength, 0), len(s))
	}

	digits := s[digitsStart:]
	v, err := ParseDecimal(digits)
	if err != nil {
		return 0, badNumber(err.(*IntError), digitsStart)
	}
	if !v.IsInt64() {
		return 0, &FloatError{Kind: ExponentTooLarge, Region: spanOf(digitsStart, len(digits))}
	}
	return sign * v.Int64(), nil
}
