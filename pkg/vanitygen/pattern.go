package vanitygen

import "regexp"

// Pattern is a literal address prefix or a regular expression.
type Pattern struct {
	literal string
	re      *regexp.Regexp
}

func Literal(prefix string) Pattern { return Pattern{literal: prefix} }

func Regexp(re *regexp.Regexp) Pattern { return Pattern{re: re} }

// MustCompile is Regexp(regexp.MustCompile(expr)).
func MustCompile(expr string) Pattern { return Regexp(regexp.MustCompile(expr)) }

// Literals wraps each prefix with Literal.
func Literals(prefixes ...string) []Pattern {
	out := make([]Pattern, len(prefixes))
	for i, p := range prefixes {
		out[i] = Literal(p)
	}
	return out
}

func (p Pattern) IsRegexp() bool { return p.re != nil }

// Source is the text passed to the tool: the prefix, or the expression source.
func (p Pattern) Source() string {
	if p.re != nil {
		return p.re.String()
	}
	return p.literal
}

func (p Pattern) String() string {
	if p.re != nil {
		return "/" + p.re.String() + "/"
	}
	return p.literal
}

// checkPatternSet reports whether the set is all regexp; mixing kinds is an error.
func checkPatternSet(patterns []Pattern) (regex bool, err error) {
	if len(patterns) == 0 {
		return false, nil
	}
	regex = patterns[0].IsRegexp()
	for _, p := range patterns[1:] {
		if p.IsRegexp() != regex {
			return false, ErrInvalidPatternSet
		}
	}
	return regex, nil
}
