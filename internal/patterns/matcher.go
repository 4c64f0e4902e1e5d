package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"VanityTools/pkg/config"
)

type MatchResult struct {
	Kind  string // literal|regexp
	Index int
}

// Matcher re-checks addresses delivered by the tool against the search set,
// so a misbehaving tool cannot slip an unrelated address into the results.
type Matcher struct {
	caseInsensitive bool
	literal         []string
	regexp          []*regexp.Regexp
}

func NewMatcher(cfg *config.PatternsConfig) (*Matcher, error) {
	m := &Matcher{caseInsensitive: cfg.CaseInsensitive}
	for _, p := range cfg.Literal {
		if m.caseInsensitive {
			p = strings.ToLower(p)
		}
		m.literal = append(m.literal, p)
	}
	for i, expr := range cfg.Regexp {
		if m.caseInsensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("regexp[%d]: %w", i, err)
		}
		m.regexp = append(m.regexp, re)
	}
	return m, nil
}

func (m *Matcher) MatchAddress(addr string) *MatchResult {
	check := addr
	if m.caseInsensitive {
		check = strings.ToLower(check)
	}

	for i, pre := range m.literal {
		if strings.HasPrefix(check, pre) {
			return &MatchResult{Kind: "literal", Index: i}
		}
	}

	for i, re := range m.regexp {
		if re.MatchString(addr) {
			return &MatchResult{Kind: "regexp", Index: i}
		}
	}
	return nil
}
