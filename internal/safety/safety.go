// Package safety is the second barrier against forbidden topics. The
// extraction prompts already instruct the upstream capability to drop
// them, but the rendered text is scanned here deterministically and
// unconditionally before it ever leaves the pipeline.
package safety

import (
	"fmt"
	"regexp"
)

// defaultPatterns are the forbidden-term patterns: seating, insurance,
// refunds, money, passports, the domestic-rail abbreviation (whole
// word), internal-operations jargon.
var defaultPatterns = []string{
	`座席`,
	`並び席`,
	`保険`,
	`返金`,
	`金銭`,
	`旅券`,
	`\bJR\b`,
	`社内進行`,
}

// Filter scans text against a compiled forbidden-pattern list.
type Filter struct {
	patterns []*regexp.Regexp
}

// New compiles the default forbidden patterns plus any extra patterns
// from configuration. Extra patterns that fail to compile are an error.
func New(extra ...string) (*Filter, error) {
	src := make([]string, 0, len(defaultPatterns)+len(extra))
	src = append(src, defaultPatterns...)
	src = append(src, extra...)

	patterns := make([]*regexp.Regexp, 0, len(src))
	for _, pat := range src {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("forbidden pattern %q: %w", pat, err)
		}
		patterns = append(patterns, re)
	}
	return &Filter{patterns: patterns}, nil
}

var defaultFilter = func() *Filter {
	f, err := New()
	if err != nil {
		panic(err)
	}
	return f
}()

// Default returns the filter with only the built-in patterns.
func Default() *Filter {
	return defaultFilter
}

// Contains reports whether any forbidden term occurs in text.
func (f *Filter) Contains(text string) bool {
	for _, re := range f.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// FindAll returns the matched text of every forbidden pattern found,
// one entry per matching pattern, in pattern order.
func (f *Filter) FindAll(text string) []string {
	var hits []string
	for _, re := range f.patterns {
		if m := re.FindString(text); m != "" {
			hits = append(hits, m)
		}
	}
	return hits
}

// ContainsForbidden checks text against the built-in pattern list.
func ContainsForbidden(text string) bool {
	return Default().Contains(text)
}

// FindAllForbidden returns all built-in pattern matches in text.
func FindAllForbidden(text string) []string {
	return Default().FindAll(text)
}
