package roster

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hspaceRegex matches runs of horizontal whitespace.
var hspaceRegex = regexp.MustCompile(`[ \t]+`)

// wideSpaceRegex matches runs of full-width (ideographic) space.
var wideSpaceRegex = regexp.MustCompile(`\x{3000}+`)

// blankRunRegex matches three or more consecutive newlines.
var blankRunRegex = regexp.MustCompile(`\n{3,}`)

// ruleLineRegex matches decorative rule lines (----, ____, ==== etc.).
var ruleLineRegex = regexp.MustCompile(`^[-_=]{4,}$`)

// pageMarkerRegex matches "Page x/y" page markers, case-insensitive.
var pageMarkerRegex = regexp.MustCompile(`(?i)Page \d+/\d+`)

// NormalizeLines canonicalizes raw roster text and returns the cleaned,
// non-empty lines in order:
//  1. NFKC width normalization (full-width -> half-width)
//  2. Line-ending unification
//  3. Horizontal whitespace collapsed to single spaces
//  4. Vertical whitespace runs capped at one blank line
//  5. Per-line trim; decorative rules and page markers dropped
//
// Deterministic and total: empty input yields an empty slice.
func NormalizeLines(raw string) []string {
	s := norm.NFKC.String(raw)

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = hspaceRegex.ReplaceAllString(s, " ")
	s = wideSpaceRegex.ReplaceAllString(s, " ")
	s = blankRunRegex.ReplaceAllString(s, "\n\n")

	var cleaned []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if ruleLineRegex.MatchString(ln) {
			continue
		}
		if pageMarkerRegex.MatchString(ln) {
			continue
		}
		cleaned = append(cleaned, ln)
	}

	return cleaned
}
