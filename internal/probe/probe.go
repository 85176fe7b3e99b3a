// Package probe implements the structural probing used by every extraction
// stage: an ordered list of candidate selectors is tried against a document
// and the first one producing enough matches wins. Probes are ordered from
// most specific to most generic, so stopping at the first hit keeps an overly
// permissive late probe from over-matching once a reliable one succeeded.
package probe

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Probe is one candidate selector for an extraction target. MinMatches is the
// arity threshold: a probe only counts as a hit when it yields at least that
// many elements. Zero means one.
type Probe struct {
	Selector   string
	MinMatches int
}

// List builds a probe list from plain selectors, each requiring a single match.
func List(selectors ...string) []Probe {
	probes := make([]Probe, len(selectors))
	for i, s := range selectors {
		probes[i] = Probe{Selector: s}
	}
	return probes
}

// Union joins a probe list into a single comma-separated selector. Evaluating
// the union in one Find yields matches in document order, unlike trying the
// probes one by one, which groups matches by probe.
func Union(probes []Probe) string {
	selectors := make([]string, len(probes))
	for i, p := range probes {
		selectors[i] = p.Selector
	}
	return strings.Join(selectors, ", ")
}

// Scope is anything a selector can be evaluated against: a whole document or
// a sub-tree selection.
type Scope interface {
	Find(selector string) *goquery.Selection
}

// First returns the match set of the first probe that hits, or nil when every
// probe misses.
func First(scope Scope, probes []Probe) *goquery.Selection {
	return FirstFunc(scope, probes, nil)
}

// FirstFunc is First with an extra acceptance test: a probe whose match set
// fails the test is skipped and the next probe is tried. A nil test accepts
// every hit.
func FirstFunc(scope Scope, probes []Probe, accept func(*goquery.Selection) bool) *goquery.Selection {
	for _, p := range probes {
		need := p.MinMatches
		if need < 1 {
			need = 1
		}

		sel := scope.Find(p.Selector)
		if sel.Length() < need {
			continue
		}
		if accept != nil && !accept(sel) {
			continue
		}
		return sel
	}
	return nil
}

// FirstText applies the first-hit policy and extracts a string from the
// winning match set: the named attribute of the first element, or, with an
// empty attr, the concatenated text of every matched element. Whitespace is
// collapsed either way. Returns "" when every probe misses.
func FirstText(scope Scope, probes []Probe, attr string) string {
	sel := First(scope, probes)
	if sel == nil {
		return ""
	}
	if attr != "" {
		val, _ := sel.First().Attr(attr)
		return CleanText(val)
	}
	return JoinText(sel)
}

// JoinText concatenates the trimmed text of every element in a selection with
// single spaces.
func JoinText(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := CleanText(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText trims a string and collapses internal whitespace runs to single
// spaces.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
