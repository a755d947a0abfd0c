// Package parse extracts structured data from free-text model output.
// The model is instructed to follow a format but nothing guarantees it
// does, so every function here degrades to an empty or partial result
// instead of failing.
package parse

import (
	"regexp"
	"strings"
)

// NoRecommendations is the placeholder for a discover-more section whose
// heading never appeared in the response.
const NoRecommendations = "No specific recommendations found."

// Lineage is one offered path: a display name and a one-line summary.
// Both are opaque display text.
type Lineage struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Discoveries is the three-section follow-up breakdown.
type Discoveries struct {
	Books  string `json:"books"`
	Places string `json:"places"`
	Music  string `json:"music"`
}

// lineagePattern matches "**Name**: summary" on a single line.
var lineagePattern = regexp.MustCompile(`\*\*(.+?)\*\*\s*:\s*(.+)`)

// Lineages scans text for bold-heading-colon-summary lines and returns
// them in order of first appearance. A repeated name overwrites the
// earlier summary but keeps its original position. Lines that do not
// match are ignored; unparseable input yields an empty slice.
func Lineages(text string) []Lineage {
	matches := lineagePattern.FindAllStringSubmatch(text, -1)
	out := make([]Lineage, 0, len(matches))
	seen := make(map[string]int, len(matches))

	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		summary := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		if i, ok := seen[name]; ok {
			out[i].Summary = summary
			continue
		}
		seen[name] = len(out)
		out = append(out, Lineage{Name: name, Summary: summary})
	}
	return out
}

// Heading patterns are line-anchored so the keywords appearing inside
// ordinary prose never start a section.
var (
	booksHeading  = regexp.MustCompile(`(?mi)^\s*(?:#{1,6}\s*)?\*{0,2}Books\*{0,2}:?\s*$`)
	placesHeading = regexp.MustCompile(`(?mi)^\s*(?:#{1,6}\s*)?\*{0,2}Places\*{0,2}:?\s*$`)
	musicHeading  = regexp.MustCompile(`(?mi)^\s*(?:#{1,6}\s*)?\*{0,2}Music\*{0,2}:?\s*$`)
)

// DiscoverMore splits text on the three fixed headings (books, places,
// music) and returns the content between each heading and the next. Any
// section whose heading is absent, or that is empty, gets the
// NoRecommendations placeholder.
func DiscoverMore(text string) Discoveries {
	locs := make([][]int, 3)
	for i, re := range []*regexp.Regexp{booksHeading, placesHeading, musicHeading} {
		locs[i] = re.FindStringIndex(text)
	}

	section := func(i int) string {
		if locs[i] == nil {
			return NoRecommendations
		}
		start := locs[i][1]
		end := len(text)
		for j := 0; j < 3; j++ {
			if j == i || locs[j] == nil {
				continue
			}
			if locs[j][0] >= start && locs[j][0] < end {
				end = locs[j][0]
			}
		}
		content := strings.TrimSpace(text[start:end])
		if content == "" {
			return NoRecommendations
		}
		return content
	}

	return Discoveries{
		Books:  section(0),
		Places: section(1),
		Music:  section(2),
	}
}

// GuideName reduces a guide-selection response to a display name. The
// model is told to answer with only a name; whatever comes back is
// trimmed and accepted verbatim.
func GuideName(text string) string {
	return strings.TrimSpace(text)
}
