// Package transcript extracts completed course codes from the text of an
// unofficial transcript. Two shapes are recognized: per-line semester rows
// carrying earned and GPA credit columns, and transfer or test credit blocks
// that wrap the awarded course onto the following line.
package transcript

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// Semester rows start with a subject code (optionally suffixed like
	// "CSE-HN"), the four-digit course number, then anything up to the two
	// three-decimal credit columns. Matching is anchored per line.
	semesterRowRE = regexp.MustCompile(`^([A-Z]{2,4}(?:-[A-Z]{2})?)\s(\d{4}).*?\d+\.\d{3}\s+\d+\.\d{3}`)

	// Transfer and test credits name the awarded course on the line after the
	// "Transferred to Term ..." marker.
	transferRE = regexp.MustCompile(`(?i)Transferred to Term \d{4} (?:Summer|Spring|Fall) as\s*\n\s*([A-Z]{3,4}\s\d{4})`)
)

// ExtractCourses scans transcript text and returns the course codes it
// mentions, sorted and deduplicated. Form feeds are treated as page breaks,
// matching what PDF text extractors emit between pages.
func ExtractCourses(text string) []string {
	return ExtractFromPages(strings.Split(text, "\f"))
}

// ExtractFromPages scans multiple pages of transcript text, merging results
// across pages into one sorted, deduplicated list. Empty pages are skipped.
func ExtractFromPages(pages []string) []string {
	found := make(map[string]bool)
	for _, page := range pages {
		if page == "" {
			continue
		}
		collectCourses(page, found)
	}
	return sortedCodes(found)
}

func collectCourses(text string, found map[string]bool) {
	for _, m := range transferRE.FindAllStringSubmatch(text, -1) {
		found[m[1]] = true
	}

	for _, line := range strings.Split(text, "\n") {
		m := semesterRowRE.FindStringSubmatch(strings.TrimSpace(line))
		if m != nil {
			found[m[1]+" "+m[2]] = true
		}
	}
}

func sortedCodes(found map[string]bool) []string {
	codes := make([]string, 0, len(found))
	for code := range found {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
