// Package catalog parses university catalog course-description pages and
// drives department-level scrapes, including recursive pulls of
// out-of-department prerequisites.
package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/smartadvisors/course-advisor-go/internal/stringutil"
)

// Undergraduate course numbers stop here; the first higher-numbered title on
// a page marks the start of the graduate listing.
const maxUndergradNumber = 5000

var (
	// courseRE finds course codes such as "CSE 1310" or "MATH 2425".
	courseRE = regexp.MustCompile(`([A-Z]{2,4})\s(\d{4})`)

	// orPairRE finds "X 1234 or Y 5678" phrasing in descriptions.
	orPairRE = regexp.MustCompile(`(?i)([A-Z]{2,4}\s+\d{4})\s+or\s+([A-Z]{2,4}\s+\d{4})`)

	// numberRE pulls the course number out of a title's code segment.
	numberRE = regexp.MustCompile(`\d+`)

	// creditSuffixRE strips trailing credit-hour annotations such as
	// " (3-2) 3" from course names.
	creditSuffixRE = regexp.MustCompile(`\s+\(.*\)\s*\d*$`)
)

// ParsedCourse is one course block lifted off a catalog page.
type ParsedCourse struct {
	Code        string
	Name        string
	Description string
	Prereqs     []string // sorted unique course codes
	Coreqs      []string // sorted unique course codes
}

// ParsePage extracts the undergraduate course blocks from a department page.
// Title blocks and description blocks are paired by position. Parsing stops
// at the first graduate-level course number; malformed titles are skipped.
func ParsePage(doc *goquery.Document, splitter SentenceSplitter) []ParsedCourse {
	var courses []ParsedCourse

	doc.Find(".courseblocktitle").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		code, name, ok, grad := parseTitle(sel.Text())
		if grad {
			return false
		}
		if !ok {
			return true
		}
		courses = append(courses, ParsedCourse{Code: code, Name: name})
		return true
	})

	doc.Find(".courseblockdesc").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= len(courses) {
			return false
		}
		desc := sel.Text()
		courses[i].Description = strings.TrimSpace(desc)
		prereqs, coreqs := extractRequisites(desc, splitter)
		courses[i].Prereqs = prereqs
		courses[i].Coreqs = coreqs
		return true
	})

	return courses
}

// parseTitle splits a title block like
// "CSE 1320.  INTERMEDIATE PROGRAMMING.    (3-2) 3" into code and name.
// grad reports a course number past the undergraduate range.
func parseTitle(text string) (code, name string, ok, grad bool) {
	head, tail, found := strings.Cut(text, ".")
	if !found {
		return "", "", false, false
	}

	numStr := numberRE.FindString(head)
	if numStr == "" {
		return "", "", false, false
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return "", "", false, false
	}
	if num > maxUndergradNumber {
		return "", "", false, true
	}

	code = stringutil.NormalizeCode(head)
	name = strings.TrimSpace(creditSuffixRE.ReplaceAllString(tail, ""))
	return code, name, true, false
}

// requisite keywords; "concurrent enrollment" phrasing counts as corequisite.
const (
	kwPrereq     = "prerequisite"
	kwCoreq      = "corequisite"
	kwConcurrent = "concurrent"
)

// extractRequisites walks the requisite block of a description sentence by
// sentence, switching between prerequisite and corequisite mode as keywords
// appear, and collects the course codes mentioned under the active mode.
func extractRequisites(description string, splitter SentenceSplitter) (prereqs, coreqs []string) {
	lower := strings.ToLower(description)

	start := -1
	for _, kw := range []string{kwPrereq, kwCoreq, kwConcurrent} {
		if idx := strings.Index(lower, kw); idx != -1 && (start == -1 || idx < start) {
			start = idx
		}
	}
	if start == -1 {
		return nil, nil
	}

	// The leading keyword decides the initial mode.
	coreqMode := false
	head := lower[start:min(start+20, len(lower))]
	if strings.Contains(head, kwCoreq) || strings.Contains(head, kwConcurrent) {
		coreqMode = true
	}

	prereqSet := make(map[string]bool)
	coreqSet := make(map[string]bool)

	for _, sentence := range splitter.Split(description[start:]) {
		sentLower := strings.ToLower(sentence)
		if strings.Contains(sentLower, kwCoreq) || strings.Contains(sentLower, kwConcurrent) {
			coreqMode = true
		} else if strings.Contains(sentLower, kwPrereq) {
			coreqMode = false
		}

		for _, m := range courseRE.FindAllStringSubmatch(sentence, -1) {
			code := m[1] + " " + m[2]
			if coreqMode {
				coreqSet[code] = true
			} else {
				prereqSet[code] = true
			}
		}
	}

	return sortedKeys(prereqSet), sortedKeys(coreqSet)
}

// FormatPrerequisites renders a prerequisite list as a comma-joined string,
// folding pairs phrased as alternatives in the description into single
// pipe-delimited tokens, e.g. "CSE 2320, MATH 3133|IE 3301". Individual
// courses come first in sorted order, then OR groups in description order.
func FormatPrerequisites(prereqs []string, description string) string {
	if len(prereqs) == 0 {
		return ""
	}

	remaining := make(map[string]bool, len(prereqs))
	for _, p := range prereqs {
		remaining[p] = true
	}

	var orGroups []string
	for _, m := range orPairRE.FindAllStringSubmatch(description, -1) {
		first := stringutil.NormalizeCode(m[1])
		second := stringutil.NormalizeCode(m[2])
		if remaining[first] && remaining[second] {
			orGroups = append(orGroups, first+"|"+second)
			delete(remaining, first)
			delete(remaining, second)
		}
	}

	parts := sortedKeys(remaining)
	parts = append(parts, orGroups...)
	return strings.Join(parts, ", ")
}

// FormatCorequisites renders a corequisite list as a comma-joined string.
func FormatCorequisites(coreqs []string) string {
	return strings.Join(coreqs, ", ")
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
