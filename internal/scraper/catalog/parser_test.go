package catalog

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const departmentPage = `<html><body>
<div class="courseblock">
  <p class="courseblocktitle">CSE 1310.  INTRODUCTION TO COMPUTERS &amp; PROGRAMMING.    (3-2) 3</p>
  <p class="courseblockdesc">Introduction to programming concepts. No prior experience required.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle">CSE 2320.  ALGORITHMS AND DATA STRUCTURES.    (3-0) 3</p>
  <p class="courseblockdesc">Design of algorithms. Prerequisite: CSE 1320 and MATH 1426.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle">CSE 3310.  FUNDAMENTALS OF SOFTWARE ENGINEERING.  (3-0) 3</p>
  <p class="courseblockdesc">Software processes. Prerequisite: CSE 2320. Corequisite: CSE 3315.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle">Garbage title without separator</p>
  <p class="courseblockdesc">Should be skipped.</p>
</div>
<div class="courseblock">
  <p class="courseblocktitle">CSE 5311.  ADVANCED ALGORITHMS.  (3-0) 3</p>
  <p class="courseblockdesc">Graduate level. Prerequisite: CSE 2320.</p>
</div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParsePage(t *testing.T) {
	courses := ParsePage(parseDoc(t, departmentPage), RegexSplitter{})

	if len(courses) != 3 {
		t.Fatalf("parsed %d courses, want 3 (graduate cutoff and malformed title)", len(courses))
	}

	if courses[0].Code != "CSE 1310" || courses[0].Name != "INTRODUCTION TO COMPUTERS & PROGRAMMING." {
		t.Errorf("course 0 = %q / %q", courses[0].Code, courses[0].Name)
	}
	if len(courses[0].Prereqs) != 0 || len(courses[0].Coreqs) != 0 {
		t.Errorf("course 0 requisites = %v / %v, want none", courses[0].Prereqs, courses[0].Coreqs)
	}

	if want := []string{"CSE 1320", "MATH 1426"}; !reflect.DeepEqual(courses[1].Prereqs, want) {
		t.Errorf("course 1 prereqs = %v, want %v", courses[1].Prereqs, want)
	}

	if want := []string{"CSE 2320"}; !reflect.DeepEqual(courses[2].Prereqs, want) {
		t.Errorf("course 2 prereqs = %v, want %v", courses[2].Prereqs, want)
	}
	if want := []string{"CSE 3315"}; !reflect.DeepEqual(courses[2].Coreqs, want) {
		t.Errorf("course 2 coreqs = %v, want %v", courses[2].Coreqs, want)
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantCode string
		wantName string
		wantOK   bool
		wantGrad bool
	}{
		{"Standard", "CSE 1320.  INTERMEDIATE PROGRAMMING.    (3-2) 3", "CSE 1320", "INTERMEDIATE PROGRAMMING.", true, false},
		{"NBSP in code", "CSE\u00a01310.  INTRO.  (3-0) 3", "CSE 1310", "INTRO.", true, false},
		{"Graduate number", "CSE 5311.  ADVANCED ALGORITHMS.  (3-0) 3", "", "", false, true},
		{"No period", "CSE 1310 INTRO", "", "", false, false},
		{"No digits", "SEMINAR. TOPICS VARY", "", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, name, ok, grad := parseTitle(tt.in)
			if code != tt.wantCode || name != tt.wantName || ok != tt.wantOK || grad != tt.wantGrad {
				t.Errorf("parseTitle(%q) = (%q, %q, %v, %v), want (%q, %q, %v, %v)",
					tt.in, code, name, ok, grad, tt.wantCode, tt.wantName, tt.wantOK, tt.wantGrad)
			}
		})
	}
}

func TestExtractRequisitesModeSwitching(t *testing.T) {
	desc := "Covers dynamics. Prerequisite: CE 2313 and MATH 2425. " +
		"Corequisite: CE 3302. Prerequisite: PHYS 1443."

	prereqs, coreqs := extractRequisites(desc, RegexSplitter{})

	if want := []string{"CE 2313", "MATH 2425", "PHYS 1443"}; !reflect.DeepEqual(prereqs, want) {
		t.Errorf("prereqs = %v, want %v", prereqs, want)
	}
	if want := []string{"CE 3302"}; !reflect.DeepEqual(coreqs, want) {
		t.Errorf("coreqs = %v, want %v", coreqs, want)
	}
}

func TestExtractRequisitesLeadingCorequisite(t *testing.T) {
	desc := "Laboratory course. Concurrent enrollment in CHEM 1441 is required."

	prereqs, coreqs := extractRequisites(desc, RegexSplitter{})
	if len(prereqs) != 0 {
		t.Errorf("prereqs = %v, want none", prereqs)
	}
	if want := []string{"CHEM 1441"}; !reflect.DeepEqual(coreqs, want) {
		t.Errorf("coreqs = %v, want %v", coreqs, want)
	}
}

func TestExtractRequisitesNoKeywords(t *testing.T) {
	prereqs, coreqs := extractRequisites("Introductory survey. Mentions CSE 1310 in passing.", RegexSplitter{})
	if len(prereqs) != 0 || len(coreqs) != 0 {
		t.Errorf("requisites without keywords = %v / %v, want none", prereqs, coreqs)
	}
}

func TestFormatPrerequisitesORGroups(t *testing.T) {
	desc := "Prerequisite: CSE 2320, and MATH 3133 or IE 3301."
	prereqs := []string{"CSE 2320", "IE 3301", "MATH 3133"}

	got := FormatPrerequisites(prereqs, desc)
	if want := "CSE 2320, MATH 3133|IE 3301"; got != want {
		t.Errorf("FormatPrerequisites() = %q, want %q", got, want)
	}
}

func TestFormatPrerequisitesORPairNotInSet(t *testing.T) {
	// The description pairs two courses, but only one is a prerequisite;
	// no OR group forms.
	desc := "Prerequisite: MATH 3133. Students may also take MATH 3133 or IE 3301 later."
	got := FormatPrerequisites([]string{"MATH 3133"}, desc)
	if want := "MATH 3133"; got != want {
		t.Errorf("FormatPrerequisites() = %q, want %q", got, want)
	}
}

func TestFormatPrerequisitesEmpty(t *testing.T) {
	if got := FormatPrerequisites(nil, "whatever"); got != "" {
		t.Errorf("FormatPrerequisites(nil) = %q, want empty", got)
	}
}

func TestRegexSplitter(t *testing.T) {
	got := RegexSplitter{}.Split("First sentence. Second one! Third?")
	want := []string{"First sentence.", "Second one!", "Third?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}
