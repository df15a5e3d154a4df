package catalog

import (
	"regexp"
	"strings"
)

// SentenceSplitter segments a requisite block into sentences. The requisite
// state machine walks sentences in order, so splitting quality directly
// affects prereq/coreq classification.
type SentenceSplitter interface {
	Split(text string) []string
}

// sentenceRE captures runs of text up to and including a terminal punctuation
// mark. Abbreviation periods inside course titles are rare in requisite
// blocks, so a regex segmenter holds up well there.
var sentenceRE = regexp.MustCompile(`[^.!?]+[.!?]*`)

// RegexSplitter is the default SentenceSplitter.
type RegexSplitter struct{}

// Split breaks text into sentences on terminal punctuation. Whitespace-only
// segments are dropped.
func (RegexSplitter) Split(text string) []string {
	matches := sentenceRE.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
