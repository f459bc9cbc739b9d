// Package keywords extracts normalized keyword sets from free text and
// scores the overlap between them.
package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// DefaultMinLength is the minimum rune length for a keyword.
const DefaultMinLength = 3

// Set maps a normalized keyword to the surface form it was first seen
// as. Normalization lowercases and stems plain-alphabetic tokens, so
// "Engineers" and "engineering" collapse onto one entry.
type Set map[string]string

// Contains reports whether the set holds the normalized keyword.
func (s Set) Contains(norm string) bool {
	_, ok := s[norm]
	return ok
}

// Surface returns the stored surface form for a normalized keyword,
// falling back to the normalized form itself.
func (s Set) Surface(norm string) string {
	if surface, ok := s[norm]; ok {
		return surface
	}
	return norm
}

// Extract tokenizes text into a keyword set. minLength <= 0 falls back
// to DefaultMinLength.
//
// Token characters are letters, digits, and '+', '#', '.' so that terms
// like "c++", "c#" and "node.js" survive tokenization. Tokens are
// dropped when they are stop words, contain no letter, or normalize to
// fewer than minLength runes.
func Extract(text string, minLength int) Set {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	set := make(Set)
	var word strings.Builder

	flush := func() {
		if word.Len() == 0 {
			return
		}
		token := strings.TrimRight(word.String(), ".")
		word.Reset()
		addToken(set, token, minLength)
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return set
}

// addToken filters and normalizes a single token into the set.
func addToken(set Set, token string, minLength int) {
	if token == "" || IsStopWord(token) {
		return
	}
	if !containsLetter(token) {
		return
	}

	norm := Normalize(token)
	if len([]rune(norm)) < minLength {
		return
	}
	if IsStopWord(norm) {
		return
	}

	// Keep the first surface form seen.
	if _, ok := set[norm]; !ok {
		set[norm] = token
	}
}

// Normalize returns the canonical form of a lowercase token. Plain
// alphabetic tokens are stemmed; tokens carrying digits or symbols
// ("c++", "node.js", "ec2") are kept verbatim since stemming would
// mangle them.
func Normalize(token string) string {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return token
		}
	}
	return english.Stem(token, false)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Match is the result of comparing a resume keyword set against a job
// description keyword set.
type Match struct {
	// Score is |matched| / |job keywords| x 100, rounded to 2 decimals.
	Score float64

	// Matched holds job keywords present in the resume, sorted.
	Matched []string

	// Missing holds job keywords absent from the resume, sorted.
	Missing []string

	ResumeCount int
	JobCount    int
}

// Compare intersects the resume set with the job set and scores the
// overlap. Surface forms in Matched and Missing come from the job set
// so the report speaks the posting's language. An empty job set yields
// a zero score.
func Compare(resume, job Set) Match {
	m := Match{
		ResumeCount: len(resume),
		JobCount:    len(job),
	}

	for norm := range job {
		if resume.Contains(norm) {
			m.Matched = append(m.Matched, job.Surface(norm))
		} else {
			m.Missing = append(m.Missing, job.Surface(norm))
		}
	}

	sort.Strings(m.Matched)
	sort.Strings(m.Missing)

	if len(job) > 0 {
		raw := float64(len(m.Matched)) / float64(len(job)) * 100
		m.Score = math.Round(raw*100) / 100
	}

	return m
}

// WordCount counts whitespace-separated words, mirroring the word
// counter shown next to the job description input.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
