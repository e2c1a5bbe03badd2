package reference

import (
	"regexp"
	"strconv"
	"strings"
)

// Extractor recognizes one citation style and extracts every non-overlapping
// reference it can find in the text. New citation styles are added by
// implementing this interface and appending to defaultExtractors; existing
// grammars stay untouched.
type Extractor interface {
	Extract(text string) []Ref
}

var defaultExtractors = []Extractor{
	abbreviatedExtractor{},
	discursiveExtractor{},
}

// Parse extracts all scripture references from free text. Both grammars run
// over the whole input and their results are concatenated, then de-duplicated
// by (book, chapter, v1, v2) keeping the first occurrence. Unparseable input
// yields an empty slice, never an error.
func Parse(text string) []Ref {
	t := cleanSpaces(text)

	var refs []Ref
	for _, ex := range defaultExtractors {
		refs = append(refs, ex.Extract(t)...)
	}
	return dedupe(refs)
}

// Regex patterns for the two citation grammars. The verse specifier
// alternatives mirror the shapes found on the site: "15-16" (ASCII hyphen or
// en dash), "15 e 16", a bare "15", or "ss" ("e seguenti", verses unknown).
var (
	// Abbreviated style: "Is 12,4-6", "Rm 8,15-17", "Sal 65", "1 Cor 15".
	abbreviatedPattern = regexp.MustCompile(
		`(?i)\b((?:[12]\s*)?[A-Za-zÀ-ÖØ-öø-ÿ.]{1,10})\s+` +
			`(\d{1,3})` +
			`(?:\s*,\s*([\d\-–]+|\d+(?:\s*e\s*\d+)?|ss))?`)

	// Discursive style: "Isaia dal capitolo 30 vv 15 e 16".
	discursivePattern = regexp.MustCompile(
		`\b([A-Za-zà-öø-ÿ\s]+?)\s+dal\s+capitolo\s+(\d{1,3})` +
			`(?:\s+v{1,2}\s+([\d\s\-–e]+))?`)

	verseRangePattern  = regexp.MustCompile(`^(\d+)\s*[-–]\s*(\d+)$`)
	versePairPattern   = regexp.MustCompile(`^(\d+)\s*e\s*(\d+)$`)
	verseSinglePattern = regexp.MustCompile(`^\d+$`)
)

// abbreviatedExtractor recognizes the canonical "Cfr. Is 12,4-6" citation
// style: a short book token, a chapter number and an optional verse specifier
// after a comma.
type abbreviatedExtractor struct{}

func (abbreviatedExtractor) Extract(text string) []Ref {
	var refs []Ref
	for _, m := range abbreviatedPattern.FindAllStringSubmatch(text, -1) {
		bookRaw := cleanSpaces(m[1])

		// Resolve with spaces stripped first ("1 Cor" -> "1cor"), then with
		// the original spacing; the tables carry both conventions.
		key, ok := NormalizeBook(strings.ReplaceAll(strings.ToLower(bookRaw), " ", ""))
		if !ok {
			key, ok = NormalizeBook(bookRaw)
		}
		if !ok {
			continue
		}

		chapter, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		v1, v2 := parseVerseSpec(m[3])
		refs = append(refs, Ref{
			Book:    key,
			Chapter: intPtr(chapter),
			V1:      v1,
			V2:      v2,
			Raw:     m[0],
		})
	}
	return refs
}

// discursiveExtractor recognizes the spelled-out "Isaia dal capitolo 30 vv 15
// e 16" style: a book name phrase, the "dal capitolo" marker, and an optional
// "v"/"vv" verse clause.
type discursiveExtractor struct{}

func (discursiveExtractor) Extract(text string) []Ref {
	low := strings.ToLower(text)

	var refs []Ref
	for _, m := range discursivePattern.FindAllStringSubmatch(low, -1) {
		key, ok := NormalizeBook(cleanSpaces(m[1]))
		if !ok {
			continue
		}

		chapter, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		v1, v2 := parseVerseSpec(m[3])
		refs = append(refs, Ref{
			Book:    key,
			Chapter: intPtr(chapter),
			V1:      v1,
			V2:      v2,
			Raw:     m[0],
		})
	}
	return refs
}

// parseVerseSpec interprets a captured verse specifier. The three recognized
// shapes are tried in order: "N-M", "N e M", then a bare "N" (single verse).
// Anything else, including "ss" and an absent specifier, means the verses are
// unknown.
func parseVerseSpec(spec string) (v1, v2 *int) {
	spec = strings.ToLower(cleanSpaces(spec))
	if spec == "" || spec == "ss" {
		return nil, nil
	}

	if m := verseRangePattern.FindStringSubmatch(spec); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		return intPtr(a), intPtr(b)
	}
	if m := versePairPattern.FindStringSubmatch(spec); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		return intPtr(a), intPtr(b)
	}
	if verseSinglePattern.MatchString(spec) {
		n, _ := strconv.Atoi(spec)
		return intPtr(n), intPtr(n)
	}
	return nil, nil
}

// dedupe drops references whose (book, chapter, v1, v2) identity was already
// seen, preserving order. Raw text plays no part in the comparison.
func dedupe(refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}

	seen := make(map[refKey]struct{}, len(refs))
	uniq := make([]Ref, 0, len(refs))
	for _, r := range refs {
		k := r.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, r)
	}
	return uniq
}
