// Package reference parses free-form Italian scripture citations into
// structured references. All operations are total: unresolvable book names and
// malformed verse specifiers degrade to "no reference" instead of returning
// errors, so messy real-world text never breaks the calling flow.
package reference

import (
	"fmt"
	"regexp"
	"strings"
)

// Ref is a structured scripture reference. Chapter, V1 and V2 are nil when
// unknown. If V1 is set V2 is also set (equal to V1 for a single verse), and a
// nil Chapter always comes with nil verses.
type Ref struct {
	Book    string `json:"book"`
	Chapter *int   `json:"chapter,omitempty"`
	V1      *int   `json:"v1,omitempty"`
	V2      *int   `json:"v2,omitempty"`

	// Raw is the original matched snippet, kept for display and diagnostics
	// only. It never takes part in comparisons.
	Raw string `json:"raw,omitempty"`
}

// String renders the reference in the canonical "book chapter,v1-v2" form.
func (r Ref) String() string {
	var b strings.Builder
	b.WriteString(r.Book)
	if r.Chapter != nil {
		fmt.Fprintf(&b, " %d", *r.Chapter)
		if r.V1 != nil {
			if r.V2 != nil && *r.V2 != *r.V1 {
				fmt.Fprintf(&b, ",%d-%d", *r.V1, *r.V2)
			} else {
				fmt.Fprintf(&b, ",%d", *r.V1)
			}
		}
	}
	return b.String()
}

// refKey is the semantic identity of a reference, used for de-duplication.
// Raw is deliberately excluded.
type refKey struct {
	book       string
	chapter    int
	v1, v2     int
	hasChapter bool
	hasVerses  bool
}

func (r Ref) key() refKey {
	k := refKey{book: r.Book}
	if r.Chapter != nil {
		k.hasChapter = true
		k.chapter = *r.Chapter
	}
	if r.V1 != nil {
		k.hasVerses = true
		k.v1 = *r.V1
		if r.V2 != nil {
			k.v2 = *r.V2
		} else {
			k.v2 = *r.V1
		}
	}
	return k
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// cleanSpaces trims the string and collapses internal whitespace runs into
// single spaces.
func cleanSpaces(s string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

func intPtr(n int) *int {
	return &n
}
