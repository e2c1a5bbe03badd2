package reference

import (
	"regexp"
	"strings"
)

// bookAliases maps full Italian book names and common short forms to canonical
// book keys. It covers the Old and New Testament books actually cited in the
// song catalog, not the whole canon.
var bookAliases = map[string]string{
	// Antico Testamento
	"genesi":              "gen",
	"gen":                 "gen",
	"gn":                  "gen",
	"esodo":               "es",
	"es":                  "es",
	"numeri":              "nm",
	"nm":                  "nm",
	"deuteronomio":        "dt",
	"dt":                  "dt",
	"giosuè":              "gs",
	"gs":                  "gs",
	"giudici":             "gd",
	"gd":                  "gd",
	"tobia":               "tb",
	"tb":                  "tb",
	"salmi":               "sal",
	"salmo":               "sal",
	"sal":                 "sal",
	"qoelet":              "qo",
	"qo":                  "qo",
	"ecclesiaste":         "qo",
	"cantico dei cantici": "ct",
	"cantico":             "ct",
	"ct":                  "ct",
	"isaia":               "is",
	"is":                  "is",
	"geremia":             "ger",
	"ger":                 "ger",
	"jr":                  "ger",
	"lamentazioni":        "lam",
	"lam":                 "lam",
	"ezechiele":           "ez",
	"ez":                  "ez",
	"daniele":             "dn",
	"dn":                  "dn",

	// Nuovo Testamento
	"matteo":              "mt",
	"mt":                  "mt",
	"marco":               "mc",
	"mc":                  "mc",
	"luca":                "lc",
	"lc":                  "lc",
	"giovanni":            "gv",
	"gv":                  "gv",
	"atti":                "at",
	"at":                  "at",
	"atti degli apostoli": "at",
	"romani":              "rm",
	"rom":                 "rm",
	"rm":                  "rm",
	"1 corinzi":           "1cor",
	"1cor":                "1cor",
	"i corinzi":           "1cor",
	"2 corinzi":           "2cor",
	"2cor":                "2cor",
	"ii corinzi":          "2cor",
	"efesini":             "ef",
	"ef":                  "ef",
	"filippesi":           "fil",
	"fil":                 "fil",
	"colossesi":           "col",
	"col":                 "col",
	"apocalisse":          "ap",
	"ap":                  "ap",
}

// bookShort maps the canonical abbreviations used in "Cfr. Is 12,4-6" style
// citations. Kept separate from bookAliases so the abbreviated grammar can be
// documented against the catalog's own abbreviation conventions.
var bookShort = map[string]string{
	"gen":  "gen",
	"gn":   "gen",
	"es":   "es",
	"nm":   "nm",
	"dt":   "dt",
	"gs":   "gs",
	"gd":   "gd",
	"tb":   "tb",
	"sal":  "sal",
	"qo":   "qo",
	"ct":   "ct",
	"is":   "is",
	"ger":  "ger",
	"jr":   "ger",
	"lam":  "lam",
	"ez":   "ez",
	"dn":   "dn",
	"mt":   "mt",
	"mc":   "mc",
	"lc":   "lc",
	"gv":   "gv",
	"at":   "at",
	"rm":   "rm",
	"1cor": "1cor",
	"2cor": "2cor",
	"ef":   "ef",
	"fil":  "fil",
	"col":  "col",
	"ap":   "ap",
}

var (
	chapterWordPattern = regexp.MustCompile(`\bcapitolo\b`)
	verseMarkerPattern = regexp.MustCompile(`\bvv?\b`)
	firstCorinthians   = regexp.MustCompile(`^i\s+corinzi$`)
	secondCorinthians  = regexp.MustCompile(`^ii\s+corinzi$`)
)

// NormalizeBook resolves a free-text book name or abbreviation to its
// canonical key. The second return value is false when the token does not name
// a known book; callers treat that as "skip this candidate", never as an
// error.
func NormalizeBook(token string) (string, bool) {
	t := strings.ToLower(cleanSpaces(token))
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, "’", "'")
	t = strings.TrimSpace(chapterWordPattern.ReplaceAllString(t, ""))
	t = strings.TrimSpace(verseMarkerPattern.ReplaceAllString(t, ""))
	t = strings.ReplaceAll(t, "lettera ai ", "")
	t = strings.ReplaceAll(t, "lettera agli ", "")
	t = strings.ReplaceAll(t, "vangelo di ", "")

	// "I Corinzi" / "II Corinzi" are cited with roman numerals on the site.
	t = firstCorinthians.ReplaceAllString(t, "1 corinzi")
	t = secondCorinthians.ReplaceAllString(t, "2 corinzi")
	t = cleanSpaces(t)

	if key, ok := bookAliases[t]; ok {
		return key, true
	}
	if key, ok := bookShort[t]; ok {
		return key, true
	}
	return "", false
}
