package loader

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify derives an entry slug from its path relative to the collection
// directory. The extension is dropped, an index file takes its directory's
// name, and each segment is lowercased with whitespace turned into dashes.
// Characters other than letters, digits, '-', '_' and '.' are removed.
// Non-ASCII letters are kept; feed.EntryLink percent-encodes them. The result
// is empty when no segment has an allowed character.
func Slugify(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if dir, base := path.Split(rel); base == "index" && dir != "" {
		rel = strings.TrimSuffix(dir, "/")
	}

	segments := strings.Split(rel, "/")
	out := segments[:0]
	for _, seg := range segments {
		if s := slugifySegment(seg); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

func slugifySegment(seg string) string {
	var b strings.Builder
	dash := false
	for _, r := range cases.Lower(language.Und).String(strings.TrimSpace(seg)) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			dash = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
