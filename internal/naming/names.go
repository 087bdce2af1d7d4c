package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Variants holds the spellings of one name that templates substitute.
type Variants struct {
	Name         string // as given
	ClassName    string // MyApp
	PropertyName string // myApp
	ConstantName string // MY_APP
	FileName     string // my-app
}

// Names returns the template spellings for name.
func Names(name string) Variants {
	words := splitWords(name)
	return Variants{
		Name:         name,
		ClassName:    className(words),
		PropertyName: propertyName(words),
		ConstantName: strings.ToUpper(strings.Join(words, "_")),
		FileName:     strings.Join(words, "-"),
	}
}

func className(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func propertyName(words []string) string {
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// splitWords breaks a name into lowercase words at separators and
// lower-to-upper case boundaries ("myApp_v2" -> my, app, v2).
func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	prev := rune(0)
	for _, r := range fold(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				flush()
			}
			cur = append(cur, r)
		default:
			flush()
		}
		prev = r
	}
	flush()
	return words
}

// fold strips combining marks so "Café" becomes "Cafe".
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug converts s into a lowercase, file-safe identifier made of
// [a-z0-9] runs joined by single dashes.
func Slug(s string) string {
	s = strings.ToLower(fold(s))
	return strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
}
