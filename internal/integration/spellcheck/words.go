package spellcheck

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var skippedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

var codeElements = map[atom.Atom]bool{
	atom.Code: true,
	atom.Pre:  true,
	atom.Kbd:  true,
	atom.Samp: true,
}

// extractWords tokenizes the text nodes of an HTML fragment.
func extractWords(doc []byte, skipCode bool) ([]string, error) {
	z := html.NewTokenizer(bytes.NewReader(doc))
	depth := 0
	var words []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return words, nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if ignored(atom.Lookup(name), skipCode) {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if ignored(atom.Lookup(name), skipCode) && depth > 0 {
				depth--
			}
		case html.TextToken:
			if depth == 0 {
				words = append(words, splitWords(string(z.Text()))...)
			}
		}
	}
}

func ignored(a atom.Atom, skipCode bool) bool {
	return skippedElements[a] || (skipCode && codeElements[a])
}

// splitWords splits on anything but letters, digits and inner apostrophes.
func splitWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'’")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// checkable rejects tokens containing digits such as versions or hashes.
func checkable(word string) bool {
	for _, r := range word {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
