package render

import "strings"

// escapeRepl maps the closed special-character class to alphabetic
// substitutes. The class is fixed by the output formats; both serializers
// must apply the same mapping so label text matches across formats.
var escapeRepl = map[rune]byte{
	'(': 'B',
	'$': 'D',
	'#': 'H',
	'&': 'E',
	'@': 'A',
	')': 'B',
	'+': 'P',
	'-': 'M',
}

// EscapeText replaces every character of the special class with its
// alphabetic substitute. The substitutes are plain letters, so escaping is
// idempotent: re-escaping already-escaped text changes nothing.
func EscapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if sub, ok := escapeRepl[r]; ok {
			b.WriteByte(sub)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
