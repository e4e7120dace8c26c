package message

import "strings"

// unsafeFilenameChars are the characters replaced by SanitizeFilename.
// The set covers shell metacharacters, path separators and URL
// delimiters that are unsafe in a stored attachment name.
const unsafeFilenameChars = "<>\"{}|\\^[]`;/?:@&=$,"

// SanitizeFilename replaces every filesystem-unsafe character in name
// with an underscore. The function is pure, total and idempotent.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
}
