package message

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// targetCharset is the process-wide charset every text body is
// normalized to. Unmappable characters are replaced rather than
// reported as errors.
var targetCharset = "utf-8"

// TargetCharset returns the configured normalization target charset.
func TargetCharset() string {
	return targetCharset
}

// SetTargetCharset changes the process-wide normalization target.
func SetTargetCharset(name string) {
	targetCharset = strings.ToLower(strings.TrimSpace(name))
}

// charsetCandidate is one entry of the fixed, ordered detection list.
type charsetCandidate struct {
	name string
	enc  encoding.Encoding
}

// detectCharset tries the candidate list in order and returns the name
// and encoding of the first charset the bytes decode cleanly under.
// The Latin-1 fallback is total, so detection only fails on empty
// input or when every Japanese/Unicode candidate mis-decodes and the
// text is pure ASCII anyway.
func detectCharset(b []byte) (string, encoding.Encoding) {
	if len(b) == 0 {
		return "", nil
	}

	// Pure ASCII needs no conversion under any target.
	if isASCII(b) {
		return "us-ascii", nil
	}

	// ISO-2022-JP announces itself with escape sequences.
	if bytes.Contains(b, []byte("\x1b$B")) || bytes.Contains(b, []byte("\x1b$@")) {
		return "iso-2022-jp", japanese.ISO2022JP
	}

	// UTF-16/32 byte order marks.
	switch {
	case bytes.HasPrefix(b, []byte{0x00, 0x00, 0xFE, 0xFF}) || bytes.HasPrefix(b, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return "utf-32", utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}) || bytes.HasPrefix(b, []byte{0xFF, 0xFE}):
		return "utf-16", unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}

	if utf8.Valid(b) {
		return "utf-8", unicode.UTF8
	}

	// Japanese legacy encodings, then the total Latin-1 fallback.
	candidates := []charsetCandidate{
		{"euc-jp", japanese.EUCJP},
		{"shift_jis", japanese.ShiftJIS},
		{"iso-8859-1", charmap.ISO8859_1},
	}
	for _, c := range candidates {
		if decodesCleanly(b, c.enc) {
			return c.name, c.enc
		}
	}

	return "", nil
}

// isASCII reports whether every byte is 7-bit.
func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// decodesCleanly reports whether b decodes under enc without producing
// replacement runes. x/text decoders substitute U+FFFD instead of
// failing, so the replacement rune is the error signal.
func decodesCleanly(b []byte, enc encoding.Encoding) bool {
	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return false
	}
	return !bytes.ContainsRune(decoded, utf8.RuneError)
}

// normalizeCharset detects the charset of text and transcodes it to
// the process-wide target charset. Detection failure, an already
// matching charset, or a conversion error all return the text
// unchanged: charset trouble must never lose a body.
func normalizeCharset(text string) string {
	detected, enc := detectCharset([]byte(text))
	if detected == "" || detected == targetCharset {
		return text
	}

	// ASCII is a subset of every supported target.
	if detected == "us-ascii" {
		return text
	}

	utf8Text := text
	if enc != nil && detected != "utf-8" {
		decoded, err := enc.NewDecoder().String(text)
		if err != nil {
			return text
		}
		utf8Text = decoded
	}

	if targetCharset == "utf-8" {
		return utf8Text
	}

	// Non-UTF-8 targets re-encode from UTF-8, replacing unmappable
	// characters instead of failing.
	target, err := ianaindex.IANA.Encoding(targetCharset)
	if err != nil || target == nil {
		return utf8Text
	}
	encoded, err := encoding.ReplaceUnsupported(target.NewEncoder()).String(utf8Text)
	if err != nil {
		return utf8Text
	}
	return encoded
}
