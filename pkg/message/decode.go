package message

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"strings"
)

// decodeTransfer decodes a body payload according to its transfer
// encoding. The encoding is either a name ("base64",
// "quoted-printable") or its numeric code as a string ("3", "4").
// Anything else passes the payload through unchanged. Malformed input
// never fails: the original payload is returned as a best-effort
// fallback.
func decodeTransfer(payload []byte, encoding string) []byte {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "4", "quoted-printable":
		decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return payload
		}
		return decoded
	case "3", "base64":
		// Mail bodies wrap base64 in lines; strip whitespace first.
		compact := strings.Map(func(r rune) rune {
			switch r {
			case '\r', '\n', ' ', '\t':
				return -1
			}
			return r
		}, string(payload))

		decoded, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			// Some senders omit padding.
			decoded, err = base64.RawStdEncoding.DecodeString(compact)
			if err != nil {
				return payload
			}
		}
		return decoded
	default:
		return payload
	}
}

// stripThreadIndexLines removes every line beginning with
// "Thread-Index:" from a raw body. One mail client leaks this header
// into body parts and it corrupts parsing downstream.
func stripThreadIndexLines(raw []byte) []byte {
	if !bytes.Contains(raw, []byte("Thread-Index:")) {
		return raw
	}

	lines := bytes.Split(raw, []byte("\n"))
	kept := make([][]byte, 0, len(lines))
	for _, line := range lines {
		if bytes.HasPrefix(line, []byte("Thread-Index:")) {
			continue
		}
		kept = append(kept, line)
	}
	return bytes.Join(kept, []byte("\n"))
}
