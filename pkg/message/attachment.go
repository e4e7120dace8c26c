package message

import (
	"bytes"
	"log"
	"strings"

	gomail "github.com/emersion/go-message/mail"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// Attachment describes one attachment part of a loaded message. The
// filename is resolved at classification time; the content bytes are
// fetched lazily through the owning message's transport.
type Attachment struct {
	msg      *Message
	part     *mail.BodyPart
	partPath string
	filename string
}

// Filename returns the resolved attachment filename.
func (a *Attachment) Filename() string {
	return a.filename
}

// PartPath returns the part path locating the attachment in the
// message's structure tree.
func (a *Attachment) PartPath() string {
	return a.partPath
}

// ContentType returns the attachment's "type/subtype" media type.
func (a *Attachment) ContentType() string {
	return a.part.ContentType()
}

// Content fetches the attachment's raw bytes and decodes the transfer
// encoding.
func (a *Attachment) Content() ([]byte, error) {
	raw, err := a.msg.transport.FetchBody(a.msg.uid, a.partPath)
	if err != nil {
		return nil, err
	}
	return decodeTransfer(raw, a.part.Encoding), nil
}

// classifyAttachment decides whether part is an attachment and builds
// its descriptor. It returns nil for inline parts, for text/multipart
// parts regardless of disposition, and for parts whose construction
// fails: one bad attachment never aborts the rest of the load.
func (m *Message) classifyAttachment(part *mail.BodyPart, partPath string) *Attachment {
	if !strings.EqualFold(part.Disposition, "attachment") {
		return nil
	}
	// Text and multipart parts stay inline even when a sender marks
	// them as attachments; disposition alone is not enough.
	if part.Type == mail.PartText || part.Type == mail.PartMultipart {
		return nil
	}

	// Unnamed embedded messages get a deterministic, human-readable
	// synthetic filename derived from their own Subject header.
	if part.Param("name") == "" && part.DispositionParam("filename") == "" &&
		part.Type == mail.PartMessage {
		raw, err := m.transport.FetchBody(m.uid, partPath)
		if err != nil {
			log.Printf("skipping attachment at part %q: %v", partPath, err)
			return nil
		}
		part.SetDispositionParam("filename", syntheticMessageFilename(raw))
	}

	// A description doubles as the externally visible filename, kept
	// consistent across both metadata fields.
	if part.Description != "" {
		name := SanitizeFilename(part.Description)
		part.SetParam("name", name)
		part.SetDispositionParam("filename", name)
	}

	return &Attachment{
		msg:      m,
		part:     part,
		partPath: partPath,
		filename: resolveFilename(part),
	}
}

// resolveFilename picks the attachment filename from the disposition
// "filename" parameter, falling back to the content "name" parameter,
// and sanitizes the result.
func resolveFilename(part *mail.BodyPart) string {
	name := part.DispositionParam("filename")
	if name == "" {
		name = part.Param("name")
	}
	return SanitizeFilename(name)
}

// syntheticMessageFilename derives "<subject>.eml" from the embedded
// headers of a message/rfc822 body, or "email.eml" when the Subject
// is missing or empty. Whitespace in the subject becomes underscores
// so the name survives as a single filesystem token.
func syntheticMessageFilename(raw []byte) string {
	name := "email"
	if subject := embeddedSubject(raw); subject != "" {
		subject = strings.NewReplacer("\r", "", "\n", "").Replace(subject)
		subject = SanitizeFilename(subject)
		subject = strings.ReplaceAll(subject, " ", "_")
		if subject != "" {
			name = subject
		}
	}
	return name + ".eml"
}

// embeddedSubject parses the header block of an embedded message and
// returns its decoded Subject, or "" when parsing fails.
func embeddedSubject(raw []byte) string {
	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	defer mr.Close()

	subject, err := mr.Header.Subject()
	if err != nil {
		// Encoded-word decoding failed; use the raw value.
		subject = mr.Header.Get("Subject")
	}
	return strings.TrimSpace(subject)
}
