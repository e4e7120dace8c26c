package message

import (
	"log"
	"strconv"
	"strings"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// walkPart recursively interprets one node of the structure tree,
// populating the message's body buffers and attachment list. partPath
// is "" for the root of a non-multipart message and a dot-separated
// 1-based index path otherwise.
func (m *Message) walkPart(part *mail.BodyPart, partPath string) {
	// Attachments are terminal: once classified, the branch is done.
	if att := m.classifyAttachment(part, partPath); att != nil {
		m.attachments = append(m.attachments, att)
		return
	}

	if part.Type == mail.PartText || part.Type == mail.PartMultipart {
		m.extractBodyText(part, partPath)
	}
	// Other primitive types that are not attachments contribute
	// nothing and are skipped silently.

	for i, child := range part.Parts {
		childPath := strconv.Itoa(i + 1)
		if partPath != "" {
			childPath = partPath + "." + childPath
		}
		m.walkPart(child, childPath)
	}
}

// extractBodyText fetches, decodes and charset-normalizes one text or
// multipart node's body and routes it to the matching body buffer.
func (m *Message) extractBodyText(part *mail.BodyPart, partPath string) {
	raw, err := m.transport.FetchBody(m.uid, partPath)
	if err != nil {
		// A failed body fetch surfaces as an absent contribution.
		log.Printf("fetching body part %q: %v", partPath, err)
		return
	}

	raw = stripThreadIndexLines(raw)
	text := normalizeCharset(string(decodeTransfer(raw, part.Encoding)))

	// Routing rule: "plain" subtypes and non-alternative multiparts
	// accumulate as plaintext; everything else, including text
	// subtypes like "enriched", is treated as HTML-ish.
	subtype := strings.ToLower(part.Subtype)
	if subtype == "plain" || (part.Type == mail.PartMultipart && subtype != "alternative") {
		m.appendTextBody(strings.TrimSpace(text))
	} else {
		m.appendHTMLBody(text)
	}
}

// appendTextBody adds one contribution to the plaintext buffer with a
// blank-line separator. Empty contributions are a no-op so the buffer
// is either absent or non-empty.
func (m *Message) appendTextBody(text string) {
	if text == "" {
		return
	}
	if m.textBody != "" {
		m.textBody += "\n\n"
	}
	m.textBody += text
}

// appendHTMLBody adds one contribution to the HTML buffer with a
// line-break separator. Contributions are not trimmed.
func (m *Message) appendHTMLBody(text string) {
	if text == "" {
		return
	}
	if m.htmlBody != "" {
		m.htmlBody += "\n"
	}
	m.htmlBody += text
}
