package message

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	gomail "github.com/emersion/go-message/mail"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// NoBody is returned by the body accessors when a message carries
// neither a plaintext nor an HTML body.
const NoBody = "no body"

// Message is the assembled, read-mostly view of one fetched mail
// message. It is built once by Load and is not safe for concurrent
// use; the underlying transport assumes single-threaded access.
type Message struct {
	transport Transport
	uid       uint32
	mailbox   string

	// Per-instance caches of the three transport fetches. Each has
	// a force-reload escape hatch on its accessor.
	overview  *mail.Overview
	rawHeader []byte
	structure *mail.BodyPart

	subject string
	date    time.Time
	size    uint32

	from    []mail.Address
	to      []mail.Address
	cc      []mail.Address
	bcc     []mail.Address
	replyTo []mail.Address

	textBody    string
	htmlBody    string
	attachments []*Attachment

	status map[string]bool
}

// Load builds the full message view for uid in mailbox: it fetches the
// overview, headers and structure, parses the address lists and walks
// the structure tree to assemble bodies and attachments. A missing
// overview record fails with ErrNotFound; header or structure fetch
// failures degrade to absent content instead of failing the load.
func Load(t Transport, mailbox string, uid uint32) (*Message, error) {
	m := &Message{
		transport: t,
		uid:       uid,
		mailbox:   mailbox,
		status:    make(map[string]bool),
	}

	ov, err := m.Overview(false)
	if err != nil {
		return nil, fmt.Errorf("loading overview for %d: %w", uid, err)
	}
	if ov == nil {
		return nil, fmt.Errorf("message %d in %q: %w", uid, mailbox, ErrNotFound)
	}
	m.subject = ov.Subject
	m.date = ov.Date
	m.size = ov.Size
	for name, set := range ov.Flags {
		m.status[name] = set
	}

	m.loadAddresses()
	m.assembleBodies()

	return m, nil
}

// Overview returns the cached summary record, refetching it when force
// is set. A nil record with nil error means the message does not exist.
func (m *Message) Overview(force bool) (*mail.Overview, error) {
	if m.overview == nil || force {
		ov, err := m.transport.FetchOverview(m.uid)
		if err != nil {
			return nil, err
		}
		m.overview = ov
	}
	return m.overview, nil
}

// Headers returns the cached raw header block, refetching it when
// force is set.
func (m *Message) Headers(force bool) ([]byte, error) {
	if m.rawHeader == nil || force {
		raw, err := m.transport.FetchHeaders(m.uid)
		if err != nil {
			return nil, err
		}
		m.rawHeader = raw
	}
	return m.rawHeader, nil
}

// Structure returns the cached structure tree, refetching it when
// force is set.
func (m *Message) Structure(force bool) (*mail.BodyPart, error) {
	if m.structure == nil || force {
		st, err := m.transport.FetchStructure(m.uid)
		if err != nil {
			return nil, err
		}
		m.structure = st
	}
	return m.structure, nil
}

// loadAddresses parses the header block into the per-field address
// lists. To/Cc/Bcc are optional; Reply-To falls back to From when
// absent. A failed header fetch leaves every list empty.
func (m *Message) loadAddresses() {
	raw, err := m.Headers(false)
	if err != nil {
		log.Printf("fetching headers for %d: %v", m.uid, err)
		return
	}

	hdr, err := parseHeaderBlock(raw)
	if err != nil {
		log.Printf("parsing headers for %d: %v", m.uid, err)
		return
	}

	from, _ := hdr.AddressList("From")
	m.from = parseAddresses(from)
	to, _ := hdr.AddressList("To")
	m.to = parseAddresses(to)
	cc, _ := hdr.AddressList("Cc")
	m.cc = parseAddresses(cc)
	bcc, _ := hdr.AddressList("Bcc")
	m.bcc = parseAddresses(bcc)
	replyTo, _ := hdr.AddressList("Reply-To")
	m.replyTo = parseAddresses(replyTo)
	if len(m.replyTo) == 0 {
		m.replyTo = m.from
	}

	// Some servers report no envelope date; fall back to the Date
	// header, which tolerates the many formats seen in the wild.
	if m.date.IsZero() {
		if raw := hdr.Get("Date"); raw != "" {
			if parsed, err := dateparse.ParseAny(raw); err == nil {
				m.date = parsed
			}
		}
	}
}

// parseHeaderBlock reads a raw header block into a mail header. The
// block may or may not carry its terminating blank line.
func parseHeaderBlock(raw []byte) (*gomail.Header, error) {
	if !bytes.HasSuffix(raw, []byte("\r\n\r\n")) && !bytes.HasSuffix(raw, []byte("\n\n")) {
		raw = append(append([]byte{}, raw...), []byte("\r\n\r\n")...)
	}
	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer mr.Close()
	return &mr.Header, nil
}

// assembleBodies walks the structure tree, filling the body buffers
// and the attachment list. A root without declared parts is a single
// non-multipart node walked with the empty path; otherwise each
// declared part is walked under its 1-based index, with any non-empty
// description first propagated into its filename metadata.
func (m *Message) assembleBodies() {
	st, err := m.Structure(false)
	if err != nil {
		log.Printf("fetching structure for %d: %v", m.uid, err)
		return
	}
	if st == nil {
		return
	}

	if len(st.Parts) == 0 {
		m.walkPart(st, "")
		return
	}

	for i, part := range st.Parts {
		if part.Description != "" {
			name := SanitizeFilename(part.Description)
			part.SetParam("name", name)
			part.SetDispositionParam("filename", name)
		}
		m.walkPart(part, strconv.Itoa(i+1))
	}
}

// UID returns the message's unique identifier within its mailbox.
func (m *Message) UID() uint32 {
	return m.uid
}

// Mailbox returns the mailbox currently holding the message.
func (m *Message) Mailbox() string {
	return m.mailbox
}

// Subject returns the message subject from the overview record.
func (m *Message) Subject() string {
	return m.subject
}

// Date returns the sent date.
func (m *Message) Date() time.Time {
	return m.date
}

// Size returns the message size in bytes.
func (m *Message) Size() uint32 {
	return m.size
}

// From returns the sender address list.
func (m *Message) From() []mail.Address { return m.from }

// To returns the primary recipient list.
func (m *Message) To() []mail.Address { return m.to }

// Cc returns the carbon-copy recipient list.
func (m *Message) Cc() []mail.Address { return m.cc }

// Bcc returns the blind-carbon-copy recipient list.
func (m *Message) Bcc() []mail.Address { return m.bcc }

// ReplyTo returns the reply address list, which falls back to From.
func (m *Message) ReplyTo() []mail.Address { return m.replyTo }

// FromLine returns the sender list as one "Name <addr>, ..." string.
func (m *Message) FromLine() string { return mail.FormatAddresses(m.from) }

// ToLine returns the recipient list as one formatted string.
func (m *Message) ToLine() string { return mail.FormatAddresses(m.to) }

// CcLine returns the Cc list as one formatted string.
func (m *Message) CcLine() string { return mail.FormatAddresses(m.cc) }

// BccLine returns the Bcc list as one formatted string.
func (m *Message) BccLine() string { return mail.FormatAddresses(m.bcc) }

// ReplyToLine returns the reply list as one formatted string.
func (m *Message) ReplyToLine() string { return mail.FormatAddresses(m.replyTo) }

// TextBody returns the assembled plaintext body. When only an HTML
// body exists a plaintext rendering is synthesized from it; when
// neither exists the result is NoBody.
func (m *Message) TextBody() string {
	switch {
	case m.textBody != "":
		return m.textBody
	case m.htmlBody != "":
		return htmlToText(m.htmlBody)
	default:
		return NoBody
	}
}

// HTMLBody returns the assembled HTML body. When only a plaintext
// body exists an HTML rendering is synthesized from it; when neither
// exists the result is NoBody.
func (m *Message) HTMLBody() string {
	switch {
	case m.htmlBody != "":
		return m.htmlBody
	case m.textBody != "":
		return textToHTML(m.textBody)
	default:
		return NoBody
	}
}

// Attachments returns every attachment in traversal order.
func (m *Message) Attachments() []*Attachment {
	return m.attachments
}

// Attachment returns the first attachment with the given resolved
// filename, or false when none matches.
func (m *Message) Attachment(filename string) (*Attachment, bool) {
	for _, att := range m.attachments {
		if att.filename == filename {
			return att, true
		}
	}
	return nil, false
}

// AttachmentsNamed returns every attachment with the given resolved
// filename.
func (m *Message) AttachmentsNamed(filename string) []*Attachment {
	var matched []*Attachment
	for _, att := range m.attachments {
		if att.filename == filename {
			matched = append(matched, att)
		}
	}
	return matched
}

// HasFlag reports the local flag state, defaulting to false for
// unknown or unset flags. It never touches the transport.
func (m *Message) HasFlag(flag string) bool {
	return m.status[flag]
}

// SetFlag updates the local flag state and issues the matching remote
// set or clear call. "recent" and unrecognized names are rejected with
// ErrInvalidFlag before any remote call and leave the local state
// unchanged.
func (m *Message) SetFlag(flag string, enable bool) error {
	if !mail.IsSettableFlag(flag) {
		return fmt.Errorf("flag %q: %w", flag, ErrInvalidFlag)
	}

	m.status[flag] = enable

	if enable {
		return m.transport.AddFlag(m.uid, flag)
	}
	return m.transport.RemoveFlag(m.uid, flag)
}

// Delete marks the message for deletion. Actual removal is deferred to
// the transport's expunge.
func (m *Message) Delete() error {
	return m.SetFlag(mail.FlagDeleted, true)
}

// MoveToMailbox moves the message to dest: it selects the message's
// current mailbox, copies with move semantics, expunges, and records
// the new mailbox. The transport's previously active mailbox is
// restored even when the remote calls fail.
func (m *Message) MoveToMailbox(dest string) error {
	prior := m.transport.ActiveMailbox()
	if prior != m.mailbox {
		defer func() {
			if err := m.transport.SelectMailbox(prior); err != nil {
				log.Printf("restoring mailbox %q: %v", prior, err)
			}
		}()
		if err := m.transport.SelectMailbox(m.mailbox); err != nil {
			return fmt.Errorf("selecting %q: %w", m.mailbox, err)
		}
	}

	if err := m.transport.CopyAndMove(m.uid, dest); err != nil {
		return fmt.Errorf("moving %d to %q: %w", m.uid, dest, err)
	}
	if err := m.transport.Expunge(); err != nil {
		return fmt.Errorf("expunging %q: %w", m.mailbox, err)
	}

	m.mailbox = dest
	return nil
}
