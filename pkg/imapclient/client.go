package imapclient

import (
	"fmt"
	"io"
	"log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// Client implements message.Transport over one IMAP connection. A
// client carries the connection's selected-mailbox context and is not
// safe for concurrent use.
type Client struct {
	c       *client.Client
	mailbox string
}

// Dial connects to an IMAP server over plaintext.
func Dial(addr string) (*Client, error) {
	c, err := client.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	return &Client{c: c}, nil
}

// DialTLS connects to an IMAP server over implicit TLS.
func DialTLS(addr string) (*Client, error) {
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	return &Client{c: c}, nil
}

// Login authenticates the connection.
func (c *Client) Login(username, password string) error {
	if err := c.c.Login(username, password); err != nil {
		return fmt.Errorf("login as %s: %w", username, err)
	}
	return nil
}

// Logout closes the connection gracefully.
func (c *Client) Logout() error {
	return c.c.Logout()
}

// SelectMailbox switches the connection's selected mailbox.
func (c *Client) SelectMailbox(name string) error {
	if _, err := c.c.Select(name, false); err != nil {
		return fmt.Errorf("selecting mailbox %q: %w", name, err)
	}
	c.mailbox = name
	return nil
}

// ActiveMailbox returns the currently selected mailbox name.
func (c *Client) ActiveMailbox() string {
	return c.mailbox
}

// fetchOne runs a UID FETCH for a single message and returns the first
// result, or nil when the server reports nothing for that UID.
func (c *Client) fetchOne(uid uint32, items []imap.FetchItem) (*imap.Message, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.c.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		if msg == nil {
			msg = m
		}
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching UID %d: %w", uid, err)
	}
	return msg, nil
}

// FetchOverview fetches the envelope, flags and size of a message and
// returns them as a summary record, or nil when the UID is unknown.
func (c *Client) FetchOverview(uid uint32) (*mail.Overview, error) {
	items := []imap.FetchItem{
		imap.FetchEnvelope, imap.FetchFlags, imap.FetchRFC822Size, imap.FetchUid,
	}
	msg, err := c.fetchOne(uid, items)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	ov := &mail.Overview{
		Size:  msg.Size,
		Flags: flagsToStatus(msg.Flags),
	}
	if msg.Envelope != nil {
		ov.Subject = msg.Envelope.Subject
		ov.Date = msg.Envelope.Date
	}
	return ov, nil
}

// FetchHeaders fetches the raw header block of a message.
func (c *Client) FetchHeaders(uid uint32) ([]byte, error) {
	section := &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{Specifier: imap.HeaderSpecifier},
		Peek:         true,
	}

	msg, err := c.fetchOne(uid, []imap.FetchItem{section.FetchItem()})
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("no header data for UID %d", uid)
	}

	r := msg.GetBody(section)
	if r == nil {
		return nil, fmt.Errorf("server returned no header section for UID %d", uid)
	}
	return io.ReadAll(r)
}

// FetchStructure fetches the message's BODYSTRUCTURE and converts it
// into the model tree.
func (c *Client) FetchStructure(uid uint32) (*mail.BodyPart, error) {
	msg, err := c.fetchOne(uid, []imap.FetchItem{imap.FetchBodyStructure})
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.BodyStructure == nil {
		return nil, fmt.Errorf("no body structure for UID %d", uid)
	}
	return convertStructure(msg.BodyStructure), nil
}

// FetchBody fetches the raw bytes of one body part. An empty partPath
// fetches the whole message body.
func (c *Client) FetchBody(uid uint32, partPath string) ([]byte, error) {
	section := &imap.BodySectionName{Peek: true}
	if partPath != "" {
		path, err := parsePartPath(partPath)
		if err != nil {
			return nil, err
		}
		section.Path = path
	}

	msg, err := c.fetchOne(uid, []imap.FetchItem{section.FetchItem()})
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("no body data for UID %d", uid)
	}

	r := msg.GetBody(section)
	if r == nil {
		// Empty parts come back without a literal.
		return nil, nil
	}
	return io.ReadAll(r)
}

// AddFlag sets one flag on the remote message.
func (c *Client) AddFlag(uid uint32, flag string) error {
	return c.storeFlag(uid, flag, imap.AddFlags)
}

// RemoveFlag clears one flag on the remote message.
func (c *Client) RemoveFlag(uid uint32, flag string) error {
	return c.storeFlag(uid, flag, imap.RemoveFlags)
}

func (c *Client) storeFlag(uid uint32, flag string, op imap.FlagsOp) error {
	imapFlag, ok := imapFlagByName[flag]
	if !ok {
		return fmt.Errorf("unknown flag %q", flag)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(op, true)
	if err := c.c.UidStore(seqSet, item, []interface{}{imapFlag}, nil); err != nil {
		return fmt.Errorf("storing flag %s on UID %d: %w", flag, uid, err)
	}
	return nil
}

// CopyAndMove copies the message to dest and marks the original as
// deleted. The caller expunges when it wants the move finalized.
func (c *Client) CopyAndMove(uid uint32, dest string) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	if err := c.c.UidCopy(seqSet, dest); err != nil {
		return fmt.Errorf("copying UID %d to %q: %w", uid, dest, err)
	}

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.c.UidStore(seqSet, item, []interface{}{imap.DeletedFlag}, nil); err != nil {
		return fmt.Errorf("marking UID %d deleted: %w", uid, err)
	}

	log.Printf("copied UID %d to %q and marked original deleted", uid, dest)
	return nil
}

// Expunge permanently removes messages marked for deletion in the
// selected mailbox.
func (c *Client) Expunge() error {
	if err := c.c.Expunge(nil); err != nil {
		return fmt.Errorf("expunging %q: %w", c.mailbox, err)
	}
	return nil
}
