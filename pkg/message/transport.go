package message

import (
	"errors"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// ErrNotFound is returned by Load when the transport has no overview
// record for the requested message.
var ErrNotFound = errors.New("message not found")

// ErrInvalidFlag is returned by SetFlag for "recent" or any flag name
// outside the known set. The operation is rejected before any remote
// call is made.
var ErrInvalidFlag = errors.New("invalid flag name")

// Transport is the mail-retrieval collaborator a Message is loaded
// through. All calls block until the remote operation completes; the
// walker issues them strictly sequentially. A transport carries one
// "currently selected mailbox" context that callers must not mutate
// concurrently.
type Transport interface {
	// FetchOverview returns the summary record for a message, or
	// nil (with no error) when the message does not exist.
	FetchOverview(uid uint32) (*mail.Overview, error)

	// FetchHeaders returns the raw header block of the message.
	FetchHeaders(uid uint32) ([]byte, error)

	// FetchStructure returns the message's MIME structure tree.
	FetchStructure(uid uint32) (*mail.BodyPart, error)

	// FetchBody returns the raw bytes of one body part. An empty
	// partPath fetches the whole message body.
	FetchBody(uid uint32, partPath string) ([]byte, error)

	// AddFlag and RemoveFlag change one flag on the remote message.
	AddFlag(uid uint32, flag string) error
	RemoveFlag(uid uint32, flag string) error

	// CopyAndMove copies the message to dest and marks the original
	// for deletion. The actual removal happens on Expunge.
	CopyAndMove(uid uint32, dest string) error

	// Expunge permanently removes messages marked for deletion in
	// the currently selected mailbox.
	Expunge() error

	// ActiveMailbox returns the currently selected mailbox name.
	ActiveMailbox() string

	// SelectMailbox switches the selected mailbox context.
	SelectMailbox(name string) error
}
