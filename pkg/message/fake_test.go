package message

import (
	"fmt"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// fakeTransport is an in-memory Transport for exercising the walker
// and assembler without a server.
type fakeTransport struct {
	overview  *mail.Overview
	headers   []byte
	structure *mail.BodyPart
	bodies    map[string][]byte // part path -> raw bytes

	overviewErr error
	headersErr  error
	bodyErrs    map[string]error

	overviewCalls int
	headerCalls   int
	structCalls   int
	bodyFetches   []string

	active     string
	selections []string
	selectErr  error

	addedFlags   []string
	removedFlags []string
	flagErr      error

	copied  []string
	copyErr error

	expunges   int
	expungeErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		overview: &mail.Overview{
			Subject: "Test subject",
			Size:    1234,
			Flags: map[string]bool{
				mail.FlagSeen: true,
			},
		},
		headers: []byte("From: Alice <alice@example.com>\r\n" +
			"To: bob@example.com\r\n" +
			"Date: Mon, 02 Jan 2006 15:04:05 -0700\r\n" +
			"Subject: Test subject\r\n\r\n"),
		structure: &mail.BodyPart{Type: mail.PartText, Subtype: "plain"},
		bodies:    map[string][]byte{"": []byte("hello")},
		active:    "INBOX",
	}
}

func (f *fakeTransport) FetchOverview(uid uint32) (*mail.Overview, error) {
	f.overviewCalls++
	if f.overviewErr != nil {
		return nil, f.overviewErr
	}
	return f.overview, nil
}

func (f *fakeTransport) FetchHeaders(uid uint32) ([]byte, error) {
	f.headerCalls++
	if f.headersErr != nil {
		return nil, f.headersErr
	}
	return f.headers, nil
}

func (f *fakeTransport) FetchStructure(uid uint32) (*mail.BodyPart, error) {
	f.structCalls++
	return f.structure, nil
}

func (f *fakeTransport) FetchBody(uid uint32, partPath string) ([]byte, error) {
	f.bodyFetches = append(f.bodyFetches, partPath)
	if err, ok := f.bodyErrs[partPath]; ok {
		return nil, err
	}
	body, ok := f.bodies[partPath]
	if !ok {
		return nil, fmt.Errorf("no body at part %q", partPath)
	}
	return body, nil
}

func (f *fakeTransport) AddFlag(uid uint32, flag string) error {
	if f.flagErr != nil {
		return f.flagErr
	}
	f.addedFlags = append(f.addedFlags, flag)
	return nil
}

func (f *fakeTransport) RemoveFlag(uid uint32, flag string) error {
	if f.flagErr != nil {
		return f.flagErr
	}
	f.removedFlags = append(f.removedFlags, flag)
	return nil
}

func (f *fakeTransport) CopyAndMove(uid uint32, dest string) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	f.copied = append(f.copied, dest)
	return nil
}

func (f *fakeTransport) Expunge() error {
	if f.expungeErr != nil {
		return f.expungeErr
	}
	f.expunges++
	return nil
}

func (f *fakeTransport) ActiveMailbox() string {
	return f.active
}

func (f *fakeTransport) SelectMailbox(name string) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	f.selections = append(f.selections, name)
	f.active = name
	return nil
}
