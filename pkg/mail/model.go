package mail

import (
	"fmt"
	"strings"
	"time"
)

// Address is one normalized entry of a header address list.
type Address struct {
	Addr string `json:"addr"`           // mailbox@host
	Name string `json:"name,omitempty"` // display name, may be empty
}

// String formats the address as "Name <mailbox@host>" or just
// "mailbox@host" when no display name is present.
func (a Address) String() string {
	if a.Name != "" {
		return fmt.Sprintf("%s <%s>", a.Name, a.Addr)
	}
	return a.Addr
}

// FormatAddresses joins a list of addresses into a single
// "Name <addr>, Name <addr>" string.
func FormatAddresses(addrs []Address) string {
	if len(addrs) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		formatted = append(formatted, addr.String())
	}
	return strings.Join(formatted, ", ")
}

// Message flag names. The set is fixed and case-sensitive; "recent" is a
// server-managed pseudo flag that clients may read but never set.
const (
	FlagRecent   = "recent"
	FlagFlagged  = "flagged"
	FlagAnswered = "answered"
	FlagDeleted  = "deleted"
	FlagSeen     = "seen"
	FlagDraft    = "draft"
)

// settableFlags are the flag names a client is allowed to change.
var settableFlags = map[string]bool{
	FlagFlagged:  true,
	FlagAnswered: true,
	FlagDeleted:  true,
	FlagSeen:     true,
	FlagDraft:    true,
}

// IsSettableFlag reports whether name is a known flag that clients may
// set or clear. "recent" and unrecognized names return false.
func IsSettableFlag(name string) bool {
	return settableFlags[name]
}

// Overview is the summary record for a message: subject, date, size and
// flag state, fetched separately from the full headers.
type Overview struct {
	Subject string          `json:"subject"`
	Date    time.Time       `json:"date"`
	Size    uint32          `json:"size"`
	Flags   map[string]bool `json:"flags"`
}
