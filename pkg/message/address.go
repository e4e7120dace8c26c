package message

import (
	gomail "github.com/emersion/go-message/mail"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// parseAddresses converts a parsed header address list into normalized
// address records. Order is preserved and duplicates are kept. A nil
// or empty list yields an empty result, never an error.
func parseAddresses(list []*gomail.Address) []mail.Address {
	if len(list) == 0 {
		return nil
	}

	records := make([]mail.Address, 0, len(list))
	for _, entry := range list {
		if entry == nil || entry.Address == "" {
			continue
		}
		records = append(records, mail.Address{
			Addr: entry.Address,
			Name: entry.Name,
		})
	}
	return records
}
