package imapclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

// flagNamesByIMAP maps IMAP system flags to the model's flag names.
var flagNamesByIMAP = map[string]string{
	imap.RecentFlag:   mail.FlagRecent,
	imap.FlaggedFlag:  mail.FlagFlagged,
	imap.AnsweredFlag: mail.FlagAnswered,
	imap.DeletedFlag:  mail.FlagDeleted,
	imap.SeenFlag:     mail.FlagSeen,
	imap.DraftFlag:    mail.FlagDraft,
}

// imapFlagByName is the reverse mapping used when storing flags.
var imapFlagByName = map[string]string{
	mail.FlagRecent:   imap.RecentFlag,
	mail.FlagFlagged:  imap.FlaggedFlag,
	mail.FlagAnswered: imap.AnsweredFlag,
	mail.FlagDeleted:  imap.DeletedFlag,
	mail.FlagSeen:     imap.SeenFlag,
	mail.FlagDraft:    imap.DraftFlag,
}

// flagsToStatus converts a fetched flag list into the full six-key
// status map. Keys for unset flags are present and false.
func flagsToStatus(flags []string) map[string]bool {
	status := map[string]bool{
		mail.FlagRecent:   false,
		mail.FlagFlagged:  false,
		mail.FlagAnswered: false,
		mail.FlagDeleted:  false,
		mail.FlagSeen:     false,
		mail.FlagDraft:    false,
	}
	for _, f := range flags {
		if name, ok := flagNamesByIMAP[f]; ok {
			status[name] = true
		}
	}
	return status
}

// convertStructure maps a BODYSTRUCTURE tree onto the model tree.
// Parameter keys are lowercased: IMAP parameter attributes are
// case-insensitive and the walker looks parameters up by name.
func convertStructure(bs *imap.BodyStructure) *mail.BodyPart {
	part := &mail.BodyPart{
		Type:              mail.PartTypeFromString(bs.MIMEType),
		Subtype:           strings.ToLower(bs.MIMESubType),
		Encoding:          bs.Encoding,
		Description:       bs.Description,
		Disposition:       bs.Disposition,
		Params:            lowerKeys(bs.Params),
		DispositionParams: lowerKeys(bs.DispositionParams),
	}
	for _, child := range bs.Parts {
		part.Parts = append(part.Parts, convertStructure(child))
	}
	return part
}

// lowerKeys copies a parameter map with lowercased keys.
func lowerKeys(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[strings.ToLower(k)] = v
	}
	return out
}

// parsePartPath parses a dot-separated, 1-based part path like "2.1"
// into the index slice the IMAP section syntax wants.
func parsePartPath(partPath string) ([]int, error) {
	segments := strings.Split(partPath, ".")
	path := make([]int, 0, len(segments))
	for _, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid part path %q", partPath)
		}
		path = append(path, n)
	}
	return path, nil
}
