package mail

import "strings"

// PartType is the primitive media type of a body part. The numeric
// mapping is fixed and stable across the system.
type PartType int

const (
	PartText        PartType = 0
	PartMultipart   PartType = 1
	PartMessage     PartType = 2
	PartApplication PartType = 3
	PartAudio       PartType = 4
	PartImage       PartType = 5
	PartVideo       PartType = 6
	PartOther       PartType = 7
)

// PartTypeFromString maps a MIME primary type string to a PartType.
// Unrecognized types map to PartOther.
func PartTypeFromString(s string) PartType {
	switch strings.ToLower(s) {
	case "text":
		return PartText
	case "multipart":
		return PartMultipart
	case "message":
		return PartMessage
	case "application":
		return PartApplication
	case "audio":
		return PartAudio
	case "image":
		return PartImage
	case "video":
		return PartVideo
	default:
		return PartOther
	}
}

// String returns the lowercase MIME primary type name.
func (t PartType) String() string {
	switch t {
	case PartText:
		return "text"
	case PartMultipart:
		return "multipart"
	case PartMessage:
		return "message"
	case PartApplication:
		return "application"
	case PartAudio:
		return "audio"
	case PartImage:
		return "image"
	case PartVideo:
		return "video"
	default:
		return "other"
	}
}

// BodyPart is one node of a message's MIME structure tree as reported by
// the transport. The tree is owned by one message load; the walker may
// inject a synthetic "filename" disposition parameter during a pass, but
// the mutation never escapes the load.
type BodyPart struct {
	Type              PartType
	Subtype           string // e.g. "plain", "alternative"
	Encoding          string // transfer encoding name or numeric code
	Description       string
	Disposition       string // e.g. "attachment", empty when unset
	Params            map[string]string
	DispositionParams map[string]string
	Parts             []*BodyPart
}

// Param returns the named content parameter, or "" when absent.
func (p *BodyPart) Param(name string) string {
	if p.Params == nil {
		return ""
	}
	return p.Params[name]
}

// DispositionParam returns the named disposition parameter, or "" when
// absent.
func (p *BodyPart) DispositionParam(name string) string {
	if p.DispositionParams == nil {
		return ""
	}
	return p.DispositionParams[name]
}

// SetDispositionParam sets a disposition parameter, allocating the map
// when the transport supplied none.
func (p *BodyPart) SetDispositionParam(name, value string) {
	if p.DispositionParams == nil {
		p.DispositionParams = make(map[string]string)
	}
	p.DispositionParams[name] = value
}

// SetParam sets a content parameter, allocating the map when the
// transport supplied none.
func (p *BodyPart) SetParam(name, value string) {
	if p.Params == nil {
		p.Params = make(map[string]string)
	}
	p.Params[name] = value
}

// ContentType returns the full "type/subtype" media type of the part.
func (p *BodyPart) ContentType() string {
	if p.Subtype == "" {
		return p.Type.String()
	}
	return p.Type.String() + "/" + strings.ToLower(p.Subtype)
}
