package api

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// AddressResponse is one address entry of a message view.
type AddressResponse struct {
	Addr string `json:"addr"`
	Name string `json:"name,omitempty"`
}

// AttachmentResponse describes one attachment of a message.
type AttachmentResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	PartPath    string `json:"part_path"`
}

// MessageResponse is the assembled read-only view of one message.
type MessageResponse struct {
	UID         uint32               `json:"uid"`
	Mailbox     string               `json:"mailbox"`
	Subject     string               `json:"subject"`
	Date        time.Time            `json:"date"`
	Size        uint32               `json:"size"`
	From        []AddressResponse    `json:"from"`
	To          []AddressResponse    `json:"to,omitempty"`
	Cc          []AddressResponse    `json:"cc,omitempty"`
	Bcc         []AddressResponse    `json:"bcc,omitempty"`
	ReplyTo     []AddressResponse    `json:"reply_to,omitempty"`
	TextBody    string               `json:"text_body"`
	HTMLBody    string               `json:"html_body"`
	Flags       map[string]bool      `json:"flags"`
	Attachments []AttachmentResponse `json:"attachments"`
}
