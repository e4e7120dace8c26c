package routes

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freeflowuniverse/heromail/api"
	"github.com/freeflowuniverse/heromail/pkg/mail"
	"github.com/freeflowuniverse/heromail/pkg/message"
)

// MessageHandler handles message-related routes
type MessageHandler struct {
	transport message.Transport
	mailbox   string
}

// NewMessageHandler creates a new MessageHandler serving messages from
// one mailbox over the given transport.
func NewMessageHandler(transport message.Transport, mailbox string) *MessageHandler {
	return &MessageHandler{transport: transport, mailbox: mailbox}
}

// RegisterRoutes registers all message routes
func (h *MessageHandler) RegisterRoutes(app *fiber.App) {
	messages := app.Group("/messages")

	messages.Get("/:uid", h.getMessage)
	messages.Get("/:uid/attachments", h.getAttachments)
	messages.Get("/:uid/attachments/:filename", h.getAttachmentContent)
}

// load parses the uid parameter and assembles the message view.
func (h *MessageHandler) load(c *fiber.Ctx) (*message.Message, error) {
	uid, err := strconv.ParseUint(c.Params("uid"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(api.ErrorResponse{
			Error: "invalid message uid",
		})
	}

	msg, err := message.Load(h.transport, h.mailbox, uint32(uid))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, message.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return nil, c.Status(status).JSON(api.ErrorResponse{Error: err.Error()})
	}
	return msg, nil
}

// getMessage returns the assembled view of one message.
func (h *MessageHandler) getMessage(c *fiber.Ctx) error {
	msg, err := h.load(c)
	if msg == nil {
		return err
	}
	return c.JSON(messageResponse(msg))
}

// getAttachments returns the attachment list of one message.
func (h *MessageHandler) getAttachments(c *fiber.Ctx) error {
	msg, err := h.load(c)
	if msg == nil {
		return err
	}
	return c.JSON(attachmentResponses(msg))
}

// getAttachmentContent streams one attachment's decoded bytes.
func (h *MessageHandler) getAttachmentContent(c *fiber.Ctx) error {
	msg, err := h.load(c)
	if msg == nil {
		return err
	}

	att, ok := msg.Attachment(c.Params("filename"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(api.ErrorResponse{
			Error: "attachment not found",
		})
	}

	content, err := att.Content()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorResponse{
			Error: err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, att.ContentType())
	return c.Send(content)
}

// messageResponse builds the JSON view of a loaded message.
func messageResponse(msg *message.Message) api.MessageResponse {
	flags := make(map[string]bool)
	for _, name := range []string{
		mail.FlagRecent, mail.FlagFlagged, mail.FlagAnswered,
		mail.FlagDeleted, mail.FlagSeen, mail.FlagDraft,
	} {
		flags[name] = msg.HasFlag(name)
	}

	return api.MessageResponse{
		UID:         msg.UID(),
		Mailbox:     msg.Mailbox(),
		Subject:     msg.Subject(),
		Date:        msg.Date(),
		Size:        msg.Size(),
		From:        addressResponses(msg.From()),
		To:          addressResponses(msg.To()),
		Cc:          addressResponses(msg.Cc()),
		Bcc:         addressResponses(msg.Bcc()),
		ReplyTo:     addressResponses(msg.ReplyTo()),
		TextBody:    msg.TextBody(),
		HTMLBody:    msg.HTMLBody(),
		Flags:       flags,
		Attachments: attachmentResponses(msg),
	}
}

func addressResponses(addrs []mail.Address) []api.AddressResponse {
	out := make([]api.AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, api.AddressResponse{Addr: a.Addr, Name: a.Name})
	}
	return out
}

func attachmentResponses(msg *message.Message) []api.AttachmentResponse {
	out := make([]api.AttachmentResponse, 0, len(msg.Attachments()))
	for _, att := range msg.Attachments() {
		out = append(out, api.AttachmentResponse{
			Filename:    att.Filename(),
			ContentType: att.ContentType(),
			PartPath:    att.PartPath(),
		})
	}
	return out
}
