package message

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeflowuniverse/heromail/pkg/mail"
)

func TestWalkPartPaths(t *testing.T) {
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{
		Type:    mail.PartMultipart,
		Subtype: "mixed",
		Parts: []*mail.BodyPart{
			{Type: mail.PartText, Subtype: "plain"},
			{
				Type:    mail.PartMultipart,
				Subtype: "alternative",
				Parts: []*mail.BodyPart{
					{Type: mail.PartText, Subtype: "plain"},
					{Type: mail.PartText, Subtype: "html"},
				},
			},
		},
	}
	ft.bodies = map[string][]byte{
		"1":   []byte("first part"),
		"2":   []byte(""),
		"2.1": []byte("alternative text"),
		"2.2": []byte("<p>alternative html</p>"),
	}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)

	// The root declares parts, so the walk starts at the 1-based
	// top-level indices and extends paths per nesting level.
	assert.Equal(t, []string{"1", "2", "2.1", "2.2"}, ft.bodyFetches)

	assert.Equal(t, "first part\n\nalternative text", msg.textBody)
	assert.Equal(t, "<p>alternative html</p>", msg.htmlBody)
}

func TestWalkSinglePartMessage(t *testing.T) {
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{Type: mail.PartText, Subtype: "plain"}
	ft.bodies = map[string][]byte{"": []byte("  body text  ")}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)

	// A root without declared parts is walked once with no path and
	// its contribution is trimmed.
	assert.Equal(t, []string{""}, ft.bodyFetches)
	assert.Equal(t, "body text", msg.textBody)
}

func TestWalkAttachmentPrecedence(t *testing.T) {
	t.Run("ImageAttachmentIsTerminal", func(t *testing.T) {
		ft := newFakeTransport()
		ft.structure = &mail.BodyPart{
			Type:    mail.PartMultipart,
			Subtype: "mixed",
			Parts: []*mail.BodyPart{
				{Type: mail.PartText, Subtype: "plain"},
				{
					Type:              mail.PartImage,
					Subtype:           "png",
					Disposition:       "attachment",
					DispositionParams: map[string]string{"filename": "pic.png"},
				},
			},
		}
		ft.bodies = map[string][]byte{
			"1": []byte("inline text"),
			"2": []byte("PNGDATA"),
		}

		msg, err := Load(ft, "INBOX", 7)
		require.NoError(t, err)

		require.Len(t, msg.Attachments(), 1)
		assert.Equal(t, "pic.png", msg.Attachments()[0].Filename())
		assert.Equal(t, "inline text", msg.textBody)
		// The image body is never fetched during the walk.
		assert.Equal(t, []string{"1"}, ft.bodyFetches)
	})

	t.Run("TextAttachmentStaysInline", func(t *testing.T) {
		ft := newFakeTransport()
		ft.structure = &mail.BodyPart{
			Type:    mail.PartMultipart,
			Subtype: "mixed",
			Parts: []*mail.BodyPart{
				{
					Type:              mail.PartText,
					Subtype:           "plain",
					Disposition:       "attachment",
					DispositionParams: map[string]string{"filename": "notes.txt"},
				},
			},
		}
		ft.bodies = map[string][]byte{"1": []byte("still body text")}

		msg, err := Load(ft, "INBOX", 7)
		require.NoError(t, err)

		// Disposition alone is insufficient for text parts.
		assert.Empty(t, msg.Attachments())
		assert.Equal(t, "still body text", msg.textBody)
	})
}

func TestWalkSyntheticMessageFilename(t *testing.T) {
	structureWithMessagePart := func() *mail.BodyPart {
		return &mail.BodyPart{
			Type:    mail.PartMultipart,
			Subtype: "mixed",
			Parts: []*mail.BodyPart{
				{Type: mail.PartText, Subtype: "plain"},
				{Type: mail.PartMessage, Subtype: "rfc822", Disposition: "attachment"},
			},
		}
	}

	t.Run("SubjectBecomesFilename", func(t *testing.T) {
		ft := newFakeTransport()
		ft.structure = structureWithMessagePart()
		ft.bodies = map[string][]byte{
			"1": []byte("covering note"),
			"2": []byte("Subject: Q1 Report\r\nFrom: x@example.com\r\n\r\nforwarded body"),
		}

		msg, err := Load(ft, "INBOX", 7)
		require.NoError(t, err)

		require.Len(t, msg.Attachments(), 1)
		assert.Equal(t, "Q1_Report.eml", msg.Attachments()[0].Filename())
	})

	t.Run("MissingSubjectFallsBack", func(t *testing.T) {
		ft := newFakeTransport()
		ft.structure = structureWithMessagePart()
		ft.bodies = map[string][]byte{
			"1": []byte("covering note"),
			"2": []byte("From: x@example.com\r\n\r\nforwarded body"),
		}

		msg, err := Load(ft, "INBOX", 7)
		require.NoError(t, err)

		require.Len(t, msg.Attachments(), 1)
		assert.Equal(t, "email.eml", msg.Attachments()[0].Filename())
	})

	t.Run("FetchFailureSkipsAttachment", func(t *testing.T) {
		ft := newFakeTransport()
		ft.structure = structureWithMessagePart()
		ft.bodies = map[string][]byte{"1": []byte("covering note")}

		msg, err := Load(ft, "INBOX", 7)
		require.NoError(t, err)

		// One bad attachment never aborts the load.
		assert.Empty(t, msg.Attachments())
		assert.Equal(t, "covering note", msg.textBody)
	})
}

func TestWalkDescriptionPropagation(t *testing.T) {
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{
		Type:    mail.PartMultipart,
		Subtype: "mixed",
		Parts: []*mail.BodyPart{
			{Type: mail.PartText, Subtype: "plain"},
			{
				Type:        mail.PartApplication,
				Subtype:     "pdf",
				Disposition: "attachment",
				Description: "quarterly/report",
				Params:      map[string]string{"name": "ignored.pdf"},
			},
		},
	}
	ft.bodies = map[string][]byte{"1": []byte("text")}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)

	require.Len(t, msg.Attachments(), 1)
	att := msg.Attachments()[0]
	// The sanitized description wins and is mirrored into both
	// metadata fields.
	assert.Equal(t, "quarterly_report", att.Filename())
	assert.Equal(t, "quarterly_report", att.part.Param("name"))
	assert.Equal(t, "quarterly_report", att.part.DispositionParam("filename"))
}

func TestWalkThreadIndexStripped(t *testing.T) {
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{Type: mail.PartText, Subtype: "plain"}
	ft.bodies = map[string][]byte{
		"": []byte("Thread-Index: AcN3qxTJGsYGadfMTHC1d/fOZlp2bA==\nHello there"),
	}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", msg.textBody)
}

func TestWalkEnrichedTextTreatedAsHTML(t *testing.T) {
	// Text subtypes other than "plain" land in the HTML buffer, even
	// when they are not HTML. Long-standing behavior, kept as is.
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{Type: mail.PartText, Subtype: "enriched"}
	ft.bodies = map[string][]byte{"": []byte("<bold>enriched</bold>")}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)

	assert.Empty(t, msg.textBody)
	assert.Equal(t, "<bold>enriched</bold>", msg.htmlBody)
}

func TestWalkDecodesTransferEncoding(t *testing.T) {
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{
		Type:     mail.PartText,
		Subtype:  "plain",
		Encoding: "base64",
	}
	ft.bodies = map[string][]byte{
		"": []byte(base64.StdEncoding.EncodeToString([]byte("decoded payload"))),
	}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)
	assert.Equal(t, "decoded payload", msg.textBody)
}

func TestWalkMultipartContributesNoLiteralText(t *testing.T) {
	// Multipart nodes execute the append step too; with the usual
	// empty extracted body it is a no-op.
	ft := newFakeTransport()
	ft.structure = &mail.BodyPart{
		Type:    mail.PartMultipart,
		Subtype: "mixed",
		Parts: []*mail.BodyPart{
			{
				Type:    mail.PartMultipart,
				Subtype: "mixed",
				Parts: []*mail.BodyPart{
					{Type: mail.PartText, Subtype: "plain"},
				},
			},
		},
	}
	ft.bodies = map[string][]byte{
		"1":   []byte(""),
		"1.1": []byte("nested"),
	}

	msg, err := Load(ft, "INBOX", 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "1.1"}, ft.bodyFetches)
	assert.Equal(t, "nested", msg.textBody)
}
