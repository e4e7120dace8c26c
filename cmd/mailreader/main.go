package main

import (
	"context"
	"flag"
	"log"

	"github.com/freeflowuniverse/heromail/pkg/attachmentstore"
	"github.com/freeflowuniverse/heromail/pkg/imapclient"
	"github.com/freeflowuniverse/heromail/pkg/message"
)

func main() {
	// Parse command line flags
	imapAddr := flag.String("imap-addr", "localhost:143", "IMAP server address")
	useTLS := flag.Bool("tls", false, "Connect with implicit TLS")
	username := flag.String("username", "", "IMAP username")
	password := flag.String("password", "", "IMAP password")
	mailbox := flag.String("mailbox", "INBOX", "Mailbox to read from")
	uid := flag.Uint("uid", 0, "UID of the message to load")
	redisAddr := flag.String("redis-addr", "", "Redis address to store attachments in (optional)")
	flag.Parse()

	if *uid == 0 {
		log.Fatal("a message -uid is required")
	}

	log.Println("Connecting to IMAP server at", *imapAddr)

	var c *imapclient.Client
	var err error
	if *useTLS {
		c, err = imapclient.DialTLS(*imapAddr)
	} else {
		c, err = imapclient.Dial(*imapAddr)
	}
	if err != nil {
		log.Fatal("Failed to connect to IMAP server:", err)
	}
	defer func() {
		if err := c.Logout(); err != nil {
			log.Println("Logout failed:", err)
		}
	}()

	if err := c.Login(*username, *password); err != nil {
		log.Fatal("Failed to login:", err)
	}
	log.Println("Logged in as", *username)

	if err := c.SelectMailbox(*mailbox); err != nil {
		log.Fatal("Failed to select mailbox:", err)
	}

	msg, err := message.Load(c, *mailbox, uint32(*uid))
	if err != nil {
		log.Fatal("Failed to load message:", err)
	}

	log.Printf("Subject: %s", msg.Subject())
	log.Printf("Date: %s", msg.Date().Format("2006-01-02 15:04:05"))
	log.Printf("From: %s", msg.FromLine())
	log.Printf("To: %s", msg.ToLine())
	log.Printf("Size: %d bytes", msg.Size())
	log.Printf("Body:\n%s", msg.TextBody())

	for _, att := range msg.Attachments() {
		log.Printf("Attachment: %s (%s, part %s)", att.Filename(), att.ContentType(), att.PartPath())
	}

	// Persist attachments when a store was configured.
	if *redisAddr != "" && len(msg.Attachments()) > 0 {
		store := attachmentstore.New(*redisAddr, 0)
		ctx := context.Background()

		for _, att := range msg.Attachments() {
			key, err := store.Save(ctx, msg, att)
			if err != nil {
				log.Printf("Failed to store attachment %s: %v", att.Filename(), err)
				continue
			}
			log.Printf("Stored attachment %s under key %s", att.Filename(), key)
		}
	}
}
