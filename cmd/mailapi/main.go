package main

import (
	"flag"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/freeflowuniverse/heromail/api/routes"
	"github.com/freeflowuniverse/heromail/pkg/imapclient"
)

func main() {
	// Parse command line flags
	listenAddr := flag.String("listen", ":9080", "HTTP listen address")
	imapAddr := flag.String("imap-addr", "localhost:143", "IMAP server address")
	useTLS := flag.Bool("tls", false, "Connect with implicit TLS")
	username := flag.String("username", "", "IMAP username")
	password := flag.String("password", "", "IMAP password")
	mailbox := flag.String("mailbox", "INBOX", "Mailbox to serve messages from")
	flag.Parse()

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

	if err := c.SelectMailbox(*mailbox); err != nil {
		log.Fatal("Failed to select mailbox:", err)
	}

	app := fiber.New()
	routes.NewMessageHandler(c, *mailbox).RegisterRoutes(app)

	log.Println("Serving message API on", *listenAddr)
	if err := app.Listen(*listenAddr); err != nil {
		log.Fatal("HTTP server failed:", err)
	}
}
