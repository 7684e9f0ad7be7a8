package notify

import (
	"crypto/tls" // Implicit TLS on port 465
	"errors"     // Sentinel errors
	"fmt"        // Formatting
	"net"        // Raw connections
	"net/smtp"   // SMTP client
	"strings"    // Header building
)

// ErrNotConfigured is returned when no SMTP credentials are set
var ErrNotConfigured = errors.New("notify: MAIL_USERNAME not configured")

// Message is one outbound email
type Message struct {
	Subject string
	To      string
	HTML    string // Complete HTML document
}

// Sender delivers a rendered message
type Sender interface {
	Deliver(msg Message) error
}

// SMTPConfig holds relay settings. They come from configuration only, never from callers.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail through an authenticated SMTP relay
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a sender for cfg
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg}
}

// Deliver sends msg. Port 465 uses implicit TLS; other ports use STARTTLS when offered.
func (s *SMTPSender) Deliver(msg Message) error {
	if s.cfg.Username == "" {
		return ErrNotConfigured
	}
	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	raw := buildRaw(s.cfg.From, msg)
	if s.cfg.Port == "465" {
		return s.sendTLS(addr, auth, msg.To, raw)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, raw)
}

func (s *SMTPSender) sendTLS(addr string, auth smtp.Auth, to string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("notify: TLS dial: %w", err)
	}
	client, err := openClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return w.Close()
}

// openClient starts an SMTP session on conn, closing conn if the greeting fails
func openClient(conn net.Conn, host string) (*smtp.Client, error) {
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close() // Nothing else owns it yet
		return nil, fmt.Errorf("notify: greeting: %w", err)
	}
	return client, nil
}

func buildRaw(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: SkyDesk360 <" + from + ">\r\n")
	b.WriteString("To: " + sanitizeHeader(msg.To) + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// sanitizeHeader keeps a header value on one line
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
