package report

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hr-alerter/internal/scrape/util"
)

var ErrMailerNotConfigured = errors.New("smtp credentials not configured")

// Sender delivers one HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Mailer sends over SMTP with implicit TLS (port 465 style).
type Mailer struct {
	cfg SMTPConfig
	now func() time.Time
}

func NewMailer(cfg SMTPConfig) *Mailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	return &Mailer{cfg: cfg, now: time.Now}
}

func (m *Mailer) Configured() bool {
	return strings.TrimSpace(m.cfg.Username) != "" && m.cfg.Password != ""
}

func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if !m.Configured() {
		return ErrMailerNotConfigured
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("no recipient")
	}

	msg, err := BuildMessage(m.cfg.Username, to, subject, html, m.now())
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	d := tls.Dialer{NetDialer: &net.Dialer{Timeout: 30 * time.Second}, Config: &tls.Config{ServerName: m.cfg.Host}}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.cfg.Username); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("report email sent")
	return c.Quit()
}

// BuildMessage renders a multipart/alternative message with a plain-text
// fallback derived from html.
func BuildMessage(from, to, subject, html string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Name: "HR Alerter", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	h.SetMessageID(uuid.NewString() + "@hr-alerter")

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	tw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}

	text, err := plainText(html)
	if err != nil {
		return nil, fmt.Errorf("plain text part: %w", err)
	}
	parts := []struct{ typ, body string }{
		{"text/plain", text},
		{"text/html", html},
	}
	for _, p := range parts {
		var ph mail.InlineHeader
		ph.SetContentType(p.typ, map[string]string{"charset": "utf-8"})
		w, err := tw.CreatePart(ph)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, p.body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plainText renders html as one line per block element.
func plainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("head, style, script").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td, th").AppendHtml(" ")
	doc.Find("h1, h2, h3, h4, p, div, li, tr, ul, table").AppendHtml("\n")

	var lines []string
	for _, l := range strings.Split(doc.Text(), "\n") {
		if l = util.CleanText(l); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n"), nil
}
