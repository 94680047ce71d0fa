package report

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_NotConfigured(t *testing.T) {
	m := NewMailer(SMTPConfig{Username: "alerts@example.com"})
	assert.False(t, m.Configured())
	err := m.Send(context.Background(), "sales@example.com", "s", "<p>x</p>")
	assert.ErrorIs(t, err, ErrMailerNotConfigured)

	m = NewMailer(SMTPConfig{Password: "secret"})
	assert.ErrorIs(t, m.Send(context.Background(), "sales@example.com", "s", "<p>x</p>"), ErrMailerNotConfigured)
}

func TestMailer_Defaults(t *testing.T) {
	m := NewMailer(SMTPConfig{})
	assert.Equal(t, "smtp.gmail.com", m.cfg.Host)
	assert.Equal(t, 465, m.cfg.Port)
}

func TestBuildMessage(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body><h1>3 leads</h1><p>Samsung &amp; Co &middot; Warszawa</p></body></html>`
	date := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)

	raw, err := BuildMessage("alerts@example.com", "sales@example.com", "2 Companies Scaling HR Teams This Week | Polish Job Market Alerter", html, date)
	require.NoError(t, err)

	r, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := r.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "2 Companies Scaling HR Teams This Week | Polish Job Market Alerter", subject)

	to, err := r.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "sales@example.com", to[0].Address)

	from, err := r.Header.AddressList("From")
	require.NoError(t, err)
	assert.Equal(t, "alerts@example.com", from[0].Address)

	got, err := r.Header.Date()
	require.NoError(t, err)
	assert.True(t, date.Equal(got))

	bodies := map[string]string{}
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		h, ok := p.Header.(*mail.InlineHeader)
		require.True(t, ok)
		ct, _, err := h.ContentType()
		require.NoError(t, err)
		b, err := io.ReadAll(p.Body)
		require.NoError(t, err)
		bodies[ct] = string(b)
	}

	assert.Equal(t, html, bodies["text/html"])
	assert.Equal(t, "3 leads\nSamsung & Co · Warszawa", bodies["text/plain"])
}

func TestPlainText_DecodesTemplateEscapes(t *testing.T) {
	tmpl := template.Must(template.New("p").Parse(
		`<html><head><title>x</title></head><body><h2>Hot leads</h2><ul><li><a href="{{.URL}}">{{.Title}}</a> <span>{{.City}}</span></li></ul>` +
			`<table><tr><td>New HR postings</td><td>7</td></tr></table><p>a<br>b</p></body></html>`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, map[string]string{
		"URL":   "https://nofluffjobs.com/pl/job/a?x=1&y=2",
		"Title": `Specjalista "HR" C++ & Spółka`,
		"City":  "Kraków",
	}))
	require.Contains(t, buf.String(), "&#34;")
	require.Contains(t, buf.String(), "&#43;")

	text, err := plainText(buf.String())
	require.NoError(t, err)
	assert.Equal(t, "Hot leads\nSpecjalista \"HR\" C++ & Spółka Kraków\nNew HR postings 7\na\nb", text)
	assert.NotContains(t, text, "&#")
}
