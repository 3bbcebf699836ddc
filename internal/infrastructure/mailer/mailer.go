// Package mailer emails a finished digest over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/domain/news"
	"github.com/wneessen/go-mail"
)

// ErrNoRecipients is returned when the digest has nowhere to go.
var ErrNoRecipients = errors.New("no email recipients configured")

const sslPort = 465

// Config holds the SMTP account and addressing.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// Enabled reports whether enough is configured to attempt delivery.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && len(recipients(c.To)) > 0
}

// Mailer builds and sends digest emails.
type Mailer struct {
	cfg    Config
	logger *log.Logger
	// send delivers built messages; tests replace it.
	send func(ctx context.Context, msg *mail.Msg) error
}

// New returns a Mailer that dials the configured server for each send.
func New(cfg Config, logger *log.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = sslPort
	}
	if strings.TrimSpace(cfg.Subject) == "" {
		cfg.Subject = "Viral news cards"
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Mailer{cfg: cfg, logger: logger}
	m.send = m.dialAndSend
	return m
}

// Name implements usecase.Publisher.
func (m *Mailer) Name() string { return "mail" }

// Publish implements usecase.Publisher.
func (m *Mailer) Publish(ctx context.Context, digest news.Digest) error {
	return m.Send(ctx, digest)
}

// Send emails the digest as an HTML summary with a plain-text alternative and
// attaches each rendered card as its own .html file.
func (m *Mailer) Send(ctx context.Context, digest news.Digest) error {
	to := recipients(m.cfg.To)
	if len(to) == 0 {
		return ErrNoRecipients
	}
	msg, err := m.build(digest, to)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info("digest mailed", "recipients", len(to), "cards", len(digest.Cards))
	return nil
}

func (m *Mailer) build(digest news.Digest, to []string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(Subject(m.cfg.Subject, digest))
	msg.SetBodyString(mail.TypeTextPlain, PlainBody(digest))
	msg.AddAlternativeString(mail.TypeTextHTML, HTMLBody(digest))
	for _, c := range digest.Cards {
		err := msg.AttachReader(c.FileName, strings.NewReader(c.HTML), mail.WithFileContentType(mail.TypeTextHTML))
		if err != nil {
			return nil, fmt.Errorf("attach card %s: %w", c.FileName, err)
		}
	}
	return msg, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(30 * time.Second),
	}
	if m.cfg.Port == sslPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// Subject appends the run date to the configured subject.
func Subject(base string, digest news.Digest) string {
	if digest.GeneratedAt.IsZero() {
		return base
	}
	return fmt.Sprintf("%s - %s", base, digest.GeneratedAt.Format("02 Jan 2006"))
}

// PlainBody lists each post with its link.
func PlainBody(digest news.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d viral posts generated", len(digest.Posts))
	if digest.Model != "" {
		fmt.Fprintf(&b, " by %s", digest.Model)
	}
	b.WriteString("\n\n")
	for i, p := range digest.Posts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Title)
		if p.POV != "" {
			fmt.Fprintf(&b, "   %s\n", p.POV)
		}
		if len(p.Hashtags) > 0 {
			fmt.Fprintf(&b, "   %s\n", strings.Join(p.Hashtags, " "))
		}
		if p.ArticleURL != "" {
			fmt.Fprintf(&b, "   %s\n", p.ArticleURL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTMLBody renders each post inline as a plain styled block. Mail clients
// strip frames and most CSS, so the full cards travel as attachments.
func HTMLBody(digest news.Digest) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family:sans-serif;max-width:600px">`)
	fmt.Fprintf(&b, "<p>%d viral posts generated.</p>", len(digest.Posts))
	for _, p := range digest.Posts {
		b.WriteString(`<div style="margin:16px 0;padding:12px;border-left:4px solid #444">`)
		fmt.Fprintf(&b, "<h3 style=\"margin:0 0 8px\">%s</h3>", html.EscapeString(p.Title))
		if p.POV != "" {
			fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(p.POV))
		}
		if len(p.Hashtags) > 0 {
			fmt.Fprintf(&b, "<p style=\"color:#555\">%s</p>", html.EscapeString(strings.Join(p.Hashtags, " ")))
		}
		if p.ArticleURL != "" {
			u := html.EscapeString(p.ArticleURL)
			fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, u, u)
		}
		b.WriteString("</div>")
	}
	if len(digest.Cards) > 0 {
		b.WriteString("<p>Attached cards:</p><ul>")
		for _, c := range digest.Cards {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(c.FileName))
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func recipients(to []string) []string {
	out := make([]string, 0, len(to))
	for _, addr := range to {
		for part := range strings.SplitSeq(addr, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
