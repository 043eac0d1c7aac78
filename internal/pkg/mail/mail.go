package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Config holds mail provider settings.
type Config struct {
	Enable    bool   `json:"enable"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	User      string `json:"user"`
	Pass      string `json:"pass"`
	From      string `json:"from"`
	ReplyTo   string `json:"reply_to"`
	UseResend bool   `json:"use_resend"`
	ResendKey string `json:"resend_key"`
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg       Config
	resendAPI string
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// ErrDisabled is returned when mail delivery is turned off.
var ErrDisabled = errors.New("mail: delivery disabled")

// Send dispatches an email. Uses Resend if configured, otherwise SMTP.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.cfg.Enable {
		return ErrDisabled
	}
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend(ctx, msg)
	}
	return s.sendSMTP(ctx, msg)
}

// smtpTimeout bounds a whole SMTP exchange when ctx has no deadline.
const smtpTimeout = 30 * time.Second

// sendSMTP sends via net/smtp. The connection is dialed with ctx and torn
// down when ctx ends, so a stalled server cannot hold the caller.
func (s *Sender) sendSMTP(ctx context.Context, msg Message) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", s.cfg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(smtpTimeout)
	}
	dialer := &net.Dialer{Timeout: time.Until(deadline)}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); ok && s.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (s *Sender) resendURL() string {
	if s.resendAPI != "" {
		return s.resendAPI
	}
	return "https://api.resend.com/emails"
}

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"from":    from,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resendURL(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

const magicLinkTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;background:#eff6ff;padding:20px">
<div style="max-width:560px;margin:0 auto;background:#fff;border-radius:16px;padding:24px">
  <h2 style="color:#6d28d9">Sign in to {{.SiteName}}</h2>
  <p>Follow the link below to open your mood journal. It works once and expires in {{.ExpiresIn}}.</p>
  <p style="margin-top:24px">
    <a href="{{.LoginURL}}" style="background:#2563eb;color:#fff;padding:10px 18px;text-decoration:none;border-radius:8px">Log in</a>
  </p>
  <p style="color:#6b7280;font-size:12px">If you did not ask for this email you can ignore it.</p>
  <p style="font-size:10px;text-align:center;color:#9ca3af">&copy;{{year}} {{.SiteName}}</p>
</div>
</body>
</html>`

// MagicLinkData is the data for passwordless sign-in emails.
type MagicLinkData struct {
	SiteName  string
	LoginURL  string
	ExpiresIn string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendMagicLink emails a one-time sign-in link.
func (s *Sender) SendMagicLink(ctx context.Context, to string, data MagicLinkData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Daily Mood Tracker"
	}
	html, err := renderTemplate(magicLinkTpl, data)
	if err != nil {
		return err
	}
	return s.Send(ctx, Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Your magic link", data.SiteName),
		HTML:    html,
	})
}
