package sink

import (
	"bytes"
	"chat-hub/domain"
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const welcomeSubject = "Welcome to Messenger"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Subject}}</title></head>
<body>
  <h1>Welcome to the Community!</h1>
  <p>Hi <strong>{{.Name}}</strong>, thank you for joining us!</p>
  <p>You are now ready to connect with friends, create groups and share moments in real-time.</p>
  <p><a href="{{.ClientURL}}">Open Messenger</a></p>
</body>
</html>
`))

type welcomeData struct {
	Subject   string
	Name      string
	ClientURL string
}

// MailSink renders transactional e-mails and hands them to the log.
// When outboxDir is set, every rendered mail is also written there.
type MailSink struct {
	log       *slog.Logger
	clientURL string
	outboxDir string
}

func NewMailSink(log *slog.Logger, clientURL, outboxDir string) *MailSink {
	return &MailSink{log: log, clientURL: clientURL, outboxDir: outboxDir}
}

// SendWelcome implements contract.Mailer.
func (m *MailSink) SendWelcome(ctx context.Context, user domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, welcomeData{
		Subject:   welcomeSubject,
		Name:      user.FullName,
		ClientURL: m.clientURL,
	}); err != nil {
		return err
	}

	if m.outboxDir != "" {
		if err := os.MkdirAll(m.outboxDir, 0o755); err != nil {
			return err
		}
		name := filepath.Join(m.outboxDir, time.Now().UTC().Format("20060102T150405.000000000")+"-"+user.ID+".html")
		if err := os.WriteFile(name, body.Bytes(), 0o644); err != nil {
			return err
		}
	}
	m.log.Info("Welcome email sent", "to", user.Email, "subject", welcomeSubject, "size", body.Len())
	return nil
}
