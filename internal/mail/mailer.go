package mail

import (
    "log"

    gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single message. Delivery is best-effort: callers log
// failures and move on, there is no retry.
type Sender interface {
    Send(to, subject, body string) error
}

// SMTP sends through a plain SMTP relay.
type SMTP struct {
    dialer *gomail.Dialer
    from   string
}

type SMTPConfig struct {
    Host     string
    Port     int
    Username string
    Password string
    From     string
}

func NewSMTP(cfg SMTPConfig) *SMTP {
    return &SMTP{
        dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
        from:   cfg.From,
    }
}

func (s *SMTP) Send(to, subject, body string) error {
    m := gomail.NewMessage()
    m.SetHeader("From", s.from)
    m.SetHeader("To", to)
    m.SetHeader("Subject", subject)
    m.SetBody("text/plain", body)
    return s.dialer.DialAndSend(m)
}

// Noop is used when SMTP is not configured; it only logs.
type Noop struct{}

func (Noop) Send(to, subject, _ string) error {
    log.Printf("mail disabled, skipping send to=%s subject=%q", to, subject)
    return nil
}
