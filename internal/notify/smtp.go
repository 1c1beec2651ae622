package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"visacheck/internal/components/telemetry"

	"github.com/jordan-wright/email"
)

const report_smtp_send = "smtp.send"

type SMTPConfig struct {
	Server string `json:"server"`
	Port   int    `json:"port"`
	// Address is the account used to sign in, it is also the sender when a
	// message has no From.
	Address string `json:"address"`
}

type SMTPSender struct {
	config   SMTPConfig
	password string
	tel      telemetry.API
}

func NewSMTPSender(config SMTPConfig, password string, tel telemetry.API) (SMTPSender, error) {
	if config.Server == "" {
		return SMTPSender{}, fmt.Errorf("smtp: server must not be empty")
	}
	if config.Port <= 0 {
		config.Port = 587
	}
	if tel == nil {
		tel = telemetry.NewSlogAPI(nil)
	}
	return SMTPSender{
		config:   config,
		password: password,
		tel:      telemetry.NewScopedAPI("notify", tel),
	}, nil
}

func (s SMTPSender) addr() string {
	return fmt.Sprintf("%s:%d", s.config.Server, s.config.Port)
}

func (s SMTPSender) Send(ctx context.Context, msg Message) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	mail := email.NewEmail()
	mail.From = msg.From
	if mail.From == "" {
		mail.From = s.config.Address
	}
	mail.To = []string{msg.To}
	mail.Subject = msg.Subject
	if msg.Text != "" {
		mail.Text = []byte(msg.Text)
	}
	if msg.HTML != "" {
		mail.HTML = []byte(msg.HTML)
	}

	var auth smtp.Auth
	if s.password != "" {
		auth = smtp.PlainAuth("", s.config.Address, s.password, s.config.Server)
	}

	err := mail.Send(s.addr(), auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		s.tel.ReportDebug("smtp server has no AUTH, retrying without it", s.addr())
		err = mail.Send(s.addr(), nil)
	}
	if err != nil {
		s.tel.ReportBroken(report_smtp_send, err)
		return Response{}, fmt.Errorf("smtp: send to %s: %w", s.addr(), err)
	}

	headers := http.Header{}
	headers.Set("X-Smtp-Server", s.addr())
	return Response{StatusCode: 250, Headers: headers}, nil
}
