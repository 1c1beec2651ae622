package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"visacheck/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	report_sendgrid_send = "sendgrid.send"

	defaultSendGridURL = "https://api.sendgrid.com"
	sendGridMailPath   = "/v3/mail/send"
)

type SendGridOptions struct {
	// BaseURL defaults to https://api.sendgrid.com.
	BaseURL string
	Timeout time.Duration
	// Dump receives the full text of every request when set.
	Dump      telemetry.HTTPDump
	Telemetry telemetry.API
}

// SendGridSender sends through SendGrid's v3 mail send endpoint.
type SendGridSender struct {
	client *resty.Client
	tel    telemetry.API
}

func NewSendGridSender(apiKey string, opts SendGridOptions) (SendGridSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return SendGridSender{}, ErrMissingAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultSendGridURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewSlogAPI(nil)
	}
	tel := telemetry.NewScopedAPI("notify", opts.Telemetry)

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	telemetry.InstrumentResty(client, tel, opts.Dump)

	return SendGridSender{client: client, tel: tel}, nil
}

func parseAddress(field, value string) (*sgmail.Email, error) {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s address %q: %w", field, value, err)
	}
	return sgmail.NewEmail(addr.Name, addr.Address), nil
}

// Payload builds the v3 mail send request body.
func Payload(msg Message) ([]byte, error) {
	from, err := parseAddress("from", msg.From)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress("to", msg.To)
	if err != nil {
		return nil, err
	}

	// sendgrid requires text/plain to come before text/html
	var contents []*sgmail.Content
	if msg.Text != "" {
		contents = append(contents, sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		contents = append(contents, sgmail.NewContent("text/html", msg.HTML))
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("message has no body")
	}

	return sgmail.GetRequestBody(sgmail.NewV3MailInit(from, msg.Subject, to, contents...)), nil
}

func (s SendGridSender) Send(ctx context.Context, msg Message) (Response, error) {
	body, err := Payload(msg)
	if err != nil {
		s.tel.ReportBroken(report_sendgrid_send, err)
		return Response{}, fmt.Errorf("sendgrid: %w", err)
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(sendGridMailPath)
	if err != nil {
		s.tel.ReportBroken(report_sendgrid_send, err)
		return Response{}, fmt.Errorf("sendgrid: %w", err)
	}

	out := Response{
		StatusCode: res.StatusCode(),
		Headers:    res.Header().Clone(),
	}
	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		err = fmt.Errorf("sendgrid: unexpected status %s: %s", res.Status(), strings.TrimSpace(res.String()))
		s.tel.ReportBroken(report_sendgrid_send, err)
		return out, err
	}
	return out, nil
}
