// Package notify delivers the "appointments available" email.
package notify

import (
	"context"
	"errors"
	"net/http"
)

var ErrMissingAPIKey = errors.New("missing email api key")

// Message is a fully rendered email.
type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// Response is what the mail provider answered, for logging.
type Response struct {
	StatusCode int
	Headers    http.Header
}

// Sender delivers a single message.
//
// note: fault injection point
type Sender interface {
	Send(ctx context.Context, msg Message) (Response, error)
}
