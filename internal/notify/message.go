package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// MessageConfig is the templated form of a Message as it appears in config.
// Subject and Text are text templates, HTML is an html template, all of them
// executed against the same data.
type MessageConfig struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

func (c MessageConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(c.From) == "" {
		missing = append(missing, "from")
	}
	if strings.TrimSpace(c.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(c.HTML) == "" && strings.TrimSpace(c.Text) == "" {
		missing = append(missing, "html or text")
	}
	if len(missing) > 0 {
		return fmt.Errorf("notification is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func renderText(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	t, err := texttemplate.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}
	var buff bytes.Buffer
	err = t.Execute(&buff, data)
	if err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}
	return buff.String(), nil
}

func renderHTML(tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	t, err := htmltemplate.New("html").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse html template: %w", err)
	}
	var buff bytes.Buffer
	err = t.Execute(&buff, data)
	if err != nil {
		return "", fmt.Errorf("render html template: %w", err)
	}
	return buff.String(), nil
}

// Render validates the config and expands its templates with `data`.
func (c MessageConfig) Render(data any) (Message, error) {
	err := c.Validate()
	if err != nil {
		return Message{}, err
	}

	subject, err := renderText("subject", c.Subject, data)
	if err != nil {
		return Message{}, err
	}
	text, err := renderText("text", c.Text, data)
	if err != nil {
		return Message{}, err
	}
	html, err := renderHTML(c.HTML, data)
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      strings.TrimSpace(c.To),
		From:    strings.TrimSpace(c.From),
		Subject: strings.TrimSpace(subject),
		HTML:    html,
		Text:    text,
	}, nil
}
