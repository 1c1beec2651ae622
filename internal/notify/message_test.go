package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type templateData struct {
	LoginURL string
	Location string
}

func TestRender(t *testing.T) {
	config := MessageConfig{
		To:      " wefa@example.com ",
		From:    "auth@example.com",
		Subject: "Appointments open in {{.Location}}",
		HTML:    `<p>Go to <a href="{{.LoginURL}}">{{.Location}}</a></p>`,
		Text:    "Go to {{.LoginURL}}",
	}

	msg, err := config.Render(templateData{
		LoginURL: "https://ais.usvisa-info.com/en-ca/iv/users/sign_in",
		Location: "Montreal <QC>",
	})
	require.NoError(t, err)
	require.Equal(t, Message{
		To:      "wefa@example.com",
		From:    "auth@example.com",
		Subject: "Appointments open in Montreal <QC>",
		HTML:    `<p>Go to <a href="https://ais.usvisa-info.com/en-ca/iv/users/sign_in">Montreal &lt;QC&gt;</a></p>`,
		Text:    "Go to https://ais.usvisa-info.com/en-ca/iv/users/sign_in",
	}, msg)
}

func TestRenderValidation(t *testing.T) {
	table := []struct {
		name    string
		config  MessageConfig
		missing string
	}{
		{
			name:    "no recipient",
			config:  MessageConfig{From: "a@example.com", Subject: "s", HTML: "h"},
			missing: "to",
		},
		{
			name:    "no sender",
			config:  MessageConfig{To: "a@example.com", Subject: "s", Text: "t"},
			missing: "from",
		},
		{
			name:    "no body",
			config:  MessageConfig{To: "a@example.com", From: "b@example.com", Subject: "s"},
			missing: "html or text",
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			_, err := row.config.Render(templateData{})
			require.ErrorContains(t, err, row.missing)
		})
	}
}

func TestRenderUnknownField(t *testing.T) {
	config := MessageConfig{
		To:      "a@example.com",
		From:    "b@example.com",
		Subject: "{{.Nope}}",
		Text:    "body",
	}
	_, err := config.Render(templateData{})
	require.ErrorContains(t, err, "subject")
}
