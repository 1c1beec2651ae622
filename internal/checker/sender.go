package checker

import (
	"fmt"
	"os"
	"visacheck/internal/components/telemetry"
	"visacheck/internal/notify"
)

// NewSender builds the sender named by notification.provider. Secrets come
// from getenv (os.Getenv if nil), a missing SendGrid key is an error.
func NewSender(config Config, getenv func(string) string, dump telemetry.HTTPDump, tel telemetry.API) (notify.Sender, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	switch config.Notification.Provider {
	case ProviderSendGrid, "":
		sender, err := notify.NewSendGridSender(getenv(EnvSendGridAPIKey), notify.SendGridOptions{
			BaseURL:   config.Notification.SendGridURL,
			Timeout:   config.Timeouts.NotifyGrace(),
			Dump:      dump,
			Telemetry: tel,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, EnvSendGridAPIKey)
		}
		return sender, nil
	case ProviderSMTP:
		return notify.NewSMTPSender(config.SMTP, getenv(EnvSMTPPassword), tel)
	}
	return nil, fmt.Errorf("unknown notification provider %q", config.Notification.Provider)
}
