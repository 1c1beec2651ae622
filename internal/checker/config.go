package checker

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"visacheck/internal/notify"
	"visacheck/internal/scrapers/usvisa"
	"visacheck/pkg/configutil"
)

type TimeoutConfig struct {
	// StepSeconds bounds every wait or interaction with the portal.
	StepSeconds int `json:"step_seconds"`
	// PolicySeconds bounds each attempt at ticking the policy checkbox.
	PolicySeconds int `json:"policy_seconds"`
	// NotifyGraceSeconds is how long a run waits for its notification to go out.
	NotifyGraceSeconds int `json:"notify_grace_seconds"`
}

func (t TimeoutConfig) Step() time.Duration {
	return time.Duration(t.StepSeconds) * time.Second
}

func (t TimeoutConfig) Policy() time.Duration {
	return time.Duration(t.PolicySeconds) * time.Second
}

func (t TimeoutConfig) NotifyGrace() time.Duration {
	return time.Duration(t.NotifyGraceSeconds) * time.Second
}

type BrowserConfig struct {
	// Browser is chromium, firefox or webkit.
	Browser  string   `json:"browser"`
	Headed   bool     `json:"headed"`
	SlowMoMs int      `json:"slow_mo_ms"`
	Args     []string `json:"args"`
}

const (
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
)

type NotificationConfig struct {
	// Provider is sendgrid (default) or smtp.
	Provider string `json:"provider"`
	// SendGridURL overrides the SendGrid api base url.
	SendGridURL string               `json:"sendgrid_url"`
	Message     notify.MessageConfig `json:"message"`
}

type SnapshotConfig struct {
	Enabled bool `json:"enabled"`
	// Directory may start with <dev_state>.
	Directory string `json:"directory"`
}

type Config struct {
	LoginURL string `json:"login_url"`
	Location string `json:"location"`
	// Timezone is the IANA zone check times are reported in.
	Timezone     string             `json:"timezone"`
	Timeouts     TimeoutConfig      `json:"timeouts"`
	Browser      BrowserConfig      `json:"browser"`
	Notification NotificationConfig `json:"notification"`
	SMTP         notify.SMTPConfig  `json:"smtp"`
	Snapshots    SnapshotConfig     `json:"snapshots"`
	Selectors    usvisa.Selectors   `json:"selectors"`
}

const defaultLoginURL = "https://ais.usvisa-info.com/en-ca/iv/users/sign_in"

const defaultHTML = `<p>We have checked the visa appointment availability in {{.Location}} and found a slot. ` +
	`Go to <a href="{{.LoginURL}}">U.S Visa Appointment Service</a> to schedule your appointment.</p>`

const defaultText = `We have checked the visa appointment availability in {{.Location}} and found a slot.
Go to {{.LoginURL}} to schedule your appointment.`

func DefaultConfig() Config {
	return Config{
		LoginURL: defaultLoginURL,
		Location: "Montreal",
		Timeouts: TimeoutConfig{
			StepSeconds:        30,
			PolicySeconds:      5,
			NotifyGraceSeconds: 30,
		},
		Browser: BrowserConfig{
			Browser: "chromium",
			Args:    []string{"--no-sandbox", "--disable-dev-shm-usage"},
		},
		Notification: NotificationConfig{
			Provider: ProviderSendGrid,
			Message: notify.MessageConfig{
				To:      "recipient@example.com",
				From:    "sender@example.com",
				Subject: "U.S Visa Appointment Has Opened!",
				HTML:    defaultHTML,
				Text:    defaultText,
			},
		},
		SMTP: notify.SMTPConfig{
			Port: 587,
		},
		Snapshots: SnapshotConfig{
			Directory: "<dev_state>/snapshots",
		},
		Selectors: usvisa.DefaultSelectors(),
	}
}

func (c Config) Validate() error {
	var errlist []error
	if _, err := url.ParseRequestURI(c.LoginURL); err != nil {
		errlist = append(errlist, fmt.Errorf("login_url: %w", err))
	}
	if strings.TrimSpace(c.Location) == "" {
		errlist = append(errlist, fmt.Errorf("location must not be empty"))
	}
	if c.Timeouts.StepSeconds <= 0 || c.Timeouts.PolicySeconds <= 0 || c.Timeouts.NotifyGraceSeconds <= 0 {
		errlist = append(errlist, fmt.Errorf("timeouts must be positive"))
	}
	switch c.Notification.Provider {
	case ProviderSendGrid:
	case ProviderSMTP:
		if c.SMTP.Server == "" {
			errlist = append(errlist, fmt.Errorf("smtp.server is required for the smtp provider"))
		}
	default:
		errlist = append(errlist, fmt.Errorf("unknown notification provider %q", c.Notification.Provider))
	}
	if err := c.Notification.Message.Validate(); err != nil {
		errlist = append(errlist, err)
	}
	if err := c.Selectors.Validate(); err != nil {
		errlist = append(errlist, err)
	}

	err := errors.Join(errlist...)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig merges the config file at `path` (and its .local variant) over
// DefaultConfig. Neither file has to exist.
func LoadConfig(path string) (Config, error) {
	config, err := configutil.ReadWithDefaults(path, DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
