package checker

import (
	"errors"
	"fmt"
	"strings"
	"visacheck/internal/scrapers/usvisa"
)

const (
	EnvUserEmail      = "USER_EMAIL"
	EnvUserPassword   = "USER_PASSWORD"
	EnvSendGridAPIKey = "SENDGRID_API_KEY"
	EnvSMTPPassword   = "SMTP_PASSWORD"
)

var ErrMissingEnv = errors.New("missing environment variables")

// MissingEnvError names every required variable that was unset or empty.
type MissingEnvError struct {
	Names []string
}

func (e MissingEnvError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingEnv.Error(), strings.Join(e.Names, ", "))
}

func (e MissingEnvError) Is(target error) bool {
	return target == ErrMissingEnv
}

// LoadCredentials reads the portal credentials through getenv.
func LoadCredentials(getenv func(string) string) (usvisa.Credentials, error) {
	creds := usvisa.Credentials{
		Email:    strings.TrimSpace(getenv(EnvUserEmail)),
		Password: getenv(EnvUserPassword),
	}

	var missing []string
	if creds.Email == "" {
		missing = append(missing, EnvUserEmail)
	}
	if creds.Password == "" {
		missing = append(missing, EnvUserPassword)
	}
	if len(missing) > 0 {
		return usvisa.Credentials{}, MissingEnvError{Names: missing}
	}
	return creds, nil
}
