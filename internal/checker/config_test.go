package checker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	require.Equal(t, "https://ais.usvisa-info.com/en-ca/iv/users/sign_in", config.LoginURL)
	require.Equal(t, "Montreal", config.Location)
	require.False(t, config.Browser.Headed)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	err := os.WriteFile(path, []byte(`{
		// only what differs from the defaults
		location: "Toronto",
		browser: { headed: true },
		notification: {
			message: { to: "someone@example.com" },
		},
	}`), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		timeouts: { step_seconds: 90 },
	}`), 0o644)
	require.NoError(t, err)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	defaults := DefaultConfig()
	require.Equal(t, "Toronto", config.Location)
	require.True(t, config.Browser.Headed)
	require.Equal(t, defaults.Browser.Args, config.Browser.Args)
	require.Equal(t, "someone@example.com", config.Notification.Message.To)
	require.Equal(t, defaults.Notification.Message.Subject, config.Notification.Message.Subject)
	require.Equal(t, 90, config.Timeouts.StepSeconds)
	require.Equal(t, defaults.Timeouts.PolicySeconds, config.Timeouts.PolicySeconds)
	require.Equal(t, defaults.Selectors, config.Selectors)
}

func TestConfigValidation(t *testing.T) {
	table := []struct {
		name   string
		modify func(c *Config)
		expect string
	}{
		{name: "login url", modify: func(c *Config) { c.LoginURL = "nope" }, expect: "login_url"},
		{name: "location", modify: func(c *Config) { c.Location = "" }, expect: "location"},
		{name: "provider", modify: func(c *Config) { c.Notification.Provider = "pigeon" }, expect: "pigeon"},
		{name: "smtp server", modify: func(c *Config) { c.Notification.Provider = ProviderSMTP }, expect: "smtp.server"},
		{name: "selectors", modify: func(c *Config) { c.Selectors.SubmitButton = "" }, expect: "submit_button"},
		{name: "timeouts", modify: func(c *Config) { c.Timeouts.StepSeconds = 0 }, expect: "timeouts"},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			config := DefaultConfig()
			row.modify(&config)
			require.ErrorContains(t, config.Validate(), row.expect)
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	creds, err := LoadCredentials(func(key string) string {
		return map[string]string{
			EnvUserEmail:    " user@example.com\n",
			EnvUserPassword: " pass with spaces ",
		}[key]
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", creds.Email)
	require.Equal(t, " pass with spaces ", creds.Password)

	_, err = LoadCredentials(func(string) string { return "" })
	require.ErrorIs(t, err, ErrMissingEnv)
	require.EqualError(t, err, "missing environment variables: USER_EMAIL, USER_PASSWORD")
}

func TestNewSenderProviders(t *testing.T) {
	config := DefaultConfig()

	_, err := NewSender(config, func(string) string { return "" }, nil, nil)
	require.ErrorContains(t, err, EnvSendGridAPIKey)

	sender, err := NewSender(config, func(string) string { return "SG.key" }, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, sender)

	config.Notification.Provider = ProviderSMTP
	config.SMTP.Server = "localhost"
	sender, err = NewSender(config, func(string) string { return "" }, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, sender)
}
