package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Location string   `json:"location"`
	Port     int      `json:"port"`
	Args     []string `json:"args"`
	Nested   struct {
		Headed bool `json:"headed"`
	} `json:"nested"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

func TestSplitExt(t *testing.T) {
	table := []struct {
		input  string
		prefix string
		ext    string
	}{
		{input: "config.json5", prefix: "config", ext: "json5"},
		{input: "config.local.json5", prefix: "config.local", ext: "json5"},
		{input: "config", prefix: "config", ext: ""},
	}
	for _, row := range table {
		prefix, ext := splitExt(row.input)
		require.Equal(t, row.prefix, prefix)
		require.Equal(t, row.ext, ext)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		location: "Montreal",
		port: 587,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ location: "Toronto", nested: { headed: true } }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "Toronto", cfg.Location)
	require.Equal(t, 587, cfg.Port)
	require.True(t, cfg.Nested.Headed)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ location: `)
	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadWithDefaults(t *testing.T) {
	defaults := testConfig{Location: "Montreal", Port: 25, Args: []string{"--no-sandbox"}}

	cfg, err := ReadWithDefaults(filepath.Join(t.TempDir(), "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ port: 2525 }`)
	cfg, err = ReadWithDefaults(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, "Montreal", cfg.Location)
	require.Equal(t, 2525, cfg.Port)
	require.Equal(t, []string{"--no-sandbox"}, cfg.Args)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, filepath.Join(root, "telemetry.json5"), `{ location: "found" }`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(wd)

	cfg, err := ReadRecursively[testConfig]("telemetry.json5")
	require.NoError(t, err)
	require.Equal(t, "found", cfg.Location)

	_, err = ReadRecursively[testConfig]("does-not-exist.json5")
	require.True(t, os.IsNotExist(err))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "VISACHECK_TEST_NEW=from-file\nVISACHECK_TEST_SET=from-file\n")

	t.Setenv("VISACHECK_TEST_SET", "from-env")
	t.Setenv("VISACHECK_TEST_NEW", "")
	os.Unsetenv("VISACHECK_TEST_NEW")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	require.Equal(t, "from-file", os.Getenv("VISACHECK_TEST_NEW"))
	require.Equal(t, "from-env", os.Getenv("VISACHECK_TEST_SET"))
}
