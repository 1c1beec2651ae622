package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("usvisa", rec)

	scoped.ReportBroken("client.login", errors.New("boom"))
	scoped.ReportWarning("client.accept-policy")
	scoped.ReportDebug("expanded")
	scoped.ReportCount("checks", 3)

	reports := rec.Reports()
	require.Len(t, reports, 4)
	require.Equal(t, "usvisa: client.login", reports[0].ID)
	require.Equal(t, KindBroken, reports[0].Kind)
	require.Equal(t, "usvisa: client.accept-policy", reports[1].ID)
	require.Equal(t, "usvisa: expanded", reports[2].ID)

	count, ok := rec.Count("checks")
	require.True(t, ok)
	require.Equal(t, int64(3), count)
}

func TestSlogAPI(t *testing.T) {
	buff := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buff, &slog.HandlerOptions{Level: slog.LevelDebug}))
	api := NewSlogAPI(logger)

	api.ReportBroken("client.login", errors.New("selector not found"), "https://example.com")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buff.Bytes(), &line))
	require.Equal(t, "broken component", line["msg"])
	require.Equal(t, "client.login", line["id"])
	require.Equal(t, "selector not found", line["params.0"])
	require.Equal(t, "https://example.com", line["params.1"])
}

func TestInitSlogJSON(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	buff := &bytes.Buffer{}
	InitSlog(LogOptions{Format: "json", Output: buff})

	slog.Debug("hidden")
	slog.Info("shown")
	require.NotContains(t, buff.String(), "hidden")
	require.Contains(t, buff.String(), `"msg":"shown"`)
}

func TestSetupFromEnvMissingConfig(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	exporters, err := SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, exporters.TracerProvider)
	require.Nil(t, exporters.MeterProvider)
	require.NoError(t, exporters.Shutdown(context.Background()))
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Message-Id", "abc")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	dump, err := NewDirectoryDump(dir)
	require.NoError(t, err)

	rec := &Recorder{}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentResty(client, rec, dump)

	_, err = client.R().
		SetHeader("Authorization", "Bearer secret").
		SetBody(map[string]string{"hello": "world"}).
		Post("/v3/mail/send")
	require.NoError(t, err)

	require.Len(t, rec.Find(KindDebug, report_resty_request), 1)
	require.Len(t, rec.Find(KindDebug, report_resty_response), 1)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	text := string(contents)
	require.True(t, strings.HasPrefix(text, "---- REQUEST ----"))
	require.Contains(t, text, "Authorization: <redacted>")
	require.NotContains(t, text, "secret")
	require.Contains(t, text, "X-Message-Id: abc")
	require.Contains(t, text, `{"hello":"world"}`)
}
