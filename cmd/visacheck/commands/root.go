package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	"visacheck/internal/checker"
	"visacheck/internal/components/telemetry"
	"visacheck/pkg/configutil"

	"github.com/spf13/cobra"
)

const serviceName = "visacheck"

var (
	configPath string
	envFile    string
	verbose    bool
	logFormat  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "config.json5", "The config file, config.local.json5 next to it overrides it.")
	flags.StringVar(&envFile, "env-file", ".env", "A dotenv file to load secrets from, values already in the environment win.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	flags.StringVar(&logFormat, "log-format", "text", "Either text or json.")
}

var rootCmd = &cobra.Command{
	Use:   "visacheck",
	Short: "visacheck checks the U.S. visa appointment portal for open slots and emails you when there are some.",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logFormat != "text" && logFormat != "json" {
			return fmt.Errorf("unknown log format %q", logFormat)
		}
		logger := telemetry.InitSlog(telemetry.LogOptions{
			Verbose: verbose,
			Format:  logFormat,
			Output:  os.Stderr,
		})

		err := configutil.LoadDotEnv(envFile)
		if err != nil {
			return err
		}

		exporters, err := telemetry.SetupFromEnv(cmd.Context(), serviceName)
		if err != nil {
			// export is optional, the run goes on without it
			slog.Warn("failed to setup telemetry export", "err", err)
		}
		var tel telemetry.API = telemetry.NewSlogAPI(logger)
		otelAPI, err := telemetry.NewOtelAPI(tel)
		if err != nil {
			slog.Warn("failed to create otel instruments", "err", err)
		} else {
			tel = otelAPI
		}

		config, err := checker.LoadConfig(configPath)
		if err != nil {
			return err
		}

		cmd.SetContext(setGlobals(cmd.Context(), &Globals{
			Config:     config,
			Telemetry:  tel,
			exporters:  exporters,
			configPath: configPath,
		}))
		return nil
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 5*time.Second)
		defer cancel()
		return getGlobals(cmd.Context()).exporters.Shutdown(ctx)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
