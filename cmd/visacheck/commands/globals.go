package commands

import (
	"context"
	"visacheck/internal/checker"
	"visacheck/internal/components/telemetry"
)

type globalsKey struct{}

// Globals is what the root command sets up for every subcommand.
type Globals struct {
	Config     checker.Config
	Telemetry  telemetry.API
	exporters  telemetry.Exporters
	configPath string
}

func setGlobals(ctx context.Context, value *Globals) context.Context {
	return context.WithValue(ctx, globalsKey{}, value)
}

func getGlobals(ctx context.Context) *Globals {
	return ctx.Value(globalsKey{}).(*Globals)
}
