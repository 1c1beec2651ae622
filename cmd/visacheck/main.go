package main

import (
	"context"
	"visacheck/cmd/visacheck/commands"
	"visacheck/pkg/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
