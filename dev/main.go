package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	devenv "visacheck/dev/env"
	"visacheck/internal/browser"
	"visacheck/internal/checker"

	"github.com/joho/godotenv"
	"github.com/tcnksm/go-input"
)

type secret struct {
	key  string
	mask bool
	// optional secrets are still asked for but may be left empty
	optional bool
}

var secrets = []secret{
	{key: checker.EnvUserEmail},
	{key: checker.EnvUserPassword, mask: true},
	{key: checker.EnvSendGridAPIKey, mask: true, optional: true},
}

func askSecrets(envPath string) error {
	values, err := godotenv.Read(envPath)
	if os.IsNotExist(err) {
		values = map[string]string{}
	} else if err != nil {
		return err
	}

	ui := input.DefaultUI()
	changed := false
	for _, s := range secrets {
		if values[s.key] != "" {
			slog.Info("secret has already been provided", "key", s.key)
			continue
		}
		value, err := ui.Ask(fmt.Sprintf("%s:", s.key), &input.Options{
			Mask:     s.mask,
			Required: !s.optional,
			Loop:     !s.optional,
		})
		if err != nil {
			return err
		}
		values[s.key] = value
		changed = true
	}

	if !changed {
		return nil
	}
	return godotenv.Write(values, envPath)
}

func create(ctx context.Context, recreate, skipBrowsers bool) error {
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("the dev environment must be created inside the repository (the directory with 'go.mod'): %w", err)
	}

	state := filepath.Join(root, "dev", ".state")
	if recreate {
		err = os.RemoveAll(state)
		if err != nil {
			return err
		}
	}
	err = os.MkdirAll(state, 0o755)
	if err != nil {
		return err
	}

	err = askSecrets(filepath.Join(root, ".env"))
	if err != nil {
		return err
	}

	if skipBrowsers {
		return nil
	}
	return browser.Install(ctx)
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	skipBrowsers := flag.Bool("skip-browsers", false, "do not install the playwright driver and browsers")
	flag.Parse()

	err := create(context.Background(), *recreate, *skipBrowsers)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
