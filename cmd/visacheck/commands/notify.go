package commands

import (
	"fmt"
	"os"
	"time"
	"visacheck/internal/checker"
	"visacheck/internal/notify"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var notifyDumpHTTP string

func init() {
	notifyCmd.Flags().StringVar(&notifyDumpHTTP, "dump-http", "", "Write the request and response to this directory.")
	rootCmd.AddCommand(notifyCmd)
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Sends the configured notification once, without checking the portal.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := getGlobals(cmd.Context())
		config := g.Config

		dump, err := httpDump(notifyDumpHTTP)
		if err != nil {
			return err
		}
		sender, err := checker.NewSender(config, os.Getenv, dump, g.Telemetry)
		if err != nil {
			return err
		}

		msg, err := config.Notification.Message.Render(checker.MessageData{
			RunID:     uuid.NewString(),
			LoginURL:  config.LoginURL,
			Location:  config.Location,
			CheckedAt: time.Now(),
		})
		if err != nil {
			return err
		}

		// a failed send is an error here, unlike during a check
		res, err := sender.Send(cmd.Context(), msg)
		if err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
		printResponse(cmd, msg, res)
		return nil
	},
}

func printResponse(cmd *cobra.Command, msg notify.Message, res notify.Response) {
	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Provider", getGlobals(cmd.Context()).Config.Notification.Provider},
		{"To", msg.To},
		{"Subject", msg.Subject},
		{"Status", res.StatusCode},
	})
	for key, values := range res.Headers {
		for _, v := range values {
			t.AppendRow(table.Row{key, v})
		}
	}
	t.Render()
}
