package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
	devenv "visacheck/dev/env"
	"visacheck/internal/browser"
	"visacheck/internal/checker"
	"visacheck/internal/components/telemetry"
	"visacheck/internal/notify"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	checkHeaded    bool
	checkDryRun    bool
	checkHold      bool
	checkSnapshots string
	checkDumpHTTP  string
)

func init() {
	flags := checkCmd.Flags()
	flags.BoolVar(&checkHeaded, "headed", false, "Show the browser window.")
	flags.BoolVar(&checkDryRun, "dry-run", false, "Log the notification instead of sending it.")
	flags.BoolVar(&checkHold, "hold", false, "With --headed, keep the browser open until Enter is pressed.")
	flags.StringVar(&checkSnapshots, "snapshots", "", "Save the final page's html and a screenshot to this directory.")
	flags.StringVar(&checkDumpHTTP, "dump-http", "", "Write every notification request and response to this directory.")
	rootCmd.AddCommand(checkCmd)
}

// heldPage waits for Enter before actually closing the browser.
type heldPage struct {
	*browser.Session
	in io.Reader
}

func (p heldPage) Close() error {
	fmt.Fprintln(os.Stderr, "press Enter to close the browser...")
	_, _ = bufio.NewReader(p.in).ReadString('\n')
	return p.Session.Close()
}

func openPage(config checker.Config, tel telemetry.API) func(ctx context.Context) (checker.PageSession, error) {
	return func(ctx context.Context) (checker.PageSession, error) {
		session, err := browser.Launch(ctx, browser.Options{
			Browser:        config.Browser.Browser,
			Headless:       !config.Browser.Headed,
			SlowMo:         time.Duration(config.Browser.SlowMoMs) * time.Millisecond,
			Args:           config.Browser.Args,
			DefaultTimeout: config.Timeouts.Step(),
		}, tel)
		if err != nil {
			return nil, err
		}
		if checkHold && config.Browser.Headed {
			return heldPage{Session: session, in: os.Stdin}, nil
		}
		return session, nil
	}
}

func httpDump(dir string) (telemetry.HTTPDump, error) {
	if dir == "" {
		return nil, nil
	}
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	return telemetry.NewDirectoryDump(dir)
}

func newSender(config checker.Config, dryRun *notify.Recorder, dumpDir string, tel telemetry.API) func(ctx context.Context) (notify.Sender, error) {
	return func(ctx context.Context) (notify.Sender, error) {
		if dryRun != nil {
			return dryRun, nil
		}
		dump, err := httpDump(dumpDir)
		if err != nil {
			return nil, err
		}
		return checker.NewSender(config, os.Getenv, dump, tel)
	}
}

var checkCmd = &cobra.Command{
	Use:   "check [--headed] [--dry-run] [--snapshots <dir>]",
	Short: "Signs into the portal once, checks for open appointments and notifies if there are some.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := getGlobals(cmd.Context())
		config := g.Config
		if checkHeaded {
			config.Browser.Headed = true
		}
		if checkSnapshots != "" {
			config.Snapshots.Enabled = true
			config.Snapshots.Directory = checkSnapshots
		}

		var dryRun *notify.Recorder
		if checkDryRun {
			dryRun = &notify.Recorder{}
		}

		c, err := checker.New(config, checker.Deps{
			OpenPage:  openPage(config, g.Telemetry),
			NewSender: newSender(config, dryRun, checkDumpHTTP, g.Telemetry),
			Telemetry: g.Telemetry,
		})
		if err != nil {
			return err
		}

		report, err := c.Run(cmd.Context())
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), config, report)
		if dryRun != nil {
			for _, msg := range dryRun.Messages() {
				printMessage(cmd.OutOrStdout(), msg)
			}
		}
		return nil
	},
}

func printReport(out io.Writer, config checker.Config, report checker.Report) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Run", report.RunID},
		{"Checked at", report.CheckedAt.Format(time.RFC1123)},
		{"Location", config.Location},
		{"No appointments message", yesNo(report.Result.Availability.GeneralMessage)},
		{"Location row unavailable", yesNo(report.Result.Availability.LocationRow)},
		{"Accordion expanded", yesNo(report.Result.AccordionExpanded)},
		{"Available", yesNo(report.Available())},
		{"Notified", yesNo(report.Notified)},
	})
	if report.Notified {
		t.AppendRow(table.Row{"Notifications sent", report.Sent})
		t.AppendRow(table.Row{"Notifications failed", report.Failed})
	}
	if report.NotifyErr != nil {
		t.AppendRow(table.Row{"Notification error", report.NotifyErr.Error()})
	}
	if report.Snapshot.HTMLPath != "" {
		t.AppendRow(table.Row{"Snapshot", report.Snapshot.HTMLPath})
	}
	t.Render()
}

func printMessage(out io.Writer, msg notify.Message) {
	t := newTable(out)
	t.SetTitle("Notification (not sent)")
	t.AppendRows([]table.Row{
		{"To", msg.To},
		{"From", msg.From},
		{"Subject", msg.Subject},
		{"HTML", msg.HTML},
		{"Text", msg.Text},
	})
	t.Render()
}
