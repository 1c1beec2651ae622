// Package checker runs one end to end availability check: it signs into the
// portal, reads the fee page and sends a notification when slots are open.
package checker

import (
	"context"
	"fmt"
	"os"
	"time"
	"visacheck/internal/components/assert"
	"visacheck/internal/components/chrono"
	"visacheck/internal/components/telemetry"
	"visacheck/internal/notify"
	"visacheck/internal/scrapers/usvisa"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("visacheck/internal/checker")

const (
	report_checker_run      = "checker.run"
	report_checker_close    = "checker.close"
	report_checker_snapshot = "checker.snapshot"
	report_checker_notify   = "checker.notify"
)

// PageSession is a browser page the checker owns for the length of a run.
type PageSession interface {
	usvisa.Page
	Content(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

type Deps struct {
	// OpenPage is only called once credentials are known to be present.
	OpenPage func(ctx context.Context) (PageSession, error)
	// NewSender is only called when there is something to send.
	NewSender func(ctx context.Context) (notify.Sender, error)
	// Getenv defaults to os.Getenv.
	Getenv    func(string) string
	Clock     chrono.TimeAPI
	Telemetry telemetry.API
}

// MessageData is what notification templates are executed against.
type MessageData struct {
	RunID     string
	LoginURL  string
	Location  string
	CheckedAt time.Time
}

type Report struct {
	RunID     string
	CheckedAt time.Time
	Result    usvisa.Result
	// Notified is true if a notification was dispatched.
	Notified bool
	// Sent and Failed count finished notifications.
	Sent   int64
	Failed int64
	// NotifyErr is set when the notification did not finish within the grace period.
	NotifyErr error
	Snapshot  Snapshot
}

func (r Report) Available() bool {
	return r.Result.Availability.Available()
}

type Checker struct {
	config Config
	deps   Deps
	tel    telemetry.API
}

func New(config Config, deps Deps) (*Checker, error) {
	assert.NotNil(deps.OpenPage)
	assert.NotNil(deps.NewSender)

	err := config.Validate()
	if err != nil {
		return nil, err
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Clock == nil {
		deps.Clock, err = chrono.NewStandardTime(config.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone %q: %w", config.Timezone, err)
		}
	}
	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.NewSlogAPI(nil)
	}

	return &Checker{
		config: config,
		deps:   deps,
		tel:    telemetry.NewScopedAPI("checker", deps.Telemetry),
	}, nil
}

func boolCount(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Run performs a single check. Errors are configuration or automation
// failures, a failed notification only shows up in the report.
func (c *Checker) Run(ctx context.Context) (report Report, err error) {
	report = Report{
		RunID:     uuid.NewString(),
		CheckedAt: c.deps.Clock.Now(),
	}

	ctx, span := tracer.Start(ctx, "Run")
	span.SetAttributes(attribute.String("run_id", report.RunID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "check failed")
		} else {
			span.SetAttributes(
				attribute.Bool("available", report.Available()),
				attribute.Bool("notified", report.Notified),
			)
		}
		span.End()
	}()

	creds, err := LoadCredentials(c.deps.Getenv)
	if err != nil {
		c.tel.ReportBroken(report_checker_run, err)
		return report, err
	}

	result, snapshot, err := c.check(ctx, creds, report.RunID)
	report.Result = result
	report.Snapshot = snapshot
	if err != nil {
		return report, err
	}

	c.tel.ReportCount("accordion_expanded", boolCount(result.AccordionExpanded))
	c.tel.ReportCount("available", boolCount(result.Availability.Available()))

	if !result.Availability.Available() {
		return report, nil
	}

	dispatcher, err := c.dispatch(ctx, report)
	if err != nil {
		return report, err
	}
	report.Notified = true

	graceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Timeouts.NotifyGrace())
	defer cancel()
	err = dispatcher.Wait(graceCtx)
	if err != nil {
		report.NotifyErr = fmt.Errorf("notification still pending after %s: %w", c.config.Timeouts.NotifyGrace(), err)
		c.tel.ReportWarning(report_checker_notify, report.NotifyErr)
	}
	report.Sent = dispatcher.Sent()
	report.Failed = dispatcher.Failed()
	c.tel.ReportCount("notifications_sent", report.Sent)

	return report, nil
}

// check owns the page: it is always closed before check returns.
func (c *Checker) check(ctx context.Context, creds usvisa.Credentials, runID string) (usvisa.Result, Snapshot, error) {
	page, err := c.deps.OpenPage(ctx)
	if err != nil {
		c.tel.ReportBroken(report_checker_run, err)
		return usvisa.Result{}, Snapshot{}, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		err := page.Close()
		if err != nil {
			c.tel.ReportWarning(report_checker_close, err)
		}
	}()

	client, err := usvisa.NewClient(page, usvisa.Options{
		LoginURL:      c.config.LoginURL,
		Location:      c.config.Location,
		Selectors:     c.config.Selectors,
		StepTimeout:   c.config.Timeouts.Step(),
		PolicyTimeout: c.config.Timeouts.Policy(),
	}, c.deps.Telemetry)
	if err != nil {
		return usvisa.Result{}, Snapshot{}, err
	}

	result, checkErr := client.Check(ctx, creds)

	var snapshot Snapshot
	if c.config.Snapshots.Enabled {
		snapshotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Timeouts.Step())
		snapshot, err = takeSnapshot(snapshotCtx, page, c.config.Snapshots.Directory, runID)
		cancel()
		if err != nil {
			c.tel.ReportWarning(report_checker_snapshot, err)
		}
		if snapshot.HTMLPath != "" {
			c.tel.ReportDebug("saved snapshot", "html", snapshot.HTMLPath, "screenshot", snapshot.ScreenshotPath)
		}
	}

	return result, snapshot, checkErr
}

func (c *Checker) dispatch(ctx context.Context, report Report) (*notify.Dispatcher, error) {
	sender, err := c.deps.NewSender(ctx)
	if err != nil {
		c.tel.ReportBroken(report_checker_notify, err)
		return nil, fmt.Errorf("create notification sender: %w", err)
	}

	msg, err := c.config.Notification.Message.Render(MessageData{
		RunID:     report.RunID,
		LoginURL:  c.config.LoginURL,
		Location:  c.config.Location,
		CheckedAt: report.CheckedAt,
	})
	if err != nil {
		c.tel.ReportBroken(report_checker_notify, err)
		return nil, fmt.Errorf("render notification: %w", err)
	}

	dispatcher := notify.NewDispatcher(sender, c.deps.Telemetry)
	dispatcher.Dispatch(ctx, msg)
	return dispatcher, nil
}
