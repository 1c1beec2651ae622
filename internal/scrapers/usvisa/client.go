// client.go drives the appointment portal through a Page: it signs in, walks
// to the visa fee page and reads whether appointments are offered.

package usvisa

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"visacheck/internal/components/assert"
	"visacheck/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("visacheck/internal/scrapers/usvisa")

const (
	report_client_login              = "client.login"
	report_client_accept_policy      = "client.accept-policy"
	report_client_open_fee_page      = "client.open-fee-page"
	report_client_check_availability = "client.check-availability"
)

var ErrMissingCredentials = errors.New("missing sign in credentials")

type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Validate() error {
	var missing []string
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

type Options struct {
	LoginURL  string
	Location  string
	Selectors Selectors
	// StepTimeout bounds every single wait or interaction.
	StepTimeout time.Duration
	// PolicyTimeout bounds each attempt at clicking the policy checkbox.
	PolicyTimeout time.Duration
}

const (
	defaultStepTimeout   = 30 * time.Second
	defaultPolicyTimeout = 5 * time.Second
)

type Client struct {
	page Page
	opts Options
	tel  telemetry.API
}

func NewClient(page Page, opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(page)
	assert.NotNil(tel)

	if _, err := url.ParseRequestURI(opts.LoginURL); err != nil {
		return nil, fmt.Errorf("usvisa: invalid login url %q: %w", opts.LoginURL, err)
	}
	if strings.TrimSpace(opts.Location) == "" {
		return nil, fmt.Errorf("usvisa: location must not be empty")
	}
	if err := opts.Selectors.Validate(); err != nil {
		return nil, fmt.Errorf("usvisa: %w", err)
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = defaultStepTimeout
	}
	if opts.PolicyTimeout <= 0 {
		opts.PolicyTimeout = defaultPolicyTimeout
	}

	return &Client{
		page: page,
		opts: opts,
		tel:  telemetry.NewScopedAPI("usvisa", tel),
	}, nil
}

// step runs a single interaction bounded by the step timeout and reports it
// under `id` if it fails.
func (c *Client) step(ctx context.Context, id, what string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, what, trace.WithAttributes(attribute.String("report_id", id)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.opts.StepTimeout)
	defer cancel()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, what)
		c.tel.ReportBroken(id, fmt.Errorf("%s: %w", what, err))
		return fmt.Errorf("usvisa: %s: %w", what, err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) error {
	err := creds.Validate()
	if err != nil {
		return fmt.Errorf("usvisa: %w", err)
	}
	sel := c.opts.Selectors

	err = c.step(ctx, report_client_login, "open sign in page", func(ctx context.Context) error {
		return c.page.Goto(ctx, c.opts.LoginURL)
	})
	if err != nil {
		return err
	}
	err = c.step(ctx, report_client_login, "fill email", func(ctx context.Context) error {
		return c.page.Fill(ctx, sel.EmailInput, creds.Email)
	})
	if err != nil {
		return err
	}
	err = c.step(ctx, report_client_login, "fill password", func(ctx context.Context) error {
		return c.page.Fill(ctx, sel.PasswordInput, creds.Password)
	})
	if err != nil {
		return err
	}

	err = c.acceptPolicy(ctx)
	if err != nil {
		return err
	}

	err = c.step(ctx, report_client_login, "submit sign in form", func(ctx context.Context) error {
		return c.page.Click(ctx, sel.SubmitButton)
	})
	if err != nil {
		return err
	}

	// the continue link only shows up on the dashboard after signing in
	err = c.step(ctx, report_client_login, "wait for dashboard", func(ctx context.Context) error {
		return c.page.WaitVisible(ctx, sel.ContinueLink())
	})
	if err != nil {
		return err
	}

	c.tel.ReportDebug("signed in")
	return nil
}

// acceptPolicy ticks the privacy policy checkbox. The portal styles it with a
// custom widget, so the label, the widget wrapper and the input itself are tried
// in that order.
func (c *Client) acceptPolicy(ctx context.Context) error {
	var errlist []error
	for _, selector := range c.opts.Selectors.PolicyCheckbox {
		attemptCtx, cancel := context.WithTimeout(ctx, c.opts.PolicyTimeout)
		err := c.page.Click(attemptCtx, selector)
		cancel()
		if err == nil {
			c.tel.ReportDebug("policy checkbox checked", selector)
			return nil
		}
		if ctx.Err() != nil {
			errlist = append(errlist, ctx.Err())
			break
		}

		c.tel.ReportWarning(report_client_accept_policy, selector, err)
		errlist = append(errlist, fmt.Errorf("%s: %w", selector, err))
	}

	err := errors.Join(errlist...)
	c.tel.ReportBroken(report_client_accept_policy, err)
	return fmt.Errorf("usvisa: check policy checkbox: %w", err)
}

// OpenFeePage goes from the dashboard to the visa fee page, `expanded` reports
// whether the fee accordion had to be opened first.
func (c *Client) OpenFeePage(ctx context.Context) (expanded bool, err error) {
	sel := c.opts.Selectors

	err = c.step(ctx, report_client_open_fee_page, "click continue", func(ctx context.Context) error {
		return c.page.Click(ctx, sel.ContinueLink())
	})
	if err != nil {
		return false, err
	}
	err = c.step(ctx, report_client_open_fee_page, "wait for fee accordion", func(ctx context.Context) error {
		return c.page.WaitVisible(ctx, sel.FeeAccordionTitle())
	})
	if err != nil {
		return false, err
	}

	var classAttr string
	err = c.step(ctx, report_client_open_fee_page, "read fee accordion state", func(ctx context.Context) error {
		var err error
		classAttr, err = c.page.Attribute(ctx, sel.FeeAccordionItem(), "class")
		return err
	})
	if err != nil {
		return false, err
	}

	if !hasClass(classAttr, sel.ActiveClass) {
		err = c.step(ctx, report_client_open_fee_page, "expand fee accordion", func(ctx context.Context) error {
			return c.page.Click(ctx, sel.FeeAccordionTitle())
		})
		if err != nil {
			return false, err
		}
		expanded = true
		c.tel.ReportDebug("expanded fee accordion")
	}

	err = c.step(ctx, report_client_open_fee_page, "wait for pay fee button", func(ctx context.Context) error {
		return c.page.WaitVisible(ctx, sel.PayFeeButton())
	})
	if err != nil {
		return expanded, err
	}
	err = c.step(ctx, report_client_open_fee_page, "click pay fee button", func(ctx context.Context) error {
		return c.page.Click(ctx, sel.PayFeeButton())
	})
	if err != nil {
		return expanded, err
	}
	err = c.step(ctx, report_client_open_fee_page, "wait for fee page", func(ctx context.Context) error {
		return c.page.WaitSettled(ctx)
	})
	if err != nil {
		return expanded, err
	}

	return expanded, nil
}

// CheckAvailability reads the indicators on the fee page as they are right now.
func (c *Client) CheckAvailability(ctx context.Context) (Availability, error) {
	sel := c.opts.Selectors
	var result Availability

	err := c.step(ctx, report_client_check_availability, "check no appointments message", func(ctx context.Context) error {
		var err error
		result.GeneralMessage, err = c.page.IsVisible(ctx, sel.NoAppointmentsMessage())
		return err
	})
	if err != nil {
		return Availability{}, err
	}
	err = c.step(ctx, report_client_check_availability, "check location row", func(ctx context.Context) error {
		var err error
		result.LocationRow, err = c.page.IsVisible(ctx, sel.LocationRow(c.opts.Location))
		return err
	})
	if err != nil {
		return Availability{}, err
	}

	c.tel.ReportDebug(
		"availability indicators",
		"general_message", result.GeneralMessage,
		"location_row", result.LocationRow,
	)
	return result, nil
}

type Result struct {
	// AccordionExpanded is true if the fee accordion was collapsed and got clicked.
	AccordionExpanded bool
	Availability      Availability
}

// Check signs in, opens the fee page and reads availability, in that order.
func (c *Client) Check(ctx context.Context, creds Credentials) (Result, error) {
	err := c.Login(ctx, creds)
	if err != nil {
		return Result{}, err
	}
	expanded, err := c.OpenFeePage(ctx)
	if err != nil {
		return Result{AccordionExpanded: expanded}, err
	}
	availability, err := c.CheckAvailability(ctx)
	if err != nil {
		return Result{AccordionExpanded: expanded}, err
	}
	return Result{
		AccordionExpanded: expanded,
		Availability:      availability,
	}, nil
}
