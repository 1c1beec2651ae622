package usvisa

import (
	"fmt"
	"strings"
)

// Selectors describes where things are on the appointment portal. The form
// fields are plain selectors, everything located by its text is kept as text
// so the same markers can be matched against a saved page (see EvaluateDocument).
type Selectors struct {
	EmailInput    string `json:"email_input"`
	PasswordInput string `json:"password_input"`
	// PolicyCheckbox is tried in order until one of them can be clicked.
	PolicyCheckbox []string `json:"policy_checkbox"`
	SubmitButton   string   `json:"submit_button"`

	ContinueText string `json:"continue_text"`
	FeeText      string `json:"fee_text"`
	ActiveClass  string `json:"active_class"`

	MessageSelector    string `json:"message_selector"`
	NoAppointmentsText string `json:"no_appointments_text"`
	RowUnavailableText string `json:"row_unavailable_text"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		EmailInput:    `input[name="user[email]"]`,
		PasswordInput: `input[name="user[password]"]`,
		PolicyCheckbox: []string{
			`label[for="policy_confirmed"]`,
			`div.icheckbox`,
			`#policy_confirmed`,
		},
		SubmitButton: `input[name="commit"][value="Sign In"]`,

		ContinueText: "Continue",
		FeeText:      "Pay Visa Fee",
		ActiveClass:  "is-active",

		MessageSelector:    "div.noPaymentAcceptedMessage h3",
		NoAppointmentsText: "There are no available appointments at this time",
		RowUnavailableText: "No Appointments Available",
	}
}

// Validate returns an error naming every empty field.
func (s Selectors) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"email_input", s.EmailInput},
		{"password_input", s.PasswordInput},
		{"submit_button", s.SubmitButton},
		{"continue_text", s.ContinueText},
		{"fee_text", s.FeeText},
		{"active_class", s.ActiveClass},
		{"message_selector", s.MessageSelector},
		{"no_appointments_text", s.NoAppointmentsText},
		{"row_unavailable_text", s.RowUnavailableText},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(s.PolicyCheckbox) == 0 {
		missing = append(missing, "policy_checkbox")
	}
	if len(missing) > 0 {
		return fmt.Errorf("selectors: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// quote renders s as a double quoted selector string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func (s Selectors) ContinueLink() string {
	return fmt.Sprintf(`a:has-text(%s)`, quote(s.ContinueText))
}

func (s Selectors) FeeAccordionTitle() string {
	return fmt.Sprintf(`a.accordion-title:has(h5:has-text(%s))`, quote(s.FeeText))
}

// FeeAccordionItem is the li.accordion-item wrapping the fee accordion title,
// its class attribute says whether the section is expanded.
func (s Selectors) FeeAccordionItem() string {
	return s.FeeAccordionTitle() + ` >> xpath=ancestor::li[contains(@class, "accordion-item")]`
}

func (s Selectors) PayFeeButton() string {
	return fmt.Sprintf(`a.button:has-text(%s)`, quote(s.FeeText))
}

func (s Selectors) NoAppointmentsMessage() string {
	return fmt.Sprintf(`%s:has-text(%s)`, s.MessageSelector, quote(s.NoAppointmentsText))
}

// LocationRow matches the schedule row of `location` saying it has no appointments.
func (s Selectors) LocationRow(location string) string {
	return fmt.Sprintf(
		`tr:has(td:has-text(%s)):has(td:has-text(%s))`,
		quote(location),
		quote(s.RowUnavailableText),
	)
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
