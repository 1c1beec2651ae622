package usvisa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Montreal", expected: `"Montreal"`},
		{input: `Say "hi"`, expected: `"Say \"hi\""`},
		{input: `back\slash`, expected: `"back\\slash"`},
	}
	for _, row := range table {
		require.Equal(t, row.expected, quote(row.input))
	}
}

func TestDefaultSelectorStrings(t *testing.T) {
	sel := DefaultSelectors()
	require.NoError(t, sel.Validate())

	require.Equal(t, `a:has-text("Continue")`, sel.ContinueLink())
	require.Equal(t, `a.accordion-title:has(h5:has-text("Pay Visa Fee"))`, sel.FeeAccordionTitle())
	require.Equal(
		t,
		`a.accordion-title:has(h5:has-text("Pay Visa Fee")) >> xpath=ancestor::li[contains(@class, "accordion-item")]`,
		sel.FeeAccordionItem(),
	)
	require.Equal(t, `a.button:has-text("Pay Visa Fee")`, sel.PayFeeButton())
	require.Equal(
		t,
		`div.noPaymentAcceptedMessage h3:has-text("There are no available appointments at this time")`,
		sel.NoAppointmentsMessage(),
	)
	require.Equal(
		t,
		`tr:has(td:has-text("Quebec City")):has(td:has-text("No Appointments Available"))`,
		sel.LocationRow("Quebec City"),
	)
}

func TestSelectorsValidate(t *testing.T) {
	sel := DefaultSelectors()
	sel.FeeText = ""
	sel.PolicyCheckbox = nil

	err := sel.Validate()
	require.ErrorContains(t, err, "fee_text")
	require.ErrorContains(t, err, "policy_checkbox")
}

func TestHasClass(t *testing.T) {
	require.True(t, hasClass("accordion-item is-active", "is-active"))
	require.True(t, hasClass("  is-active\n", "is-active"))
	require.False(t, hasClass("accordion-item", "is-active"))
	require.False(t, hasClass("accordion-item is-active-soon", "is-active"))
	require.False(t, hasClass("", "is-active"))
}
