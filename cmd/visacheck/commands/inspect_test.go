package commands

import (
	"bytes"
	"strings"
	"testing"
	"visacheck/internal/scrapers/usvisa"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const feePage = `<html><body>
<table>
	<tr><td>Calgary</td><td>No Appointments Available</td></tr>
	<tr><td>Montreal</td><td>No Appointments Available</td></tr>
	<tr><td>Vancouver</td><td>3 December, 2026</td></tr>
</table>
</body></html>`

func inspectString(t *testing.T, location string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feePage))
	require.NoError(t, err)

	var out bytes.Buffer
	inspectDocument(&out, doc, usvisa.DefaultSelectors(), location)
	return out.String()
}

func TestInspectKnownLocation(t *testing.T) {
	out := inspectString(t, "Montreal")
	require.Contains(t, out, "Montreal row")
	require.NotContains(t, out, "is not on this page")
}

func TestInspectSuggestsLocation(t *testing.T) {
	out := inspectString(t, "Montral")
	require.Contains(t, out, `location "Montral" is not on this page`)
	require.Contains(t, out, `did you mean "Montreal"?`)
}

func TestInspectNoSuggestion(t *testing.T) {
	out := inspectString(t, "Halifax")
	require.Contains(t, out, "is not on this page")
	require.NotContains(t, out, "did you mean")
}
