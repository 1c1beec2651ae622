package usvisa

import (
	"visacheck/pkg/htmlutil"
	"visacheck/pkg/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Availability holds the two "no appointments" indicators of the fee page.
type Availability struct {
	// GeneralMessage is the page wide "no available appointments" message.
	GeneralMessage bool
	// LocationRow is the configured location's "No Appointments Available" row.
	LocationRow bool
}

// Available is true when neither indicator is shown.
func (a Availability) Available() bool {
	return !(a.GeneralMessage || a.LocationRow)
}

// EvaluateDocument looks for the same indicators as Client.CheckAvailability in
// a saved copy of the fee page. A saved page has no layout, so an indicator
// counts if it is present rather than visible.
func EvaluateDocument(doc *goquery.Document, sel Selectors, location string) Availability {
	message := htmlutil.FilterText(doc.Find(sel.MessageSelector), sel.NoAppointmentsText)

	rows := doc.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		return cellContains(cells, location) && cellContains(cells, sel.RowUnavailableText)
	})

	return Availability{
		GeneralMessage: message.Length() > 0,
		LocationRow:    rows.Length() > 0,
	}
}

func cellContains(cells *goquery.Selection, text string) bool {
	for _, n := range cells.Nodes {
		if htmlutil.ContainsText(n, text) {
			return true
		}
	}
	return false
}

// Locations lists the names in the first cell of every schedule row, in page order.
func Locations(doc *goquery.Document) []string {
	var out []string
	seen := map[string]bool{}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := htmlutil.NodeText(cells.Nodes[0])
		key := textutil.NormalizeName(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	})
	return out
}
