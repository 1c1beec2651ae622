package commands

import (
	"fmt"
	"io"
	"os"
	"visacheck/internal/scrapers/usvisa"
	"visacheck/pkg/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var inspectLocation string

func init() {
	inspectCmd.Flags().StringVar(&inspectLocation, "location", "", "Check this location instead of the configured one.")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <fee-page.html>",
	Short: "Evaluates the availability indicators on a saved copy of the fee page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := getGlobals(cmd.Context())
		location := g.Config.Location
		if inspectLocation != "" {
			location = inspectLocation
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		inspectDocument(cmd.OutOrStdout(), doc, g.Config.Selectors, location)
		return nil
	},
}

// locationSimilarity is the Jaro-Winkler score a schedule row name needs to
// be suggested in place of a location that is not on the page.
const locationSimilarity = 0.8

func inspectDocument(out io.Writer, doc *goquery.Document, sel usvisa.Selectors, location string) {
	availability := usvisa.EvaluateDocument(doc, sel, location)
	locations := usvisa.Locations(doc)

	t := newTable(out)
	t.AppendHeader(table.Row{"Indicator", "Present"})
	t.AppendRows([]table.Row{
		{fmt.Sprintf("%q message", sel.NoAppointmentsText), yesNo(availability.GeneralMessage)},
		{fmt.Sprintf("%s row with %q", location, sel.RowUnavailableText), yesNo(availability.LocationRow)},
		{"Available", yesNo(availability.Available())},
	})
	t.Render()

	if len(locations) == 0 {
		return
	}
	for _, l := range locations {
		if textutil.SameName(l, location) {
			return
		}
	}

	fmt.Fprintf(out, "location %q is not on this page, found: %v\n", location, locations)
	suggestion, ok := textutil.Closest(location, locations, locationSimilarity)
	if ok {
		fmt.Fprintf(out, "did you mean %q? (similarity %.2f)\n", suggestion.Name, suggestion.Similarity)
	}
}
