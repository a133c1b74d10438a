package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-client/internal/service/view"
)

// renderTable prints rows through a tabwriter with a trailing page footer
func renderTable[T any](w io.Writer, page view.Page[T], header []string, row func(T) []string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)

	for _, item := range page.Items {
		cells := row(item)
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintf(w, "page %d/%d (%d records)\n", page.Number, page.TotalPages, page.TotalItems)
}

// listFlags are shared by every list command
type listFlags struct {
	query    string
	page     int
	pageSize int
}

func (f *listFlags) addTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "case-insensitive substring filter")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number, 1-based, clamped to range")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "records per page (0 uses the configured default)")
}

// size resolves the effective page size once config is loaded
func (f *listFlags) size(a *app) int {
	if f.pageSize > 0 {
		return f.pageSize
	}
	return a.pageSize
}
