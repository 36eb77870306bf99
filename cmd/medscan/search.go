package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/medscan"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if c.Details {
		return c.runDetails(deps)
	}

	entries, err := deps.Medicines.Search(deps.Ctx, c.Name)
	if err != nil {
		return fail(deps, err)
	}

	if c.JSON {
		return printJSON(deps.Stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(deps.Stdout, "No medicines found for %q\n", c.Name)
		return nil
	}
	for _, e := range entries {
		printEntry(deps.Stdout, e)
	}
	return nil
}

func (c *SearchCmd) runDetails(deps *Dependencies) error {
	details, err := deps.Medicines.SearchDetails(deps.Ctx, c.Name, c.Concurrency)
	if err != nil {
		return fail(deps, err)
	}

	if c.JSON {
		return printJSON(deps.Stdout, details)
	}
	if len(details) == 0 {
		fmt.Fprintf(deps.Stdout, "No medicines found for %q\n", c.Name)
		return nil
	}
	for i, d := range details {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		if d.Record == nil {
			printEntry(deps.Stdout, d.Entry)
			fmt.Fprintf(deps.Stdout, "  (details unavailable: %s)\n", d.Error)
			continue
		}
		printRecord(deps.Stdout, d.Record)
	}
	return nil
}

func printEntry(w io.Writer, e *medscan.ListingEntry) {
	code := e.Code
	if code == "" {
		code = "-"
	}
	fmt.Fprintf(w, "%s  %s", code, e.Name)
	if e.Laboratory != "" {
		fmt.Fprintf(w, "  (%s)", e.Laboratory)
	}
	if e.Price != "" {
		fmt.Fprintf(w, "  %s", e.Price)
	}
	fmt.Fprintln(w)
}
