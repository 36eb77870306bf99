package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/medscan"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := medscan.ScanFilter{Limit: c.Limit}
	if c.Code != "" {
		filter.Code = &c.Code
	}

	scans, err := deps.Scans.FindScans(deps.Ctx, filter)
	if err != nil {
		return fail(deps, err)
	}

	if len(scans) == 0 {
		fmt.Fprintln(deps.Stdout, "No scans recorded. Use 'medscan scan --save' to record one.")
		return nil
	}

	for _, s := range scans {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			s.ScannedAt.Local().Format(time.DateTime), s.Record.Code, s.Record.CommercialName, s.Fingerprint)
	}
	return nil
}
