package main

import (
	"fmt"

	"github.com/fwojciec/medscan"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	record, err := deps.Medicines.Lookup(deps.Ctx, c.Code)
	if err != nil {
		if medscan.IsNotFound(err) {
			fmt.Fprintf(deps.Stderr, "No medicine found for barcode %s\n", c.Code)
			return err
		}
		return fail(deps, err)
	}

	if c.Save {
		scan := &medscan.Scan{
			SourceURL: deps.Site.BarcodeURL(record.Code),
			Record:    *record,
		}
		if err := deps.Scans.CreateScan(deps.Ctx, scan); err != nil {
			return fail(deps, err)
		}
		deps.Logger.Debug("scan journaled", "id", scan.ID, "code", record.Code)
	}

	if c.JSON {
		return printJSON(deps.Stdout, record)
	}
	printRecord(deps.Stdout, record)
	return nil
}
