package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/medscan"
)

// recordFields lists record fields in display order under their wire names.
func recordFields(r *medscan.MedicineRecord) [][2]string {
	return [][2]string{
		{"Code CIP", r.Code},
		{"Nom commercial", r.CommercialName},
		{"DCI", r.Composition},
		{"Dosage", r.Dosage},
		{"Forme", r.Form},
	}
}

func printRecord(w io.Writer, r *medscan.MedicineRecord) {
	for _, f := range recordFields(r) {
		value := f[1]
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-15s %s\n", f[0]+":", value)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail reports err on stderr and returns it.
func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", medscan.ErrorMessage(err))
	return err
}
