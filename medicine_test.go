package medscan_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/medscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "trims ends", input: "  Paracétamol  ", want: "Paracétamol"},
		{name: "collapses inner runs", input: "Paracétamol\n\t  500 mg", want: "Paracétamol 500 mg"},
		{name: "non-breaking spaces", input: "\u00a014\u00a0500  dhs", want: "14 500 dhs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, medscan.CollapseSpace(tt.input))
		})
	}
}

func TestMedicineRecord_Normalize(t *testing.T) {
	t.Parallel()

	r := medscan.MedicineRecord{
		Code:           " 6118000041856 ",
		CommercialName: "DOLIPRANE   1000 mg,\n comprimé",
		Composition:    "Paracétamol",
		Dosage:         "1000\tmg",
		Form:           "",
	}

	got := r.Normalize()

	assert.Equal(t, medscan.MedicineRecord{
		Code:           "6118000041856",
		CommercialName: "DOLIPRANE 1000 mg, comprimé",
		Composition:    "Paracétamol",
		Dosage:         "1000 mg",
		Form:           "",
	}, got)
	assert.Equal(t, " 6118000041856 ", r.Code, "original is left untouched")
}

func TestMedicineRecord_JSONAlwaysHasAllKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(medscan.MedicineRecord{CommercialName: "Doliprane"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Len(t, m, 5)
	for _, key := range []string{"Code CIP", "Nom commercial", "DCI", "Dosage", "Forme"} {
		assert.Contains(t, m, key)
		assert.IsType(t, "", m[key])
	}
}

func TestListingEntry_Normalize(t *testing.T) {
	t.Parallel()

	e := medscan.ListingEntry{
		Name:       "  AMOXIL  500 mg ",
		Laboratory: "GSK\n",
		DetailURL:  " https://medicament.ma/?choice=barcode&s=6118000010012 ",
	}

	got := e.Normalize()

	assert.Equal(t, "AMOXIL 500 mg", got.Name)
	assert.Equal(t, "GSK", got.Laboratory)
	assert.Equal(t, "https://medicament.ma/?choice=barcode&s=6118000010012", got.DetailURL)
}
