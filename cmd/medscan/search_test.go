package main_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/medscan"
	main "github.com/fwojciec/medscan/cmd/medscan"
	"github.com/fwojciec/medscan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	entries := []*medscan.ListingEntry{
		{Code: "6118000041184", Name: "DOLIPRANE 500 MG", Laboratory: "SANOFI", Price: "13.20 dhs"},
		{Name: "DOLIPRANE 1000 MG"},
	}

	t.Run("lists entries", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(_ context.Context, name string) ([]*medscan.ListingEntry, error) {
				assert.Equal(t, "doliprane", name)
				return entries, nil
			},
		}
		deps, stdout, _ := newDeps(medicines, nil)

		err := (&main.SearchCmd{Name: "doliprane"}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "6118000041184  DOLIPRANE 500 MG  (SANOFI)  13.20 dhs")
		assert.Contains(t, output, "-  DOLIPRANE 1000 MG")
	})

	t.Run("says so when nothing matches", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(context.Context, string) ([]*medscan.ListingEntry, error) {
				return []*medscan.ListingEntry{}, nil
			},
		}
		deps, stdout, _ := newDeps(medicines, nil)

		err := (&main.SearchCmd{Name: "zzz"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `No medicines found for "zzz"`)
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(context.Context, string) ([]*medscan.ListingEntry, error) {
				return entries, nil
			},
		}
		deps, stdout, _ := newDeps(medicines, nil)

		err := (&main.SearchCmd{Name: "doliprane", JSON: true}).Run(deps)

		require.NoError(t, err)
		var got []*medscan.ListingEntry
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, entries, got)
	})

	t.Run("details pass the concurrency and show failed entries", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchDetailsFn: func(_ context.Context, name string, limit int) ([]*medscan.ListingDetail, error) {
				assert.Equal(t, 2, limit)
				return []*medscan.ListingDetail{
					{Entry: entries[0], Record: doliprane},
					{Entry: entries[1], Error: "entry has no detail URL"},
				}, nil
			},
		}
		deps, stdout, _ := newDeps(medicines, nil)

		err := (&main.SearchCmd{Name: "doliprane", Details: true, Concurrency: 2}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "DCI:            Paracétamol")
		assert.Contains(t, output, "DOLIPRANE 1000 MG")
		assert.Contains(t, output, "(details unavailable: entry has no detail URL)")
	})

	t.Run("reports search failures", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(context.Context, string) ([]*medscan.ListingEntry, error) {
				return nil, medscan.Errorf(medscan.EINVALID, "name required")
			},
		}
		deps, _, stderr := newDeps(medicines, nil)

		err := (&main.SearchCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: name required")
	})
}
