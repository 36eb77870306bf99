package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/medscan"
	"github.com/fwojciec/medscan/mock"
	medslog "github.com/fwojciec/medscan/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPageExtractor_ExtractRecord(t *testing.T) {
	t.Parallel()

	t.Run("logs layout and empty fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageExtractor{
			ExtractRecordFn: func(html string, code string) (*medscan.MedicineRecord, error) {
				return &medscan.MedicineRecord{Code: code, CommercialName: "DOLIPRANE", Dosage: "1 g"}, nil
			},
		}
		detector := &mock.LayoutDetector{
			DetectFn: func(string) medscan.Layout { return medscan.LayoutLegacy },
		}

		e := medslog.NewLoggingPageExtractor(inner, detector, logger)
		record, err := e.ExtractRecord("<html></html>", "6118000041856")

		require.NoError(t, err)
		assert.Equal(t, "DOLIPRANE", record.CommercialName)
		output := buf.String()
		assert.Contains(t, output, "extract record")
		assert.Contains(t, output, "layout=legacy")
		assert.Contains(t, output, "code=6118000041856")
		assert.Contains(t, output, "empty=\"[composition form]\"")
	})

	t.Run("logs unknown layout and error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageExtractor{
			ExtractRecordFn: func(string, string) (*medscan.MedicineRecord, error) {
				return nil, medscan.Errorf(medscan.ENOTFOUND, "page has no medicine heading")
			},
		}
		detector := &mock.LayoutDetector{
			DetectFn: func(string) medscan.Layout { return medscan.LayoutUnknown },
		}

		e := medslog.NewLoggingPageExtractor(inner, detector, logger)
		_, err := e.ExtractRecord("", "")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "layout=(unknown)")
		assert.Contains(t, output, "err=")
	})

	t.Run("logs other failures as warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageExtractor{
			ExtractRecordFn: func(string, string) (*medscan.MedicineRecord, error) {
				return nil, medscan.Errorf(medscan.EINVALID, "failed to parse HTML")
			},
		}
		detector := &mock.LayoutDetector{
			DetectFn: func(string) medscan.Layout { return medscan.LayoutUnknown },
		}

		e := medslog.NewLoggingPageExtractor(inner, detector, logger)
		_, err := e.ExtractRecord("", "")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
	})

	t.Run("successes are logged at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
		inner := &mock.PageExtractor{
			ExtractRecordFn: func(string, string) (*medscan.MedicineRecord, error) {
				return &medscan.MedicineRecord{Code: "1"}, nil
			},
		}
		detector := &mock.LayoutDetector{
			DetectFn: func(string) medscan.Layout { return medscan.LayoutStructured },
		}

		e := medslog.NewLoggingPageExtractor(inner, detector, logger)
		_, err := e.ExtractRecord("", "1")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "level=INFO")
	})
}

func TestLoggingListingExtractor_ExtractListing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ListingExtractor{
		ExtractListingFn: func(string) ([]*medscan.ListingEntry, error) {
			return []*medscan.ListingEntry{{Code: "1"}, {Code: "2"}}, nil
		},
	}
	detector := &mock.LayoutDetector{
		DetectFn: func(string) medscan.Layout { return medscan.LayoutListing },
	}

	e := medslog.NewLoggingListingExtractor(inner, detector, logger)
	entries, err := e.ExtractListing("<html></html>")

	require.NoError(t, err)
	assert.Len(t, entries, 2)
	output := buf.String()
	assert.Contains(t, output, "extract listing")
	assert.Contains(t, output, "layout=listing")
	assert.Contains(t, output, "level=INFO")
	assert.Contains(t, output, "count=2")
	assert.NotContains(t, output, "err=")
}
