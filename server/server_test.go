package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/medscan"
	"github.com/fwojciec/medscan/mock"
	medprom "github.com/fwojciec/medscan/prometheus"
	"github.com/fwojciec/medscan/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = server.Config{Address: "127.0.0.1", Port: "5000"}

var doliprane = &medscan.MedicineRecord{
	Code:           "6118000041184",
	CommercialName: "DOLIPRANE 500 MG",
	Composition:    "Paracétamol",
	Dosage:         "500 mg",
	Form:           "Comprimé",
}

// get serves a GET request and returns the recorder.
func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// decodeError returns the "erreur" field of a JSON error body.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["erreur"]
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	s := server.NewServer(testConfig, &mock.MedicineService{})
	rec := get(t, s.Handler(), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, server.Usage, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := server.NewServer(testConfig, &mock.MedicineService{})
	rec := get(t, s.Handler(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Scan(t *testing.T) {
	t.Parallel()

	t.Run("returns the record under its wire keys", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			LookupFn: func(_ context.Context, code string) (*medscan.MedicineRecord, error) {
				assert.Equal(t, "6118000041184", code)
				return doliprane, nil
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/scan?code=6118000041184")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"Code CIP": "6118000041184",
			"Nom commercial": "DOLIPRANE 500 MG",
			"DCI": "Paracétamol",
			"Dosage": "500 mg",
			"Forme": "Comprimé"
		}`, rec.Body.String())
	})

	t.Run("trims the code before looking it up", func(t *testing.T) {
		t.Parallel()

		var got string
		medicines := &mock.MedicineService{
			LookupFn: func(_ context.Context, code string) (*medscan.MedicineRecord, error) {
				got = code
				return doliprane, nil
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/scan?code=%206118000041184%20")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "6118000041184", got)
	})

	t.Run("missing code is a bad request", func(t *testing.T) {
		t.Parallel()

		s := server.NewServer(testConfig, &mock.MedicineService{})

		for _, target := range []string{"/scan", "/scan?code=", "/scan?code=%20%20"} {
			rec := get(t, s.Handler(), target)
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
			assert.Equal(t, "Paramètre 'code' manquant", decodeError(t, rec), target)
		}
	})

	t.Run("unknown code is not found with a fixed message", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
				return nil, medscan.Errorf(medscan.ENOTFOUND, "no medicine on page")
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/scan?code=0000000000000")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Médicament non trouvé pour ce code-barres", decodeError(t, rec))
	})

	t.Run("maps error codes to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			err    error
			status int
		}{
			{medscan.Errorf(medscan.EINVALID, "code must contain only digits"), http.StatusBadRequest},
			{medscan.Errorf(medscan.EUNAVAILABLE, "timeout fetching x"), http.StatusBadGateway},
			{errors.New("boom"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			medicines := &mock.MedicineService{
				LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
					return nil, tt.err
				},
			}
			s := server.NewServer(testConfig, medicines)

			rec := get(t, s.Handler(), "/scan?code=123")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, medscan.ErrorMessage(tt.err), decodeError(t, rec))
		}
	})

	t.Run("journals successful scans", func(t *testing.T) {
		t.Parallel()

		var journaled *medscan.Scan
		scans := &mock.ScanService{
			CreateScanFn: func(_ context.Context, scan *medscan.Scan) error {
				journaled = scan
				return nil
			},
		}
		medicines := &mock.MedicineService{
			LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
				return doliprane, nil
			},
		}
		site, err := medscan.NewSite("https://mirror.example/")
		require.NoError(t, err)
		s := server.NewServer(testConfig, medicines, server.WithScanService(scans), server.WithSite(site))

		rec := get(t, s.Handler(), "/scan?code=6118000041184")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, journaled)
		assert.Equal(t, *doliprane, journaled.Record)
		assert.Equal(t, site.BarcodeURL("6118000041184"), journaled.SourceURL)
	})

	t.Run("journal failure does not fail the request", func(t *testing.T) {
		t.Parallel()

		scans := &mock.ScanService{
			CreateScanFn: func(context.Context, *medscan.Scan) error {
				return errors.New("disk full")
			},
		}
		medicines := &mock.MedicineService{
			LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
				return doliprane, nil
			},
		}
		s := server.NewServer(testConfig, medicines, server.WithScanService(scans))

		rec := get(t, s.Handler(), "/scan?code=6118000041184")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failed lookups are not journaled", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		scans := &mock.ScanService{
			CreateScanFn: func(context.Context, *medscan.Scan) error {
				calls.Add(1)
				return nil
			},
		}
		medicines := &mock.MedicineService{
			LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
				return nil, medscan.Errorf(medscan.ENOTFOUND, "nothing")
			},
		}
		s := server.NewServer(testConfig, medicines, server.WithScanService(scans))

		get(t, s.Handler(), "/scan?code=123")

		assert.Zero(t, calls.Load())
	})
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	entries := []*medscan.ListingEntry{
		{Code: "6118000041184", Name: "DOLIPRANE 500 MG", DetailURL: "https://medicament.ma/doliprane-500/"},
	}

	t.Run("returns listing entries", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(_ context.Context, name string) ([]*medscan.ListingEntry, error) {
				assert.Equal(t, "doliprane", name)
				return entries, nil
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/search?name=doliprane")

		require.Equal(t, http.StatusOK, rec.Code)
		var got []*medscan.ListingEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, entries, got)
	})

	t.Run("URLs are not HTML-escaped", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(context.Context, string) ([]*medscan.ListingEntry, error) {
				return []*medscan.ListingEntry{{Code: "1", DetailURL: "https://medicament.ma/?choice=barcode&s=1"}}, nil
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/search?name=x")

		assert.Contains(t, rec.Body.String(), "choice=barcode&s=1")
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchFn: func(context.Context, string) ([]*medscan.ListingEntry, error) {
				return []*medscan.ListingEntry{}, nil
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/search?name=zzz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("details fetch every entry with the given limit", func(t *testing.T) {
		t.Parallel()

		medicines := &mock.MedicineService{
			SearchDetailsFn: func(_ context.Context, name string, limit int) ([]*medscan.ListingDetail, error) {
				assert.Equal(t, "doliprane", name)
				assert.Equal(t, 2, limit)
				return []*medscan.ListingDetail{{Entry: entries[0], Record: doliprane}}, nil
			},
		}
		s := server.NewServer(testConfig, medicines)

		rec := get(t, s.Handler(), "/search?name=doliprane&details=true&limit=2")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"Nom commercial":"DOLIPRANE 500 MG"`)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		t.Parallel()

		s := server.NewServer(testConfig, &mock.MedicineService{})

		for _, target := range []string{
			"/search",
			"/search?name=%20",
			"/search?name=x&details=maybe",
			"/search?name=x&details=1&limit=-1",
			"/search?name=x&details=1&limit=many",
		} {
			rec := get(t, s.Handler(), target)
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestServer_History(t *testing.T) {
	t.Parallel()

	t.Run("not routed without a journal", func(t *testing.T) {
		t.Parallel()

		s := server.NewServer(testConfig, &mock.MedicineService{})
		rec := get(t, s.Handler(), "/history")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("passes the filter to the journal", func(t *testing.T) {
		t.Parallel()

		var got medscan.ScanFilter
		scans := &mock.ScanService{
			FindScansFn: func(_ context.Context, filter medscan.ScanFilter) ([]*medscan.Scan, error) {
				got = filter
				return []*medscan.Scan{{ID: "a", Record: *doliprane}}, nil
			},
		}
		s := server.NewServer(testConfig, &mock.MedicineService{}, server.WithScanService(scans))

		rec := get(t, s.Handler(), "/history?code=6118000041184&limit=10&offset=5")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Code)
		assert.Equal(t, "6118000041184", *got.Code)
		assert.Equal(t, 10, got.Limit)
		assert.Equal(t, 5, got.Offset)
		assert.Contains(t, rec.Body.String(), `"id":"a"`)
	})

	t.Run("caps the limit", func(t *testing.T) {
		t.Parallel()

		var got medscan.ScanFilter
		scans := &mock.ScanService{
			FindScansFn: func(_ context.Context, filter medscan.ScanFilter) ([]*medscan.Scan, error) {
				got = filter
				return []*medscan.Scan{}, nil
			},
		}
		s := server.NewServer(testConfig, &mock.MedicineService{}, server.WithScanService(scans))

		get(t, s.Handler(), "/history?limit=100000")

		assert.Equal(t, 500, got.Limit)
		assert.Nil(t, got.Code)
	})
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	medicines := &mock.MedicineService{
		LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
			return doliprane, nil
		},
	}
	s := server.NewServer(testConfig, medicines, server.WithMetrics(medprom.NewMetrics()))

	get(t, s.Handler(), "/scan?code=6118000041184")
	rec := get(t, s.Handler(), "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_request_total{method="GET",path="/scan",status="200"} 1`)
	assert.Contains(t, body, `medscan_lookups_total{operation="lookup",outcome="ok"} 1`)
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	s := server.NewServer(testConfig, &mock.MedicineService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RecoversFromPanics(t *testing.T) {
	t.Parallel()

	medicines := &mock.MedicineService{
		LookupFn: func(context.Context, string) (*medscan.MedicineRecord, error) {
			panic("extractor bug")
		},
	}
	s := server.NewServer(testConfig, medicines)

	rec := get(t, s.Handler(), "/scan?code=1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
