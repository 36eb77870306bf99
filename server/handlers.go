package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/medscan"
)

const maxHistoryLimit = 500

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, Usage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScan looks a barcode up. GET /scan?code=
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		s.respondWithError(w, r, medscan.Errorf(medscan.EINVALID, "Paramètre 'code' manquant"))
		return
	}

	record, err := s.medicines.Lookup(r.Context(), code)
	if err != nil {
		if medscan.IsNotFound(err) {
			s.logger.Info("medicine not found", "code", code, "reason", medscan.ErrorMessage(err))
			err = medscan.Errorf(medscan.ENOTFOUND, "Médicament non trouvé pour ce code-barres")
		}
		s.respondWithError(w, r, err)
		return
	}

	s.journal(r.Context(), record)
	respondWithJSON(w, http.StatusOK, record)
}

// handleSearch searches by name. GET /search?name=[&details=true&limit=N]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		s.respondWithError(w, r, medscan.Errorf(medscan.EINVALID, "Paramètre 'name' manquant"))
		return
	}

	details, err := parseBool(q.Get("details"))
	if err != nil {
		s.respondWithError(w, r, medscan.Errorf(medscan.EINVALID, "Paramètre 'details' invalide"))
		return
	}

	if !details {
		entries, err := s.medicines.Search(r.Context(), name)
		if err != nil {
			s.respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
		return
	}

	limit, err := parseLimit(q.Get("limit"), 0)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	results, err := s.medicines.SearchDetails(r.Context(), name, limit)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}

// handleHistory lists journaled scans. GET /history[?code=&limit=&offset=]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"), 50)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	offset, err := parseLimit(q.Get("offset"), 0)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	filter := medscan.ScanFilter{Limit: min(limit, maxHistoryLimit), Offset: offset}
	if code := strings.TrimSpace(q.Get("code")); code != "" {
		filter.Code = &code
	}

	scans, err := s.scans.FindScans(r.Context(), filter)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, scans)
}

// journal records a successful scan. A journal failure never fails the
// request.
func (s *Server) journal(ctx context.Context, record *medscan.MedicineRecord) {
	if s.scans == nil {
		return
	}
	scan := &medscan.Scan{
		SourceURL: s.site.BarcodeURL(record.Code),
		Record:    *record,
	}
	if err := s.scans.CreateScan(ctx, scan); err != nil {
		s.logger.Warn("failed to journal scan", "code", record.Code, "err", err)
	}
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// parseLimit parses a non-negative integer query parameter.
func parseLimit(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, medscan.Errorf(medscan.EINVALID, "Paramètre numérique invalide : %q", v)
	}
	return n, nil
}
