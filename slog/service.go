package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/medscan"
)

// Ensure LoggingService implements medscan.MedicineService.
var _ medscan.MedicineService = (*LoggingService)(nil)

// LoggingService wraps a MedicineService and logs every operation with its
// outcome code.
type LoggingService struct {
	next   medscan.MedicineService
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next medscan.MedicineService, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

func (s *LoggingService) Lookup(ctx context.Context, code string) (record *medscan.MedicineRecord, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "lookup", begin, err, "code", code)
	}(time.Now())
	return s.next.Lookup(ctx, code)
}

func (s *LoggingService) LookupURL(ctx context.Context, detailURL string) (record *medscan.MedicineRecord, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "lookup url", begin, err, "url", detailURL)
	}(time.Now())
	return s.next.LookupURL(ctx, detailURL)
}

func (s *LoggingService) Search(ctx context.Context, name string) (entries []*medscan.ListingEntry, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "search", begin, err, "name", name, "count", len(entries))
	}(time.Now())
	return s.next.Search(ctx, name)
}

func (s *LoggingService) SearchDetails(ctx context.Context, name string, limit int) (details []*medscan.ListingDetail, err error) {
	defer func(begin time.Time) {
		failed := 0
		for _, d := range details {
			if d.Record == nil {
				failed++
			}
		}
		s.log(ctx, "search details", begin, err, "name", name, "limit", limit, "count", len(details), "failed", failed)
	}(time.Now())
	return s.next.SearchDetails(ctx, name, limit)
}

// log writes one line per operation. Not-found is an expected outcome and
// is logged at info level; other failures are warnings.
func (s *LoggingService) log(ctx context.Context, op string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs,
		"outcome", outcome(err),
		"duration", time.Since(begin),
	)
	level := levelFor(err)
	if level == slog.LevelWarn {
		attrs = append(attrs, "err", medscan.ErrorMessage(err))
	}
	s.logger.Log(ctx, level, op, attrs...)
}

// levelFor returns Info for successes and not-found results and Warn for
// every other failure.
func levelFor(err error) slog.Level {
	if err != nil && !medscan.IsNotFound(err) {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// outcome names the result of an operation for logs and metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return medscan.ErrorCode(err)
}
