package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/medscan"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Site      *medscan.Site
	Medicines medscan.MedicineService
	Scans     medscan.ScanService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Site      string        `default:"https://medicament.ma/" env:"MEDSCAN_SITE" help:"Root URL of the medicine database"`
	Timeout   time.Duration `default:"15s" env:"MEDSCAN_TIMEOUT" help:"Timeout for a single page fetch"`
	Browser   bool          `env:"MEDSCAN_BROWSER" help:"Fetch pages with a headless browser"`
	DB        string        `name:"db" env:"MEDSCAN_DB" help:"Scan journal path (default ~/.medscan/medscan.db)"`
	LogLevel  string        `default:"info" env:"LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string        `default:"text" env:"LOG_FORMAT" enum:"text,json" help:"Log format"`
	Verbose   bool          `short:"v" help:"Log every fetch, extraction and lookup"`

	Scan    ScanCmd    `cmd:"" help:"Look a medicine up by barcode"`
	Search  SearchCmd  `cmd:"" help:"Search medicines by name"`
	Resolve ResolveCmd `cmd:"" help:"Extract the medicine described by a detail page URL"`
	History HistoryCmd `cmd:"" help:"List journaled scans"`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Code string `arg:"" help:"Barcode (CIP code)"`
	Save bool   `short:"s" help:"Record the result in the scan journal"`
	JSON bool   `name:"json" help:"Print the record as JSON"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Name        string `arg:"" help:"Medicine name"`
	Details     bool   `short:"d" help:"Fetch the detail page of every result"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent detail fetch limit"`
	JSON        bool   `name:"json" help:"Print the results as JSON"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	URL  string `arg:"" help:"Detail page URL"`
	JSON bool   `name:"json" help:"Print the record as JSON"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Code  string `help:"Only show scans of this barcode"`
	Limit int    `short:"n" default:"20" help:"Maximum number of scans to show"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Address   string `default:"0.0.0.0" env:"ADDRESS" help:"Listen address"`
	Port      string `default:"5000" env:"PORT" help:"Listen port"`
	NoJournal bool   `help:"Do not record scans in the journal"`
}
