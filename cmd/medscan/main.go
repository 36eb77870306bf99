package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/medscan"
	"github.com/fwojciec/medscan/goquery"
	medscanhttp "github.com/fwojciec/medscan/http"
	"github.com/fwojciec/medscan/lookup"
	"github.com/fwojciec/medscan/rod"
	medslog "github.com/fwojciec/medscan/slog"
	"github.com/fwojciec/medscan/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is not an error; the environment may be set directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the scan journal.
	DB *sqlite.DB

	// Fetcher used by the lookup service.
	Fetcher medscan.Fetcher

	// Services for end-to-end testing. When set, they are used instead of
	// the real implementations.
	Medicines medscan.MedicineService
	Scans     medscan.ScanService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		if err := m.Fetcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.DB != nil {
		if err := m.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("medscan"),
		kong.Description("Look medicines up on medicament.ma by barcode or name."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'medscan --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}
	deps.Logger = logger

	site, err := medscan.NewSite(cli.Site)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set MEDSCAN_SITE to an absolute URL such as https://medicament.ma/")
		return err
	}
	deps.Site = site

	defer m.Close()

	if needsJournal(cmd, cli) {
		if m.Scans == nil {
			path := cli.DB
			if path == "" {
				path = defaultDBPath()
			}
			m.DB = sqlite.NewDB(path)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set MEDSCAN_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", path, err)
			}
			m.Scans = sqlite.NewScanService(m.DB)
		}
		deps.Scans = m.Scans
	}

	if cmd != "history" {
		if m.Medicines == nil {
			if err := m.wireMedicines(cli, site, logger); err != nil {
				return err
			}
		}
		deps.Medicines = m.Medicines
	}

	return kongCtx.Run(deps)
}

// wireMedicines builds the lookup service and its fetcher.
func (m *Main) wireMedicines(cli *CLI, site *medscan.Site, logger *slog.Logger) error {
	if cli.Browser {
		fetcher, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithUserAgent(medscanhttp.DefaultUserAgent),
		)
		if err != nil {
			return fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		m.Fetcher = fetcher
	} else {
		m.Fetcher = medscanhttp.NewFetcher(medscanhttp.WithTimeout(cli.Timeout))
	}

	var (
		fetcher  medscan.Fetcher          = m.Fetcher
		pages    medscan.PageExtractor    = goquery.NewPageExtractor(goquery.WithSite(site))
		listings medscan.ListingExtractor = goquery.NewListingExtractor(goquery.WithSite(site))
	)
	if cli.Verbose {
		detector := goquery.NewDetector(goquery.WithSite(site))
		fetcher = medslog.NewLoggingFetcher(fetcher, logger)
		pages = medslog.NewLoggingPageExtractor(pages, detector, logger)
		listings = medslog.NewLoggingListingExtractor(listings, detector, logger)
	}

	var medicines medscan.MedicineService = &lookup.Service{
		Fetcher:  fetcher,
		Pages:    pages,
		Listings: listings,
		Site:     site,
	}
	if cli.Verbose {
		medicines = medslog.NewLoggingService(medicines, logger)
	}
	m.Medicines = medicines
	return nil
}

// needsJournal reports whether the command reads or writes the scan journal.
func needsJournal(cmd string, cli *CLI) bool {
	switch cmd {
	case "history":
		return true
	case "scan":
		return cli.Scan.Save
	case "serve":
		return !cli.Serve.NoJournal
	}
	return false
}

// newLogger returns a logger writing to w in the given format at the given level.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q: must be text or json", format)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "medscan.db"
	}
	dir := filepath.Join(home, ".medscan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "medscan.db")
}
