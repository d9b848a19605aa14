// Command tabctl drives a browser tab from the command line.
//
// Usage:
//
//	tabctl -url https://example.com -text            # print page text
//	tabctl -url https://example.com -markdown        # print page markdown
//	tabctl -url https://example.com -screenshot s.png
//	tabctl -url https://example.com -pdf page.pdf
//	tabctl -serve :8086                              # HTTP API
//	tabctl -config tabctl.yaml -serve :8086          # with browser config
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/tabctl/browser"
	"github.com/hazyhaar/tabctl/content"
	"github.com/hazyhaar/tabctl/dbopen"
	"github.com/hazyhaar/tabctl/driver"
	"github.com/hazyhaar/tabctl/page"
	"github.com/hazyhaar/tabctl/trace"
)

func main() {
	configPath := flag.String("config", "", "path to tabctl.yaml browser config")
	url := flag.String("url", "", "page to open")
	text := flag.Bool("text", false, "print extracted page text to stdout")
	markdown := flag.Bool("markdown", false, "print page markdown to stdout")
	screenshot := flag.String("screenshot", "", "capture a PNG screenshot to this path")
	pdfPath := flag.String("pdf", "", "print the page to PDF at this path")
	serveAddr := flag.String("serve", "", "run the HTTP API on this address")
	traceDB := flag.String("trace-db", "", "record operation traces into this SQLite file")
	timeout := flag.Duration("timeout", 60*time.Second, "overall deadline for one-shot operations")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		configPath: *configPath,
		url:        *url,
		text:       *text,
		markdown:   *markdown,
		screenshot: *screenshot,
		pdfPath:    *pdfPath,
		serveAddr:  *serveAddr,
		traceDB:    *traceDB,
		timeout:    *timeout,
	}
	if err := run(ctx, logger, opts); err != nil {
		logger.Error("tabctl: fatal", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	url        string
	text       bool
	markdown   bool
	screenshot string
	pdfPath    string
	serveAddr  string
	traceDB    string
	timeout    time.Duration
}

func run(ctx context.Context, logger *slog.Logger, opts runOptions) error {
	cfg := browser.Config{Logger: logger}
	if opts.configPath != "" {
		fileCfg, err := browser.LoadConfig(opts.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = fileCfg
		cfg.Logger = logger
	}

	var recorder trace.Recorder
	if opts.traceDB != "" {
		db, err := dbopen.Open(opts.traceDB, dbopen.WithMkdirAll(), dbopen.WithSchema(trace.Schema))
		if err != nil {
			return fmt.Errorf("trace db: %w", err)
		}
		defer db.Close()
		store := trace.NewStore(db)
		defer store.Close()
		recorder = store
	}

	mgr := browser.NewManager(cfg)
	if _, err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer mgr.Close()

	if opts.serveAddr != "" {
		srv := newServer(mgr, recorder, logger)
		return srv.listen(ctx, opts.serveAddr)
	}

	if opts.url == "" {
		fmt.Fprintln(os.Stderr, "usage: tabctl -url <url> [-text|-markdown|-screenshot <path>|-pdf <path>] | -serve <addr>")
		os.Exit(1)
	}

	opCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	return runOneShot(opCtx, logger, mgr, recorder, opts)
}

func runOneShot(ctx context.Context, logger *slog.Logger, mgr *browser.Manager, recorder trace.Recorder, opts runOptions) error {
	tab, err := mgr.OpenTab(ctx, "")
	if err != nil {
		return fmt.Errorf("open tab: %w", err)
	}

	d, err := driver.New(driver.Config{
		Browser:  mgr.Browser(),
		Page:     tab,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("wrap tab: %w", err)
	}
	defer d.Close(context.Background())

	if _, err := d.Navigate(ctx, opts.url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	if opts.screenshot != "" {
		o := (&page.ScreenshotOptions{}).WithPath(opts.screenshot).WithFullPage(true)
		if _, err := d.Screenshot(ctx, o); err != nil {
			return err
		}
		logger.Info("tabctl: screenshot written", "path", opts.screenshot)
	}

	if opts.pdfPath != "" {
		o := (&page.PdfOptions{}).WithPath(opts.pdfPath).WithPrintBackground(true)
		data, err := d.Pdf(ctx, o)
		if err != nil {
			return err
		}
		info, err := content.InspectPDF(data)
		if err != nil {
			return fmt.Errorf("verify pdf: %w", err)
		}
		logger.Info("tabctl: pdf written", "path", opts.pdfPath, "pages", info.PageCount)
	}

	if opts.text || opts.markdown {
		html, err := d.Content(ctx)
		if err != nil {
			return err
		}
		conv := content.NewConverter()
		res, err := conv.Convert([]byte(html), content.Options{SourceURL: opts.url})
		if err != nil {
			return err
		}
		if opts.markdown {
			fmt.Println(res.Markdown)
		} else {
			fmt.Println(res.Text)
		}
	}

	return nil
}
