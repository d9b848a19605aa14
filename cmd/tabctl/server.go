package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/tabctl/browser"
	"github.com/hazyhaar/tabctl/content"
	"github.com/hazyhaar/tabctl/driver"
	"github.com/hazyhaar/tabctl/page"
	"github.com/hazyhaar/tabctl/shield"
	"github.com/hazyhaar/tabctl/trace"
)

// server exposes tab operations over HTTP. Every request opens a fresh
// tab, drives it, and closes it before responding.
type server struct {
	mgr      *browser.Manager
	recorder trace.Recorder
	logger   *slog.Logger
}

func newServer(mgr *browser.Manager, recorder trace.Recorder, logger *slog.Logger) *server {
	return &server{mgr: mgr, recorder: recorder, logger: logger}
}

func (s *server) listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("tabctl: server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("tabctl: server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}
	r.Use(shield.NewRateLimiter(60, time.Minute, "/health").Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/v1/navigate", s.handleNavigate)
	r.Post("/v1/screenshot", s.handleScreenshot)
	r.Post("/v1/pdf", s.handlePdf)

	return r
}

type navigateRequest struct {
	URL       string `json:"url"`
	WaitUntil string `json:"wait_until,omitempty"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
	Markdown  bool   `json:"markdown,omitempty"`
}

type navigateResponse struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Status   int    `json:"status,omitempty"`
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

func (s *server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeJSON(w, 400, map[string]string{"error": "url is required"})
		return
	}

	d, resp, err := s.openAndNavigate(r.Context(), req.URL, req.WaitUntil, req.TimeoutMS)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	defer d.Close(context.Background())

	out := navigateResponse{URL: d.URL()}
	if resp != nil {
		out.Status = resp.Status()
	}
	if out.Title, err = d.Title(r.Context()); err != nil {
		writeError(w, 502, err)
		return
	}

	html, err := d.Content(r.Context())
	if err != nil {
		writeError(w, 502, err)
		return
	}
	res, err := content.NewConverter().Convert([]byte(html), content.Options{SourceURL: req.URL})
	if err != nil {
		writeError(w, 422, err)
		return
	}
	out.Text = res.Text
	out.Hash = res.Hash
	if req.Markdown {
		out.Markdown = res.Markdown
	}
	writeJSON(w, 200, out)
}

type screenshotRequest struct {
	URL       string `json:"url"`
	WaitUntil string `json:"wait_until,omitempty"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`
	FullPage  bool   `json:"full_page,omitempty"`
	Format    string `json:"format,omitempty"`
	Quality   int    `json:"quality,omitempty"`
}

func (s *server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	var req screenshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeJSON(w, 400, map[string]string{"error": "url is required"})
		return
	}

	d, _, err := s.openAndNavigate(r.Context(), req.URL, req.WaitUntil, req.TimeoutMS)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	defer d.Close(context.Background())

	o := (&page.ScreenshotOptions{}).WithFullPage(req.FullPage)
	contentType := "image/png"
	if req.Format == "jpeg" {
		o = o.WithType(page.ScreenshotTypeJPEG)
		contentType = "image/jpeg"
		if req.Quality > 0 {
			o = o.WithQuality(req.Quality)
		}
	}
	data, err := d.Screenshot(r.Context(), o)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(200)
	w.Write(data)
}

type pdfRequest struct {
	URL             string `json:"url"`
	WaitUntil       string `json:"wait_until,omitempty"`
	TimeoutMS       int    `json:"timeout_ms,omitempty"`
	Format          string `json:"format,omitempty"`
	Landscape       bool   `json:"landscape,omitempty"`
	PrintBackground bool   `json:"print_background,omitempty"`
}

func (s *server) handlePdf(w http.ResponseWriter, r *http.Request) {
	var req pdfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeJSON(w, 400, map[string]string{"error": "url is required"})
		return
	}

	d, _, err := s.openAndNavigate(r.Context(), req.URL, req.WaitUntil, req.TimeoutMS)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	defer d.Close(context.Background())

	o := (&page.PdfOptions{}).WithPrintBackground(req.PrintBackground).WithLandscape(req.Landscape)
	if req.Format != "" {
		o = o.WithFormat(req.Format)
	}
	data, err := d.Pdf(r.Context(), o)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	if _, err := content.InspectPDF(data); err != nil {
		writeError(w, 502, fmt.Errorf("verify pdf: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(200)
	w.Write(data)
}

// openAndNavigate opens a fresh tab, wraps it, and navigates. The caller
// owns the returned driver and must Close it.
func (s *server) openAndNavigate(ctx context.Context, url, waitUntil string, timeoutMS int) (*driver.Driver, page.Response, error) {
	tab, err := s.mgr.OpenTab(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("open tab: %w", err)
	}
	d, err := driver.New(driver.Config{
		Browser:  s.mgr.Browser(),
		Page:     tab,
		Recorder: s.recorder,
		Logger:   shield.GetLogger(ctx),
	})
	if err != nil {
		tab.Close()
		return nil, nil, fmt.Errorf("wrap tab: %w", err)
	}

	o := &page.NavigateOptions{}
	switch waitUntil {
	case "", "load":
		o = o.WithWaitUntil(page.WaitUntilLoad)
	case "domcontentloaded":
		o = o.WithWaitUntil(page.WaitUntilDOMContentLoaded)
	case "networkidle":
		o = o.WithWaitUntil(page.WaitUntilNetworkIdle)
	default:
		d.Close(context.Background())
		return nil, nil, fmt.Errorf("unknown wait_until %q", waitUntil)
	}
	if timeoutMS > 0 {
		o = o.WithTimeout(time.Duration(timeoutMS) * time.Millisecond)
	}

	resp, err := d.Navigate(ctx, url, o)
	if err != nil {
		d.Close(context.Background())
		return nil, nil, fmt.Errorf("navigate: %w", err)
	}
	return d, resp, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
