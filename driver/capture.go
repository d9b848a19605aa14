package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/tabctl/page"
)

// Screenshot captures the page as PNG or JPEG bytes. With Path set in
// the options the image is also written to disk.
func (d *Driver) Screenshot(ctx context.Context, opts ...*page.ScreenshotOptions) ([]byte, error) {
	o := first(opts)
	var timeoutOpt *time.Duration
	if o != nil {
		timeoutOpt = o.Timeout
	}
	timeout := d.effectiveTimeout(timeoutOpt, false)
	opCtx, cancel := d.opCtx(ctx, timeout)
	defer cancel()

	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	fullPage := false
	var path string
	if o != nil {
		if o.Type != nil && *o.Type == page.ScreenshotTypeJPEG {
			req.Format = proto.PageCaptureScreenshotFormatJpeg
			if o.Quality != nil {
				q := *o.Quality
				req.Quality = &q
			}
		}
		if o.FullPage != nil {
			fullPage = *o.FullPage
		}
		if o.Clip != nil {
			req.Clip = &proto.PageViewport{
				X: o.Clip.X, Y: o.Clip.Y,
				Width: o.Clip.Width, Height: o.Clip.Height,
				Scale: 1,
			}
		}
		if o.Path != nil {
			path = *o.Path
		}
	}

	p := d.rod.Context(opCtx)
	if o != nil && o.OmitBackground != nil && *o.OmitBackground {
		alpha := 0.0
		err := proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: &alpha},
		}.Call(p)
		if err == nil {
			defer func() {
				_ = proto.EmulationSetDefaultBackgroundColorOverride{}.Call(d.rod)
			}()
		}
	}

	start := time.Now()
	data, err := p.Screenshot(fullPage, req)
	err = d.wrapTimeout(err, opCtx, ctx, "screenshot", timeout)
	d.record("screenshot", path, start, err)
	if err != nil {
		return nil, fmt.Errorf("driver: screenshot: %w", err)
	}
	if path != "" {
		if err := writeFileFor(path, data); err != nil {
			return nil, fmt.Errorf("driver: screenshot: %w", err)
		}
	}
	return data, nil
}

// paper dimensions in inches, indexed by format name.
var paperSizes = map[string][2]float64{
	"Letter":  {8.5, 11},
	"Legal":   {8.5, 14},
	"Tabloid": {11, 17},
	"Ledger":  {17, 11},
	"A0":      {33.1, 46.8},
	"A1":      {23.4, 33.1},
	"A2":      {16.54, 23.4},
	"A3":      {11.7, 16.54},
	"A4":      {8.27, 11.7},
	"A5":      {5.83, 8.27},
	"A6":      {4.13, 5.83},
}

// Pdf renders the page to PDF bytes. Headless only.
func (d *Driver) Pdf(ctx context.Context, opts ...*page.PdfOptions) ([]byte, error) {
	o := first(opts)
	req := &proto.PagePrintToPDF{}
	var path string
	if o != nil {
		if o.Scale != nil {
			req.Scale = o.Scale
		}
		if o.DisplayHeaderFooter != nil {
			req.DisplayHeaderFooter = *o.DisplayHeaderFooter
		}
		if o.HeaderTemplate != nil {
			req.HeaderTemplate = *o.HeaderTemplate
		}
		if o.FooterTemplate != nil {
			req.FooterTemplate = *o.FooterTemplate
		}
		if o.PrintBackground != nil {
			req.PrintBackground = *o.PrintBackground
		}
		if o.Landscape != nil {
			req.Landscape = *o.Landscape
		}
		if o.PageRanges != nil {
			req.PageRanges = *o.PageRanges
		}
		if o.PreferCSSPageSize != nil {
			req.PreferCSSPageSize = *o.PreferCSSPageSize
		}
		if o.Format != nil {
			if size, ok := paperSizes[*o.Format]; ok {
				req.PaperWidth = &size[0]
				req.PaperHeight = &size[1]
			} else {
				return nil, fmt.Errorf("driver: pdf: unknown paper format %q", *o.Format)
			}
		} else {
			if o.Width != nil {
				w, err := cssSizeInches(*o.Width)
				if err != nil {
					return nil, fmt.Errorf("driver: pdf: %w", err)
				}
				req.PaperWidth = &w
			}
			if o.Height != nil {
				h, err := cssSizeInches(*o.Height)
				if err != nil {
					return nil, fmt.Errorf("driver: pdf: %w", err)
				}
				req.PaperHeight = &h
			}
		}
		if o.Margin != nil {
			if v, err := marginInches(o.Margin.Top); err == nil {
				req.MarginTop = &v
			}
			if v, err := marginInches(o.Margin.Bottom); err == nil {
				req.MarginBottom = &v
			}
			if v, err := marginInches(o.Margin.Left); err == nil {
				req.MarginLeft = &v
			}
			if v, err := marginInches(o.Margin.Right); err == nil {
				req.MarginRight = &v
			}
		}
		if o.Path != nil {
			path = *o.Path
		}
	}

	start := time.Now()
	stream, err := d.rod.Context(ctx).PDF(req)
	if err != nil {
		d.record("pdf", path, start, err)
		return nil, fmt.Errorf("driver: pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	d.record("pdf", path, start, err)
	if err != nil {
		return nil, fmt.Errorf("driver: pdf: %w", err)
	}
	if path != "" {
		if err := writeFileFor(path, data); err != nil {
			return nil, fmt.Errorf("driver: pdf: %w", err)
		}
	}
	return data, nil
}

// cssSizeInches parses sizes like "8.5in", "21cm", "600px".
func cssSizeInches(s string) (float64, error) {
	var value float64
	var unit string
	if _, err := fmt.Sscanf(s, "%f%s", &value, &unit); err != nil {
		if _, err := fmt.Sscanf(s, "%f", &value); err != nil {
			return 0, fmt.Errorf("bad size %q", s)
		}
		unit = "px"
	}
	switch unit {
	case "in":
		return value, nil
	case "cm":
		return value / 2.54, nil
	case "mm":
		return value / 25.4, nil
	case "px", "":
		return value / 96, nil
	default:
		return 0, fmt.Errorf("bad size unit %q", unit)
	}
}

func marginInches(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty margin")
	}
	return cssSizeInches(s)
}

func writeFileFor(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
