// Package export prints rendered HTML pages to PDF with headless Chrome.
// Lesson plans and chat transcripts both go through it.
package export

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdmath/internal/browser"
	"github.com/alnah/go-mdmath/internal/fileutil"
)

// Sentinel errors for export.
var (
	ErrEmptyHTML     = errors.New("nothing to export")
	ErrPDFGeneration = errors.New("PDF generation failed")
	ErrWritePDF      = errors.New("failed to write PDF file")
)

// A4 paper in inches, with the default margin.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	DefaultMargin     = 0.6
	footerMargin      = 0.8
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Options control the printed page.
type Options struct {
	Margin      float64 // inches, zero selects DefaultMargin
	Footer      string  // text printed bottom left
	Date        string  // text printed bottom center
	PageNumbers bool    // print "n/total" bottom right

	// BaseDir resolves relative <img src> and <link href> references,
	// such as a logo next to a custom template. Empty leaves them as is.
	BaseDir string
}

// fileRenderer prints a local HTML file. It lets tests run without Chrome.
type fileRenderer interface {
	RenderFile(ctx context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error)
}

// Exporter turns HTML pages into PDF documents.
type Exporter struct {
	renderer fileRenderer
}

// New creates an Exporter printing through b. The caller owns b.
func New(b *browser.Browser) *Exporter {
	return &Exporter{renderer: &rodRenderer{browser: b}}
}

// PDF prints a complete HTML document. The page is written to a temporary
// file first so relative assets and long documents load like any file.
func (e *Exporter) PDF(ctx context.Context, htmlContent string, opts Options) ([]byte, error) {
	if htmlContent == "" {
		return nil, ErrEmptyHTML
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err := resolveLocalPaths(htmlContent, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return e.renderer.RenderFile(ctx, path, printOptions(opts))
}

// WriteFile prints htmlContent and writes the PDF to path, creating parent
// directories as needed.
func (e *Exporter) WriteFile(ctx context.Context, path, htmlContent string, opts Options) error {
	pdf, err := e.PDF(ctx, htmlContent, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	if err := os.WriteFile(path, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	return nil
}

func printOptions(opts Options) *proto.PagePrintToPDF {
	margin := opts.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}
	bottom := margin
	hasFooter := opts.Footer != "" || opts.Date != "" || opts.PageNumbers
	if hasFooter && bottom < footerMargin {
		bottom = footerMargin
	}

	p := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(bottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
	if hasFooter {
		p.DisplayHeaderFooter = true
		p.HeaderTemplate = "<span></span>"
		p.FooterTemplate = footerTemplate(opts, margin)
	}
	return p
}

// footerTemplate builds Chrome's native footer. Chrome fills the
// pageNumber and totalPages classes.
func footerTemplate(opts Options, margin float64) string {
	right := ""
	if opts.PageNumbers {
		right = `<span class="pageNumber"></span>/<span class="totalPages"></span>`
	}
	return fmt.Sprintf(`<div style="font-size: 9px; color: #888; width: 100%%; display: flex; justify-content: space-between; padding: 0 %.2fin;"><span>%s</span><span>%s</span><span>%s</span></div>`,
		margin, html.EscapeString(opts.Footer), html.EscapeString(opts.Date), right)
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodRenderer prints through the shared browser.
type rodRenderer struct {
	browser *browser.Browser
}

func (r *rodRenderer) RenderFile(ctx context.Context, path string, opts *proto.PagePrintToPDF) ([]byte, error) {
	page, err := r.browser.Open(ctx, "file://"+path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}
