// Package pdf prints rendered invoice HTML to A4 PDF through a headless
// Chromium and stores the result on disk.
package pdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 in inches, as the DevTools protocol expects.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// Engine turns an HTML document into PDF bytes.
type Engine interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeEngine starts a fresh browser for every document and tears it down
// before returning, on success and on failure alike.
type ChromeEngine struct {
	// ExecPath overrides the Chrome/Chromium binary; empty means auto-detect.
	ExecPath string
}

// NewChromeEngine creates a ChromeEngine.
func NewChromeEngine(execPath string) *ChromeEngine {
	return &ChromeEngine{ExecPath: execPath}
}

func (e *ChromeEngine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.ExecPath))
	}
	return opts
}

// PrintPDF loads html into a blank page and prints it with backgrounds
// and zero margins.
func (e *ChromeEngine) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	return buf, nil
}
