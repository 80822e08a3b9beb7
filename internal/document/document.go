// File: internal/document/document.go
// Description: Browser-hosted workbook adapter. Binds the abstract document
// operations onto a Chrome tab running the workbook's web frontend, using the
// harness hooks the workbook exposes once test mode is enabled.
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
	"github.com/infodatanodes/visit-processor-testing/internal/config"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
)

// BrowserDocument drives the workbook through a dedicated browser tab. It
// implements schemas.AutomatableDocument.
type BrowserDocument struct {
	cfg   config.DocumentConfig
	speed config.SpeedProfile

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	logger *zap.Logger
}

// NewBrowserDocument builds an adapter; the browser is not launched until
// OpenDocument.
func NewBrowserDocument(cfg config.DocumentConfig, speed config.SpeedProfile) *BrowserDocument {
	return &BrowserDocument{
		cfg:    cfg,
		speed:  speed,
		logger: observability.GetLogger().Named("document"),
	}
}

// OpenDocument launches the browser, navigates to the workbook, and switches
// it into dialog-free test mode so macro invocations never block on prompts.
func (d *BrowserDocument) OpenDocument(ctx context.Context, path string) error {
	if d.tabCtx != nil {
		return schemas.NewAutomationError("open", fmt.Errorf("document already open"))
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.cfg.Headless),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	d.allocCancel = allocCancel
	d.tabCtx = tabCtx
	d.tabCancel = tabCancel

	openCtx, cancel := context.WithTimeout(tabCtx, d.cfg.NavigationTimeout)
	defer cancel()

	d.logger.Info("Opening workbook.", zap.String("url", path), zap.Bool("headless", d.cfg.Headless))
	if err := chromedp.Run(openCtx,
		chromedp.Navigate(path),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		d.teardown()
		return schemas.NewAutomationError("open", fmt.Errorf("failed to open workbook at %s: %w", path, err))
	}

	if err := d.InvokeEntryPoint(ctx, "EnableTestMode"); err != nil {
		d.teardown()
		return err
	}
	return nil
}

// InvokeEntryPoint calls a named macro through the workbook's harness hook and
// waits for its completion. The hook rejects with the macro's error message if
// the macro fails, which surfaces here as a JS exception.
func (d *BrowserDocument) InvokeEntryPoint(ctx context.Context, name string, args ...any) error {
	if d.tabCtx == nil {
		return schemas.NewAutomationError(name, fmt.Errorf("document not open"))
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return schemas.NewAutomationError(name, fmt.Errorf("failed to encode macro arguments: %w", err))
	}
	js := fmt.Sprintf("window.visitHarness.invoke(%q, %s)", name, encoded)

	merged, cancelMerge := mergeCancel(ctx, d.tabCtx)
	defer cancelMerge()
	callCtx, cancel := context.WithTimeout(merged, d.cfg.NavigationTimeout)
	defer cancel()

	d.logger.Debug("Invoking macro.", zap.String("macro", name), zap.Int("args", len(args)))
	if err := chromedp.Run(callCtx, chromedp.Evaluate(js, nil, awaitPromise)); err != nil {
		return schemas.NewAutomationError(name, fmt.Errorf("macro %s failed: %w", name, err))
	}
	return nil
}

// ReadCell returns the displayed value of a cell, exactly as rendered. Error
// values like "#DIV/0!" come back verbatim.
func (d *BrowserDocument) ReadCell(ctx context.Context, sheet, address string) (string, error) {
	if d.tabCtx == nil {
		return "", schemas.NewAutomationError("read", fmt.Errorf("document not open"))
	}

	js := fmt.Sprintf("window.visitHarness.readCell(%q, %q)", sheet, address)
	merged, cancelMerge := mergeCancel(ctx, d.tabCtx)
	defer cancelMerge()
	callCtx, cancel := context.WithTimeout(merged, d.cfg.NavigationTimeout)
	defer cancel()

	var value string
	if err := chromedp.Run(callCtx, chromedp.Evaluate(js, &value, awaitPromise)); err != nil {
		return "", schemas.NewAutomationError("read", fmt.Errorf("failed to read %s!%s: %w", sheet, address, err))
	}
	return value, nil
}

// TypeText enters text into a field character by character with the configured
// pacing, so the workbook's change handlers fire the way they would for a
// human operator. Word boundaries get an extra pause.
func (d *BrowserDocument) TypeText(ctx context.Context, field schemas.FieldRef, text string) error {
	if d.tabCtx == nil {
		return schemas.NewAutomationError("type", fmt.Errorf("document not open"))
	}

	sel := fieldSelector(field)
	callCtx, cancelMerge := mergeCancel(ctx, d.tabCtx)
	defer cancelMerge()

	if err := chromedp.Run(callCtx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery),
	); err != nil {
		return schemas.NewAutomationError("type", fmt.Errorf("field %s.%s not reachable: %w", field.Sheet, field.Address, err))
	}

	for _, r := range text {
		if err := chromedp.Run(callCtx, chromedp.SendKeys(sel, string(r), chromedp.ByQuery)); err != nil {
			return schemas.NewAutomationError("type", fmt.Errorf("failed typing into %s.%s: %w", field.Sheet, field.Address, err))
		}
		delay := d.speed.PerChar
		if r == ' ' {
			delay += d.speed.PerWord
		}
		if err := sleep(callCtx, delay); err != nil {
			return schemas.NewAutomationError("type", err)
		}
	}
	return nil
}

// Close shuts the browser down unless the run is configured to leave the
// workbook open for manual inspection.
func (d *BrowserDocument) Close(ctx context.Context) error {
	if d.tabCtx == nil {
		return nil
	}
	if d.cfg.LeaveOpen {
		d.logger.Info("Leaving workbook open for inspection.")
		return nil
	}
	d.teardown()
	return nil
}

// Shutdown tears the browser down unconditionally, ignoring LeaveOpen. The
// run command uses it between scenarios so each definition gets a fresh tab;
// only the last document of a run is left open.
func (d *BrowserDocument) Shutdown() {
	d.teardown()
}

// TabContext exposes the live tab context for the screenshot capturer. It is
// nil before OpenDocument and after a non-LeaveOpen Close.
func (d *BrowserDocument) TabContext() context.Context {
	return d.tabCtx
}

func (d *BrowserDocument) teardown() {
	if d.tabCancel != nil {
		d.tabCancel()
	}
	if d.allocCancel != nil {
		d.allocCancel()
	}
	d.tabCtx = nil
	d.tabCancel = nil
	d.allocCancel = nil
}

// fieldSelector maps a semantic field reference onto the workbook frontend's
// stable data attributes.
func fieldSelector(field schemas.FieldRef) string {
	return fmt.Sprintf(`[data-sheet=%q] [data-field=%q]`, field.Sheet, field.Address)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// mergeCancel derives a context that carries the tab's lifetime but is also
// cancelled when the caller's context is. The returned cancel must be called
// when the operation finishes so the watcher goroutine exits.
func mergeCancel(caller, tab context.Context) (context.Context, context.CancelFunc) {
	if caller == nil || caller == context.Background() {
		return tab, func() {}
	}
	merged, cancel := context.WithCancel(tab)
	go func() {
		select {
		case <-caller.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged, cancel
}

// slugify reduces a step description to a filesystem-safe fragment for
// evidence filenames.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
