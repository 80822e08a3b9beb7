// File: internal/document/evidence.go
// Description: Screenshot evidence capture for scenario checkpoints. Files are
// named with a monotonic sequence number so the evidence directory sorts in
// execution order.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/internal/observability"
)

// ScreenshotCapturer writes viewport screenshots of the open workbook tab.
// It implements schemas.EvidenceCapturer.
type ScreenshotCapturer struct {
	doc    *BrowserDocument
	dir    string
	seq    int
	now    func() time.Time
	logger *zap.Logger
}

// NewScreenshotCapturer builds a capturer writing into dir, creating it if
// needed.
func NewScreenshotCapturer(doc *BrowserDocument, dir string) (*ScreenshotCapturer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create evidence directory %s: %w", dir, err)
	}
	return &ScreenshotCapturer{
		doc:    doc,
		dir:    dir,
		now:    time.Now,
		logger: observability.GetLogger().Named("evidence"),
	}, nil
}

// Capture takes a screenshot and returns the path of the written file. The
// name is sequence-prefixed and timestamped: 003_refresh_metrics_142755.png.
func (c *ScreenshotCapturer) Capture(ctx context.Context, name string) (string, error) {
	tab := c.doc.TabContext()
	if tab == nil {
		return "", fmt.Errorf("no open document to capture")
	}

	merged, cancelMerge := mergeCancel(ctx, tab)
	defer cancelMerge()

	var buf []byte
	err := chromedp.Run(merged, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(ctx)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}

	c.seq++
	filename := fmt.Sprintf("%03d_%s_%s.png", c.seq, slugify(name), c.now().Format("150405"))
	path := filepath.Join(c.dir, filename)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot %s: %w", path, err)
	}
	c.logger.Debug("Captured evidence.", zap.String("path", path))
	return path, nil
}
