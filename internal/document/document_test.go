// File: internal/document/document_test.go
package document

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
	"github.com/infodatanodes/visit-processor-testing/internal/config"
)

func TestFieldSelector(t *testing.T) {
	sel := fieldSelector(schemas.FieldRef{Sheet: "Visit 3", Address: "visit3.consent"})
	assert.Equal(t, `[data-sheet="Visit 3"] [data-field="visit3.consent"]`, sel)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Refresh Metrics":          "refresh_metrics",
		"Fill visit #4 (P Denied)": "fill_visit_4_p_denied",
		"  already-slugged  ":      "already_slugged",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}

func TestSleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sleep(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOperationsRequireOpenDocument(t *testing.T) {
	d := NewBrowserDocument(config.DocumentConfig{NavigationTimeout: time.Second}, config.SpeedProfile{})
	ctx := context.Background()

	err := d.InvokeEntryPoint(ctx, "RefreshMetrics")
	require.Error(t, err)
	assert.True(t, schemas.IsAutomationError(err))

	_, err = d.ReadCell(ctx, "Metrics", "dashboard.total")
	require.Error(t, err)
	assert.True(t, schemas.IsAutomationError(err))

	err = d.TypeText(ctx, schemas.FieldRef{Sheet: "Visit 1", Address: "visit1.residents"}, "P")
	require.Error(t, err)
	assert.True(t, schemas.IsAutomationError(err))

	assert.NoError(t, d.Close(ctx), "closing a never-opened document is a no-op")
}

func TestOpenDocumentRejectsSecondOpen(t *testing.T) {
	d := NewBrowserDocument(config.DocumentConfig{LeaveOpen: true}, config.SpeedProfile{})
	d.tabCtx = context.Background()

	err := d.OpenDocument(context.Background(), "http://localhost:8080/workbook")
	require.Error(t, err)
	assert.True(t, schemas.IsAutomationError(err))
	assert.Contains(t, err.Error(), "already open")
}

func TestShutdownAllowsReopen(t *testing.T) {
	d := NewBrowserDocument(config.DocumentConfig{LeaveOpen: true}, config.SpeedProfile{})
	d.tabCtx = context.Background()

	// Close honors LeaveOpen and keeps the tab; Shutdown always releases it.
	require.NoError(t, d.Close(context.Background()))
	assert.NotNil(t, d.TabContext())

	d.Shutdown()
	assert.Nil(t, d.TabContext())
}

func TestMergeCancelDoesNotLeakWatchers(t *testing.T) {
	tab, tabCancel := context.WithCancel(context.Background())
	defer tabCancel()
	caller, callerCancel := context.WithCancel(context.Background())
	defer callerCancel()

	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		_, cancel := mergeCancel(caller, tab)
		cancel()
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && runtime.NumGoroutine() > before+2 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before+2,
		"watcher goroutines must exit once the operation finishes")
}

func TestMergeCancelPropagatesCallerCancellation(t *testing.T) {
	tab := context.Background()
	caller, callerCancel := context.WithCancel(context.Background())

	merged, cancel := mergeCancel(caller, tab)
	defer cancel()

	callerCancel()
	select {
	case <-merged.Done():
	case <-time.After(time.Second):
		t.Fatal("merged context not cancelled with its caller")
	}
}

func TestCaptureRequiresOpenDocument(t *testing.T) {
	d := NewBrowserDocument(config.DocumentConfig{}, config.SpeedProfile{})
	capturer, err := NewScreenshotCapturer(d, t.TempDir())
	require.NoError(t, err)

	_, err = capturer.Capture(context.Background(), "checkpoint")
	require.Error(t, err)
}
