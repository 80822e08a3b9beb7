// File: api/schemas/interfaces.go
// Description: Capability interfaces for the external collaborators the core
// depends on. The runner and generator are written against these abstractions
// only; the concrete bindings live in internal/document and internal/generator.
package schemas

import "context"

// FieldRef addresses one input field of the document by sheet and a semantic
// field path (e.g. "visit3.consent"). How a path maps onto the underlying
// workbook is entirely the adapter's concern.
type FieldRef struct {
	Sheet   string
	Address string
}

// AutomatableDocument is the complete capability set the runner needs from the
// target application. All operations are synchronous; an error from any of
// them means the document state is no longer trustworthy.
type AutomatableDocument interface {
	// OpenDocument opens the workbook at the given location and enables the
	// dialog-free test mode.
	OpenDocument(ctx context.Context, path string) error
	// InvokeEntryPoint runs a named macro entry point with optional arguments,
	// e.g. "CreateVisitSheet" or "AddVehicleRow".
	InvokeEntryPoint(ctx context.Context, name string, args ...any) error
	// ReadCell returns the displayed value of a cell addressed by sheet and
	// semantic path.
	ReadCell(ctx context.Context, sheet, address string) (string, error)
	// TypeText enters text into a field. Visible character pacing is a
	// presentation concern handled inside the adapter.
	TypeText(ctx context.Context, field FieldRef, text string) error
	// Close releases the document. The run command deliberately skips this
	// after a run so the workbook stays open for manual inspection.
	Close(ctx context.Context) error
}

// EvidenceCapturer persists a screenshot of the current document state.
// Capture failures are a best-effort side channel and never fatal.
type EvidenceCapturer interface {
	Capture(ctx context.Context, name string) (string, error)
}

// GenerationRequest is a single prompt to the text-generation backend.
type GenerationRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// TextClient abstracts the external text-generation backend. Any error,
// timeout, or invalid payload is treated identically by the caller: fall back
// to templated generation.
type TextClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Close() error
}
