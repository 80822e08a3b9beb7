// File: internal/generator/generator.go
// Description: Per-scenario visit content generation. A Generator owns a
// seeded RNG and an optional text backend; when the backend is absent or
// misbehaves it silently falls back to templated content drawn from the same
// RNG, keeping runs reproducible.
package generator

import (
	"context"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
	"github.com/infodatanodes/visit-processor-testing/internal/config"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
)

// defaultVehicleCount is applied when a visit does not pin a vehicle count.
const defaultVehicleCount = 2

// Visit durations are drawn uniformly from [minVisitMinutes, maxVisitMinutes].
const (
	minVisitMinutes = 8
	maxVisitMinutes = 12
)

// unpinnedSuccessRate is the chance an unpinned non-FTR visit succeeds.
const unpinnedSuccessRate = 0.8

// Generator produces the field content for visits within a single scenario.
// It is not safe for concurrent use; a scenario runs its visits sequentially
// so every RNG draw happens in a fixed order.
type Generator struct {
	client  schemas.TextClient
	backend bool
	cfg     config.GeneratorConfig
	rng     *rand.Rand

	redFlagQuota    int
	redFlagsEmitted int

	logger *zap.Logger
}

// NewGenerator builds a scenario-scoped generator. client may be nil, in which
// case every visit uses templated content. redFlagQuota caps how many visits in
// the scenario may carry a red flag.
func NewGenerator(client schemas.TextClient, cfg config.GeneratorConfig, seed int64, redFlagQuota int) *Generator {
	return &Generator{
		client:       client,
		backend:      client != nil,
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(seed)),
		redFlagQuota: redFlagQuota,
		logger:       observability.GetLogger().Named("generator"),
	}
}

// DisableBackend forces templated content for the remainder of the scenario.
// Called after a failed availability probe so per-visit requests do not repeat
// the connection timeout.
func (g *Generator) DisableBackend() {
	g.backend = false
}

// RedFlagsEmitted reports how many red flags the generator has produced so far.
func (g *Generator) RedFlagsEmitted() int {
	return g.redFlagsEmitted
}

// Generate produces a complete field set for one visit. It never returns an
// error: backend failures degrade to templated content, which is drawn from
// the scenario RNG before any backend call so the template path is identical
// whether or not a backend was attempted.
func (g *Generator) Generate(ctx context.Context, gc schemas.GenerationContext) schemas.VisitFields {
	outcome := gc.Outcome
	if outcome == "" {
		outcome = g.drawOutcome(gc.Type)
	}
	successful := outcome == schemas.OutcomeSuccessful

	// All RNG draws happen up front, in a fixed order.
	window := schemas.WindowFor(gc.Type)
	arrival := window.Start + schemas.DayTime(g.rng.Intn(int(window.End-window.Start)))
	durationMin := minVisitMinutes + g.rng.Intn(maxVisitMinutes-minVisitMinutes+1)

	residents := ""
	if successful {
		residents = "P"
		if g.rng.Intn(2) == 1 {
			residents = "P, spouse"
		}
	}

	exterior := fallbackExterior(g.rng)
	observed := fallbackObserved(g.rng, outcome)

	emitFlag := gc.ForceRedFlag && successful && g.redFlagsEmitted < g.redFlagQuota
	var flagCategory schemas.RedFlagCategory
	var flagDetail string
	if emitFlag {
		flagCategory = forceableCategories[g.rng.Intn(len(forceableCategories))]
		flagDetail = fallbackRedFlag(g.rng, flagCategory)
	}

	// Backend attempts come after every draw and never touch the RNG.
	if g.backend {
		if text, ok := g.fromBackend(ctx, exteriorPrompt(gc.Address)); ok {
			exterior = text
		}
		if successful {
			if text, ok := g.fromBackend(ctx, observedPrompt()); ok {
				observed = text
			}
		}
		if emitFlag {
			if text, ok := g.fromBackend(ctx, redFlagPrompt(flagCategory)); ok {
				flagDetail = text
			}
		}
	}

	if !successful {
		exterior = exterior + " " + fallbackAttemptNote(outcome, gc.Type)
	}

	var vehicles []schemas.Vehicle
	if successful {
		count := gc.VehicleCountHint
		if count == schemas.VehicleCountUnpinned {
			count = defaultVehicleCount
		}
		for v := 0; v < count; v++ {
			vehicles = append(vehicles, vehicleAt(v))
		}
	}

	if emitFlag {
		g.redFlagsEmitted++
	}

	return schemas.VisitFields{
		Outcome:            outcome,
		ActualTime:         arrival,
		DepartureTime:      arrival + schemas.DayTime(durationMin),
		Consent:            schemas.ConsentFor(outcome),
		Residents:          residents,
		ExteriorDesc:       exterior,
		ObservedNarrative:  observed,
		Vehicles:           vehicles,
		RedFlag:            emitFlag,
		RedFlagCategory:    flagCategory,
		RedFlagDescription: flagDetail,
	}
}

// drawOutcome resolves an outcome for a visit the scenario left unpinned. FTR
// visits document a missed office appointment and are never successful; every
// other type succeeds most of the time, with the failure mode drawn uniformly.
func (g *Generator) drawOutcome(vt schemas.VisitType) schemas.VisitOutcome {
	if vt == schemas.TypeFTR {
		return schemas.OutcomeFailureToReport
	}
	if g.rng.Float64() < unpinnedSuccessRate {
		return schemas.OutcomeSuccessful
	}
	failures := []schemas.VisitOutcome{
		schemas.OutcomeNotHome,
		schemas.OutcomeAccessDenied,
		schemas.OutcomeWrongAddress,
	}
	return failures[g.rng.Intn(len(failures))]
}

// fromBackend requests text from the backend and sanity-checks the result.
// Any failure is logged at debug level and reported as not-ok; the caller
// keeps its templated text.
func (g *Generator) fromBackend(ctx context.Context, prompt string) (string, bool) {
	text, err := g.client.Generate(ctx, schemas.GenerationRequest{
		Model:     g.cfg.Model,
		Prompt:    prompt,
		MaxTokens: g.cfg.MaxTokens,
	})
	if err != nil {
		g.logger.Debug("Backend generation failed, keeping templated content.", zap.Error(err))
		return "", false
	}
	text = sanitizeBackendText(text)
	if text == "" {
		g.logger.Debug("Backend returned unusable text, keeping templated content.")
		return "", false
	}
	return text, true
}

// sanitizeBackendText strips chat-style framing the model sometimes adds and
// rejects output that is too short to be a usable field value.
func sanitizeBackendText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"`)
	for _, prefix := range []string{"Here is", "Here's", "Sure,", "Certainly"} {
		if strings.HasPrefix(text, prefix) {
			if idx := strings.IndexAny(text, ":\n"); idx >= 0 {
				text = strings.TrimSpace(text[idx+1:])
			}
		}
	}
	if len(text) < 20 {
		return ""
	}
	return text
}
