// File: internal/generator/fallback.go
// Description: Deterministic templated content generation. Every selection is
// driven by the scenario-scoped seeded RNG, so identical (context, seed)
// inputs produce byte-identical text.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

// Exterior description vocabulary.
var (
	houseTypes = []string{
		"Single story", "Two story", "Ranch-style", "Split-level",
	}
	exteriorMaterials = []string{
		"brick", "frame", "stucco", "stone and siding",
	}
	trimColors = []string{
		"white", "cream-colored", "dark green", "black", "brown",
	}
	garageLines = []string{
		"Two-car attached garage on the left side",
		"One-car detached garage in back",
		"Carport on the right side, no enclosed garage",
		"No garage, street parking only",
	}
	yardLines = []string{
		"Front yard is well-maintained with mature landscaping",
		"Front yard has a small flower bed and trimmed bushes",
		"Lawn recently mowed, quiet residential street",
		"Yard is bare with patches of dirt and an overgrown hedge",
	}
)

// Observed-narrative vocabulary for successful visits, in walkthrough order.
var (
	doorAnswerLines = []string{
		"P answered the front door",
		"P came to the door after the second knock",
		"P opened the door after the doorbell rang",
	}
	consentLines = []string{
		"Officer requested consent to enter the home, P agreed",
		"Officer asked P for consent to enter, consent was given",
	}
	entryLines = []string{
		"The home opens to a living room with a sectional couch and a wall-mounted TV",
		"The home opens to a foyer leading into the living room",
		"The home opens to a combined living and dining area",
	}
	bedroomLines = []string{
		"P's bedroom is down the hallway on the right - queen bed made, clothes in the closet, nightstand with lamp",
		"P's bedroom is the first door on the left - full bed made, dresser with personal items",
		"P's sleeping area is in the back bedroom - twin bed unmade, clothes on the floor, small TV on the dresser",
	}
	kitchenLines = []string{
		"P escorted officer to the kitchen, which had granite countertops and a gas stove",
		"P walked officer to the kitchen area with an electric stove and dishwasher",
		"P escorted officer to the kitchen, clean with basic appliances",
	}
	refrigeratorLines = []string{
		"White side-by-side refrigerator contained milk, eggs, lunch meat, and various condiments",
		"Stainless steel French door refrigerator contained fruits, vegetables, and beverages",
		"Black top-freezer refrigerator contained leftovers, milk, and condiments",
	}
	exitLines = []string{
		"Officer asked P to escort to the exit. No violations noted",
		"P escorted officer to the door. No violations noted",
	}
)

// Red-flag detail vocabulary by category, each with a specific location.
var redFlagDetails = map[schemas.RedFlagCategory][]string{
	schemas.FlagAlcohol: {
		"Found three empty beer cans on the bedroom nightstand next to an open bottle of whiskey approximately half full.",
		"Observed an open case of beer on the kitchen counter with several empty cans in the sink.",
	},
	schemas.FlagDrugs: {
		"Observed a glass pipe with burnt residue and small plastic baggies with white powder residue on the coffee table in the living room.",
		"Found rolling papers and a small baggie with green residue in the top drawer of the bedroom dresser.",
	},
	schemas.FlagGuns: {
		"Located a black semi-automatic handgun in the top drawer of the bedroom dresser. Magazine was inserted.",
		"Observed a rifle case leaning against the wall in the hallway closet.",
	},
	schemas.FlagKnives: {
		"Found a large hunting knife with an approximately 8-inch blade under the mattress in P's bedroom.",
		"Observed a machete hanging on a hook inside the garage entry door.",
	},
	schemas.FlagIP: {
		"Female present in the living room had visible bruising on her left arm and appeared nervous. She stated she fell but avoided eye contact when questioned.",
		"Male visitor in the kitchen had a fresh cut above his eye and gave inconsistent answers about how it happened.",
	},
	schemas.FlagOther: {
		"Children's toys and clothing observed in the bedroom closet. P has an active no-contact order with minor children.",
		"Mail addressed to a known associate found on the entry table, suggesting prohibited contact.",
	},
}

// forceableCategories are the categories the generator draws from when a
// scenario forces a red flag; Other is reserved for explicit selection.
var forceableCategories = []schemas.RedFlagCategory{
	schemas.FlagAlcohol, schemas.FlagDrugs, schemas.FlagGuns, schemas.FlagKnives, schemas.FlagIP,
}

// Vehicle detail pools. Vehicle v within a visit is selected by index, not by
// RNG, so vehicle rows are stable across runs.
var (
	vehiclePlates = []string{"ABC-1234", "XYZ-5678", "DEF-9012", "GHI-3456", "JKL-7890"}
	vehicleColors = []string{"Blue", "Red", "White", "Black", "Silver"}
	vehicleMakes  = []string{"Honda", "Toyota", "Ford", "Chevrolet", "Nissan"}
	vehicleModels = []string{"Civic", "Camry", "F-150", "Malibu", "Altima"}
)

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

// fallbackExterior composes an exterior-only residence description from the
// fixed vocabulary: house type, material, trim color, garage, yard condition.
func fallbackExterior(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s home with %s trim outlining the windows and front door. %s. %s.",
		pick(rng, houseTypes),
		pick(rng, exteriorMaterials),
		pick(rng, trimColors),
		pick(rng, garageLines),
		pick(rng, yardLines),
	)
}

// fallbackObserved composes the observed narrative. Successful visits get the
// full room-by-room walkthrough; every other outcome gets a short outcome-
// specific note that never describes entering the home.
func fallbackObserved(rng *rand.Rand, outcome schemas.VisitOutcome) string {
	if outcome != schemas.OutcomeSuccessful {
		return ""
	}
	return fmt.Sprintf("%s. %s. %s. %s. %s. %s. %s.",
		pick(rng, doorAnswerLines),
		pick(rng, consentLines),
		pick(rng, entryLines),
		pick(rng, bedroomLines),
		pick(rng, kitchenLines),
		pick(rng, refrigeratorLines),
		pick(rng, exitLines),
	)
}

// fallbackAttemptNote is the short exterior-side note recorded for visits
// where the officer never entered the home.
func fallbackAttemptNote(outcome schemas.VisitOutcome, vt schemas.VisitType) string {
	switch {
	case vt == schemas.TypeFTR || outcome == schemas.OutcomeFailureToReport:
		return "Knocked on the door and rang the doorbell. No response after waiting. Left orange door knocker with contact information."
	case outcome == schemas.OutcomeNotHome:
		return "Knocked on the door and rang the doorbell. No response after multiple attempts. Left door knocker with contact information."
	case outcome == schemas.OutcomeWrongAddress:
		return "Knocked on the door; the person who answered was not the probationer. Confirmed this was not the correct residence and documented the discrepancy."
	case outcome == schemas.OutcomeAccessDenied:
		return "P answered the door. Officer asked for consent to enter the home. P refused to allow entry and the visit was terminated."
	default:
		return "Visit attempt documented; no entry made."
	}
}

// fallbackRedFlag returns a location-specific red-flag detail for a category.
func fallbackRedFlag(rng *rand.Rand, category schemas.RedFlagCategory) string {
	details, ok := redFlagDetails[category]
	if !ok {
		details = redFlagDetails[schemas.FlagOther]
	}
	return pick(rng, details)
}

// vehicleAt returns the fixed vehicle row for index v within a visit.
func vehicleAt(v int) schemas.Vehicle {
	return schemas.Vehicle{
		Plate: vehiclePlates[v%len(vehiclePlates)],
		Color: vehicleColors[v%len(vehicleColors)],
		Make:  vehicleMakes[v%len(vehicleMakes)],
		Model: vehicleModels[v%len(vehicleModels)],
	}
}
