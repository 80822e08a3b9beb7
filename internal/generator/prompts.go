// File: internal/generator/prompts.go
// Description: Prompt builders for the text backend. Each prompt constrains
// the model to the exact slice of the visit it is asked for, so backend output
// can be validated before use.
package generator

import (
	"fmt"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

func exteriorPrompt(address string) string {
	return fmt.Sprintf(`Generate a brief, realistic description of a home's exterior as observed by a probation officer arriving for a field visit at %s.

Describe ONLY the outside of the residence: house style, construction material, trim, garage or parking, and yard condition. Do not describe the interior. Do not mention the probationer or the visit itself.

Respond with 2-3 sentences of plain prose. No preamble, no labels, no quotation marks.`, address)
}

func observedPrompt() string {
	return `Generate a realistic probation field visit narrative from the officer's point of view for a SUCCESSFUL home visit.

The narrative must cover, in order: the probationer (refer to them only as "P") answering the door, the officer requesting and receiving consent to enter, what the entry area looks like, P's bedroom, the kitchen, the contents of the refrigerator, and P escorting the officer to the exit. End by noting that no violations were observed.

Respond with a single paragraph of plain prose. No preamble, no labels, no quotation marks.`
}

func redFlagPrompt(category schemas.RedFlagCategory) string {
	return fmt.Sprintf(`Generate a brief, specific description of a %s-related violation observed by a probation officer during a home visit.

State exactly what was found and where in the home it was found. Refer to the probationer only as "P". 1-2 sentences, plain prose, no preamble.`, category)
}
