package emotion

import (
	"fmt"
	"strings"
)

// BuildInstruction assembles the editing prompt sent to the image provider
// for one emotion. The adjective phrase is substituted into a fixed
// instruction template; everything else is constant across the set so the
// six results read as one series.
func BuildInstruction(spec Spec) string {
	parts := []string{
		fmt.Sprintf("Edit this photo so the person looks %s.", strings.TrimSpace(spec.Adjective)),
		"Exaggerate the expression so the emotion is unmistakable at a glance.",
		"Keep the same person, hairstyle, and clothing; do not change their identity.",
		"Render the result as a vintage instant-camera photograph with soft lighting and slight film grain.",
		"Center the subject from the chest up against a simple pastel studio backdrop.",
	}
	return strings.Join(parts, " ")
}
