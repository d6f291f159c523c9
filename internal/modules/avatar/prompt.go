// Package avatar holds the pure pieces of character portrait generation:
// prompt text, object naming and the resize/encode step.
package avatar

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the portrait prompt. storyContext is optional.
func BuildPrompt(name, description, storyContext string) string {
	contextInfo := ""
	if ctx := strings.TrimSpace(storyContext); ctx != "" {
		contextInfo = fmt.Sprintf("Story context: %s. ", ctx)
	}
	return fmt.Sprintf(
		"Create a fantasy character portrait in the size of 96x96 for %s. %s. \n%sHigh quality, detailed, professional illustration style. Character-focused composition.",
		name, description, contextInfo,
	)
}
