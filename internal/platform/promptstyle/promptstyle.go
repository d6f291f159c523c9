package promptstyle

import "strings"

const marker = "MYSTICWRITER_PROMPT_STYLE_V1"

// Mode selects the output contract appended to the guidance block.
type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// ApplySystem prepends a short house-style block to a system prompt. Applying
// it twice is a no-op.
func ApplySystem(system string, mode Mode) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou write for MysticWriter, a collaborative fiction tool.")
	b.WriteString("\nStay inside the story the user has started and keep names consistent.")
	b.WriteString("\nNever mention that you are an assistant or add commentary about the task.")
	if mode == ModeJSON {
		b.WriteString("\nReturn a single JSON object with exactly the requested keys.")
	} else {
		b.WriteString("\nReturn prose only.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
