package ai

import (
	"regexp"
	"strings"
)

const fenceMarker = "```"

var (
	// fenceLine matches a line that is only a fence, optionally with a language tag.
	fenceLine = regexp.MustCompile("^\\s*```[\\w+#.-]*\\s*$")
	// inlineOpen matches an opening fence with a python tag followed by code on the same line.
	inlineOpen = regexp.MustCompile("^(\\s*)```(?:python3?|py)\\s+")
)

// StripCodeFences removes markdown code fences from a model reply.
// Fence lines (```python, ```) are dropped and stray markers removed.
// Applying it twice yields the same result as applying it once.
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.Contains(content, fenceMarker) {
		return content
	}

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if fenceLine.MatchString(line) {
			continue
		}
		line = inlineOpen.ReplaceAllString(line, "$1")
		kept = append(kept, strings.ReplaceAll(line, fenceMarker, ""))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
