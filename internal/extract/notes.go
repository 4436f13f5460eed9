package extract

import "strings"

// strategicKeywords flag a line as carrying strategy language worth keeping
// verbatim.
var strategicKeywords = []string{
	"plan:", "strategy", "objective", "low risk entry", "accumulate",
	"wave 3", "wave 5", "long term", "short term", "must", "should consider",
}

// ExtractNotes keeps the lines of text whose lowercase form contains any
// strategic keyword, trimmed, joined by newline in source order.
func ExtractNotes(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range strategicKeywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, line)
				break
			}
		}
	}
	return strings.Join(kept, "\n")
}
