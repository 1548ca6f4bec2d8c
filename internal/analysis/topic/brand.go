package topic

import (
	"regexp"
	"strings"
)

// Detector reports whether a piece of generated text mentions a brand.
// The generator takes it as a plug point so the heuristic can be swapped
// without touching question-selection control flow.
type Detector func(text string) bool

// sanitizePatterns are applied in order; each hit is removed and the
// remainder trimmed. The list is intentionally conservative: missing a
// brand here only weakens the prompt, the model is instructed not to
// mention brands anyway.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*(liponf|lipinf|sunlight|clear|pantene|l'oréal|dove|sunsilk|head[&\s]*shoulders|gillette|colgate)`),
	regexp.MustCompile(`(?i)\s*(ยี่ห้อ|แบรนด์).*$`),
}

var brandKeywords = []string{
	"liponf", "lipinf", "sunlight", "clear", "pantene", "l'oréal", "loreal", "dove",
	"sunsilk", "head&shoulders", "head and shoulders", "gillette", "colgate",
	"ยี่ห้อ", "แบรนด์", "brand", "product", "ผลิตภัณฑ์",
	"clinic", "lacoste", "adidas", "nike", "unilever", "procter", "gamble",
}

var brandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ยี่ห้อ\s*(\w+)`),
	regexp.MustCompile(`(?i)แบรนด์\s*(\w+)`),
	regexp.MustCompile(`(?i)ใช้\s*(liponf|sunlight|clear|pantene|dove)`),
	regexp.MustCompile(`(?i)(liponf|sunlight|clear|pantene|dove)\s*(ของ|ที่|คือ)`),
}

// Sanitize strips known brand tokens and trailing brand clauses from a
// raw interview topic. Idempotent.
func Sanitize(topic string) string {
	cleaned := topic
	for _, pattern := range sanitizePatterns {
		cleaned = strings.TrimSpace(pattern.ReplaceAllString(cleaned, ""))
	}
	return cleaned
}

// ContainsBrand checks generated text against the brand keyword list and
// a few phrase patterns. Used to reject AI questions in early turns.
func ContainsBrand(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, keyword := range brandKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, pattern := range brandPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	return false
}
