package prompt

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Fill substitutes {name} placeholders in template with values from vars.
// Placeholders without a matching key are left verbatim, braces included,
// so partially-filled templates can be filled again later.
func Fill(template string, vars map[string]string) string {
	if template == "" {
		return ""
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}
