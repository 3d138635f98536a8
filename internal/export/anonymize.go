package export

import "regexp"

// Placeholder tokens substituted for each category of sensitive data
// when the anonymize option is set.
const (
	cardPlaceholder  = "[CARD]"
	ssnPlaceholder   = "[SSN]"
	emailPlaceholder = "[EMAIL]"
)

var (
	// 16-digit card-number-like runs, with optional space or dash
	// separators between 4-digit groups.
	cardPattern = regexp.MustCompile(`\b(?:\d{4}[ -]?){3}\d{4}\b`)

	ssnPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// ScrubDescription replaces card-number-like, SSN-like and email
// patterns with fixed placeholder tokens. Card numbers are scrubbed
// before SSNs so a separator-free 16-digit run is never half-matched.
func ScrubDescription(s string) string {
	s = cardPattern.ReplaceAllString(s, cardPlaceholder)
	s = ssnPattern.ReplaceAllString(s, ssnPlaceholder)
	s = emailPattern.ReplaceAllString(s, emailPlaceholder)
	return s
}
