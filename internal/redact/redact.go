// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. It keeps LiveKit key
// pairs, capability tokens, bearer credentials and Secret Manager resource names
// out of logs and client-visible error messages.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedSecretNamePlaceholder = "[REDACTED_SECRET_NAME]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; later rules never match the placeholders earlier ones emit.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`projects/[^/\s]+/secrets/[^/\s:]+(?:/versions/[^/\s:]+)?`),
		replacement: RedactedSecretNamePlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]+`),
		replacement: "Bearer " + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|api[_-]?secret|secret|token|password)(\s*[=:]\s*)['"]?[^\s'"&,\[]{4,}['"]?`),
		replacement: "${1}${2}" + RedactionPlaceholder,
	},
	{
		// LiveKit API keys are "API" followed by an alphanumeric id.
		pattern:     regexp.MustCompile(`\bAPI[A-Za-z0-9]{8,}\b`),
		replacement: RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
