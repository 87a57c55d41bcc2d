// Package redact provides utilities for redacting sensitive information from
// strings before they are logged. This helps prevent the accidental leakage
// of credentials, connection strings, and tokens through error messages.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

// Precompiled regex patterns for the values this service can actually leak:
// database URLs with embedded credentials, password fields echoed back by
// drivers or validators, and JWT tokens.
var (
	// Database connection strings with userinfo
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Password fields in key=value or key: value form
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)

	// Secrets and signing keys
	secretRegex = regexp.MustCompile(`(?i)(secret|signing[_-]?key|jwt[_-]?secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// JWT token pattern - the standard three-part base64url-encoded format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
)

// String redacts sensitive information from the given string.
func String(s string) string {
	if s == "" {
		return s
	}

	s = dbConnRegex.ReplaceAllString(s, "$1://"+RedactedCredentialPlaceholder+"@")
	s = passwordRegex.ReplaceAllString(s, "$1$2"+RedactionPlaceholder)
	s = secretRegex.ReplaceAllString(s, "$1$2"+RedactionPlaceholder)
	s = jwtTokenRegex.ReplaceAllString(s, RedactionPlaceholder)

	return s
}

// Error redacts sensitive information from an error's message.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
