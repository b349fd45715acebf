package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPromptLength bounds the prompt forwarded to the style-transfer backend.
const maxPromptLength = 2000

// ValidatePrompt validates a style-transfer prompt.
//
// An empty prompt is valid; the orchestrator substitutes its default.
// Control characters other than tab and newline are rejected because the
// prompt travels as both a form field and a query parameter.
func ValidatePrompt(prompt string) error {
	if len(prompt) > maxPromptLength {
		return New(ErrCodeInvalidInput, "prompt too long (max %d characters)", maxPromptLength)
	}
	for _, r := range prompt {
		if r == '\t' || r == '\n' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "prompt contains invalid control characters")
		}
	}
	return nil
}

// replicaNameRegex matches a single DNS label.
var replicaNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateReplicaName validates a backend replica identifier.
// Replicas are joined with the upload domain as a subdomain, so each
// identifier must be one lowercase DNS label.
func ValidateReplicaName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "replica name cannot be empty")
	}
	if !replicaNameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid replica name: %q", name)
	}
	return nil
}

// ValidateDomain validates the domain replicas are served under.
func ValidateDomain(domain string) error {
	if domain == "" {
		return New(ErrCodeInvalidConfig, "domain cannot be empty")
	}
	for _, label := range strings.Split(domain, ".") {
		if !replicaNameRegex.MatchString(label) {
			return New(ErrCodeInvalidConfig, "invalid domain: %q", domain)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
