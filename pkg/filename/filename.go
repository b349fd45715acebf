// Package filename turns arbitrary text into a safe storage path segment.
//
// [Sanitize] is used to derive the save path of style-transfer results
// from the user's prompt:
//
//	filename.Sanitize("a sword! (2024)")  // "a-sword21-28202429"
//	filename.Sanitize("")                 // "untitled"
//
// The result always matches ^[A-Za-z0-9_-]+$, never starts or ends with a
// hyphen, and is never empty.
package filename

import "strings"

// Fallback is returned when nothing survives sanitization.
const Fallback = "untitled"

// Sanitize converts input into a segment that is safe in URLs and on
// filesystems.
//
// The input is percent-encoded as a URI component, the URI-safe but
// filesystem-risky characters ! ' ( ) * are percent-encoded as well,
// encoded spaces become hyphens, and every remaining character outside
// [A-Za-z0-9_-] is dropped. Leading and trailing hyphens are trimmed.
// Sanitize is total: it never fails and never returns an empty string.
func Sanitize(input string) string {
	encoded := encodeComponent(input)
	encoded = strings.ReplaceAll(encoded, "%20", "-")

	var b strings.Builder
	b.Grow(len(encoded))
	for i := 0; i < len(encoded); i++ {
		if c := encoded[i]; isSegmentByte(c) {
			b.WriteByte(c)
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return Fallback
	}
	return out
}

// encodeComponent percent-encodes s byte by byte. Unreserved bytes are
// ASCII letters, digits, and - _ . ~ ; everything else becomes %XX.
// The risky marks ! ' ( ) * use lowercase hex digits, which is what
// survives into saved paths such as "2a" for '*'.
func encodeComponent(s string) string {
	const upper = "0123456789ABCDEF"
	const lower = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		hex := upper
		if isRiskyMark(c) {
			hex = lower
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isRiskyMark(c byte) bool {
	return c == '!' || c == '\'' || c == '(' || c == ')' || c == '*'
}

func isUnreserved(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '.' || c == '~'
}

func isSegmentByte(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_'
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
