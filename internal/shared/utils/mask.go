package utils

import "strings"

// MaskEmail keeps the first character of the local part and the domain,
// e.g. "ada@example.com" becomes "a***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if local == "" {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}
