// Package validate holds the input predicates used by the interactive session.
//
// Both predicates are pure: they never touch the network or the filesystem.
// Domain is deliberately stricter than full DNS syntax (lowercase only, no
// underscores) and PHPVersion is a closed allow-list rather than a version
// parser.
package validate

import "regexp"

// MaxDomainLength is the longest domain name accepted, in characters.
const MaxDomainLength = 253

// DefaultPHPToken selects the distribution's default PHP-FPM socket.
const DefaultPHPToken = "php"

var (
	domainPattern     = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)
	phpVersionPattern = regexp.MustCompile(`^(5\.6|7\.[0-4]|8\.[0-4])$`)
)

var supportedPHPVersions = []string{
	DefaultPHPToken,
	"5.6",
	"7.0", "7.1", "7.2", "7.3", "7.4",
	"8.0", "8.1", "8.2", "8.3", "8.4",
}

// Domain reports whether candidate is an acceptable domain name.
func Domain(candidate string) bool {
	if candidate == "" || len(candidate) > MaxDomainLength {
		return false
	}
	return domainPattern.MatchString(candidate)
}

// PHPVersion reports whether candidate is one of the supported PHP-FPM tokens.
func PHPVersion(candidate string) bool {
	if candidate == DefaultPHPToken {
		return true
	}
	return phpVersionPattern.MatchString(candidate)
}

// SupportedPHPVersions returns every token PHPVersion accepts, in prompt order.
func SupportedPHPVersions() []string {
	out := make([]string, len(supportedPHPVersions))
	copy(out, supportedPHPVersions)
	return out
}
