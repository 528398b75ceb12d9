package resolver

import "strings"

// ValidateDomainName checks domainName against RFC1035 hostname syntax.
// It never checks that the domain actually resolves; that is the lookup's
// job. A failure carries the invalid-request kind.
func ValidateDomainName(domainName string) error {
	if !validDomainName(domainName) {
		return newError(KindInvalidRequest, "string %q is not a valid domain name", domainName)
	}
	return nil
}

func validDomainName(name string) bool {
	if len(name) == 0 || len(name) > 253 {
		return false
	}
	labels := strings.Split(name, ".")
	// A bare label like "localhost" is not resolvable through dnslink.
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	// Consecutive hyphens are reserved for encodings such as punycode.
	if strings.Contains(label, "--") && !strings.HasPrefix(strings.ToLower(label), "xn--") {
		return false
	}
	return true
}
