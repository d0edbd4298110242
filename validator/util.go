package validator

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// MightBeAHostOrIP is a very rudimentary check to see if the argument could be either a host name or IP address
// It aims on speed and not for correctness. It's intended to weed-out bogus responses such as '.'
//
//nolint:gocyclo
func MightBeAHostOrIP(h string) bool {

	// The shortest name with a dot is "a.b", short MX hosts such as "mx.io" are common
	lastCharIndex := len(h) - 1
	if lastCharIndex < 2 || lastCharIndex >= 253 {
		return false
	}

	var dotCount uint8
	for i, c := range h {
		switch {
		case 48 <= c && c <= 57 /* 0-9 */ :
		case 65 <= c && c <= 90 /* A-Z */ :
		case 97 <= c && c <= 122 /* a-z */ :
		case c == 45 /* dash - */ :
		case c == 46 && 0 < i && i < lastCharIndex /* dot . */ :
			dotCount++
		default:
			return false
		}
	}

	// We need at least one dot for a domain to be valid
	return dotCount > 0
}

// preferredHost picks the usable MX host with the lowest preference value. The first one wins on a tie.
func preferredHost(mxs []*net.MX) (string, bool) {
	var host string
	var pref uint16
	var found bool

	for _, mx := range mxs {
		if mx == nil {
			continue
		}

		// Hosts might end on a "." (which isn't bad) or consist solely out of a "." (which is bad, RFC 7505 "null MX")
		h := strings.TrimRight(mx.Host, ".")
		if !MightBeAHostOrIP(h) {
			continue
		}

		if !found || mx.Pref < pref {
			host, pref, found = h, mx.Pref, true
		}
	}

	return host, found
}

// domainToASCII converts internationalised domain names to their punycode form, as used on the wire
func domainToASCII(domain string) (string, error) {
	return idna.Lookup.ToASCII(domain)
}
