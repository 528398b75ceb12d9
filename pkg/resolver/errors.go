package resolver

import (
	"errors"
	"fmt"
)

// Kind discriminates the failure modes of a resolution attempt. The HTTP
// layer matches on it to pick a response status; the core never retries.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not produced here.
	KindUnknown Kind = iota
	// KindInvalidRequest marks a syntactically invalid domain name.
	KindInvalidRequest
	// KindResolution marks an upstream DNS failure (not found, no data,
	// or transport trouble). Never cached.
	KindResolution
	// KindNoSkynetDNSLinks means no convention-matching record and no
	// skylink embedded in the request uri.
	KindNoSkynetDNSLinks
	// KindMultipleSkylinks means the domain owner published more than one
	// dnslink/skynet-ns record.
	KindMultipleSkylinks
	// KindMultipleSponsorKeyRecords means more than one sponsor key record.
	KindMultipleSponsorKeyRecords
	// KindInvalidSkylink means a dnslink record's value fails the skylink
	// grammar.
	KindInvalidSkylink
)

// Error is the single error type produced by this package. The message is
// plain text and embeds the offending lookup key.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf unwraps err and returns the Kind it carries, or KindUnknown.
func KindOf(err error) Kind {
	var rErr *Error
	if errors.As(err, &rErr) {
		return rErr.Kind
	}
	return KindUnknown
}
