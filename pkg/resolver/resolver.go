// Package resolver implements the dnslink resolution core: a cached TXT
// lookup, classification of dnslink/sponsor-key records, the precedence
// rules against a skylink embedded in the request uri, and skylink
// normalization to the canonical base64 form.
package resolver

import (
	"context"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SkynetLabs/webportal-dnslink-api/pkg/model"
	"github.com/sirupsen/logrus"
)

const (
	// dnslinkNamespace is prepended to the requested domain to form the TXT
	// lookup key, per the dnslink convention.
	dnslinkNamespace = "_dnslink"

	// A skylink encodes 34 bytes: 46 characters in url-safe base64, 55 in
	// lowercase base32.
	base64EncodedSkylinkSize = 46
	base32EncodedSkylinkSize = 55
)

var (
	// skylinkRegex is the identifier grammar a dnslink record value must
	// satisfy.
	skylinkRegex = regexp.MustCompile(`^([a-zA-Z0-9-_]{46}|[a-z0-9]{55})$`)

	// uriSkylinkRegex matches a request uri of the form
	// /<skylink>(/<path>)?. Matching is best effort; anything else means no
	// uri-embedded skylink.
	uriSkylinkRegex = regexp.MustCompile(`^/([a-z0-9]{55}|[a-zA-Z0-9-_]{46})(/.*)?$`)

	// base32Encoding is the lowercase RFC4648-HEX alphabet skylinks use in
	// subdomain form.
	base32Encoding = base32.NewEncoding("0123456789abcdefghijklmnopqrstuv").WithPadding(base32.NoPadding)
)

// Service is the resolution surface the HTTP layer consumes.
type Service interface {
	Resolve(ctx context.Context, domain, uri string) (model.ResolutionResponse, error)
	PurgeCache()
	StartStatsDaemon(interval time.Duration, done <-chan struct{})
}

// Resolver owns the TXT lookup cache and applies the dnslink precedence
// rules. Safe for concurrent use.
type Resolver struct {
	cache *TXTCache
	log   *logrus.Entry
}

func New(cache *TXTCache, log *logrus.Entry) *Resolver {
	return &Resolver{
		cache: cache,
		log:   log,
	}
}

// Resolve resolves the dnslink records of domain against an optional request
// uri. The domain is assumed to be already validated by the caller.
//
// Precedence: a skylink sourced from DNS always wins over one embedded in
// the uri, and pairs with the raw uri string as the response path. A
// uri-sourced skylink carries its own parsed sub-path instead. Cardinality
// violations are checked before any extraction, so two dnslink records fail
// even when the uri could have answered on its own.
func (r *Resolver) Resolve(ctx context.Context, domain, uri string) (model.ResolutionResponse, error) {
	lookupKey := dnslinkNamespace + "." + domain

	records, err := r.cache.Fetch(ctx, lookupKey)
	if err != nil {
		return model.ResolutionResponse{}, err
	}

	skylinkRecords, sponsorRecords := classifyRecords(records)
	uriSkylink, uriPath := parseURISkylink(uri)

	if len(skylinkRecords) > 1 {
		return model.ResolutionResponse{}, newError(KindMultipleSkylinks, "multiple dnslink/skynet-ns records found for %s", lookupKey)
	}
	if len(sponsorRecords) > 1 {
		return model.ResolutionResponse{}, newError(KindMultipleSponsorKeyRecords, "multiple skynet-sponsor-key records found for %s", lookupKey)
	}
	if len(skylinkRecords) == 0 && len(sponsorRecords) == 0 && uriSkylink == "" {
		return model.ResolutionResponse{}, newError(KindNoSkynetDNSLinks, "no skynet dnslinks found for %s", lookupKey)
	}

	// The path defaults to the raw request uri; only a uri-sourced skylink
	// replaces it with the parsed sub-path.
	var resp model.ResolutionResponse
	if uri != "" {
		resp.Path = uri
	}

	switch {
	case len(skylinkRecords) == 1:
		skylink := strings.TrimPrefix(skylinkRecords[0], skylinkNamespacePrefix)
		if !skylinkRegex.MatchString(skylink) {
			return model.ResolutionResponse{}, newError(KindInvalidSkylink, "invalid skylink in dnslink record for %s", lookupKey)
		}
		resp.Skylink = skylink
	case uriSkylink != "":
		resp.Skylink = uriSkylink
		resp.Path = uriPath
	}

	if len(resp.Skylink) == base32EncodedSkylinkSize {
		normalized, err := normalizeSkylink(resp.Skylink)
		if err != nil {
			return model.ResolutionResponse{}, newError(KindInvalidSkylink, "invalid base32 skylink resolved for %s: %v", lookupKey, err)
		}
		resp.Skylink = normalized
	}

	if len(sponsorRecords) == 1 {
		_, sponsor, _ := strings.Cut(sponsorRecords[0], "=")
		resp.Sponsor = sponsor
	}

	r.report(domain, resp)

	return resp, nil
}

// PurgeCache drops all cached TXT lookups.
func (r *Resolver) PurgeCache() {
	r.cache.Purge()
}

// StartStatsDaemon runs the cache stats daemon until done closes.
func (r *Resolver) StartStatsDaemon(interval time.Duration, done <-chan struct{}) {
	r.cache.StartStatsDaemon(interval, done)
}

// parseURISkylink extracts a skylink embedded as the first path segment of
// the request uri, best effort. The trailing path defaults to "/" when a
// skylink matched without one.
func parseURISkylink(uri string) (skylink, path string) {
	m := uriSkylinkRegex.FindStringSubmatch(uri)
	if m == nil {
		return "", ""
	}
	skylink = m[1]
	path = m[2]
	if path == "" {
		path = "/"
	}
	return skylink, path
}

// normalizeSkylink converts a base32 encoded skylink to the canonical 46
// character base64 form. Total and deterministic on the base32 alphabet.
func normalizeSkylink(skylink string) (string, error) {
	raw, err := base32Encoding.DecodeString(skylink)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// report emits the observable summary line for a resolution, omitting
// absent clauses.
func (r *Resolver) report(domain string, resp model.ResolutionResponse) {
	clauses := make([]string, 0, 2)
	if resp.Skylink != "" {
		clauses = append(clauses, fmt.Sprintf("skylink: %s", resp.Skylink))
	}
	if resp.Sponsor != "" {
		clauses = append(clauses, fmt.Sprintf("sponsor: %s", resp.Sponsor))
	}
	r.log.Infof("%s => %s", domain, strings.Join(clauses, " | "))
}
