// Package dnsclient wraps the upstream DNS TXT query primitive used by the
// resolver. It classifies upstream outcomes into the three reason codes the
// caller cares about: domain not found, no data, and everything else.
package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
)

// Sentinel failures callers can test for with errors.Is.
var (
	// ErrNotFound means the queried domain does not exist (NXDOMAIN).
	ErrNotFound = errors.New("domain not found")
	// ErrNoData means the domain exists but returned no TXT records.
	ErrNoData = errors.New("no txt records")
)

// Client issues TXT queries against a single upstream nameserver.
type Client interface {
	// LookupTXT returns the flattened TXT record set for name. Records made
	// of multiple character-string fragments are concatenated into one
	// string each; answer order is preserved.
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

type client struct {
	dns    *dns.Client
	server string
}

// New returns a Client talking to server, given as "host:port" or bare host
// (port 53 assumed). An empty server falls back to the first nameserver in
// /etc/resolv.conf.
func New(server string) (Client, error) {
	if server == "" {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("unable to load resolver config: %w", err)
		}
		if len(conf.Servers) == 0 {
			return nil, errors.New("resolver config lists no nameservers")
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	} else if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &client{
		dns:    new(dns.Client),
		server: server,
	}, nil
}

func (c *client) LookupTXT(ctx context.Context, name string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true

	in, _, err := c.dns.ExchangeContext(ctx, msg, c.server)
	if err != nil {
		return nil, fmt.Errorf("exchange with %s: %w", c.server, err)
	}

	return recordsFromResponse(in)
}

// recordsFromResponse flattens the TXT answers of in, or classifies the
// failure. An empty NOERROR answer section is a successful empty record set,
// so callers can still fall back on other skylink sources; an answer section
// holding only non-TXT records (alias chains) counts as no data.
func recordsFromResponse(in *dns.Msg) ([]string, error) {
	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("upstream returned %s", dns.RcodeToString[in.Rcode])
	}

	records := []string{}
	for _, rr := range in.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	if len(records) == 0 && len(in.Answer) > 0 {
		return nil, ErrNoData
	}
	return records, nil
}
