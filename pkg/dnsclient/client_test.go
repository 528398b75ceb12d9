package dnsclient

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txtRR(fragments ...string) dns.RR {
	return &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   "_dnslink.skynetlabs.com.",
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Txt: fragments,
	}
}

func cnameRR(target string) dns.RR {
	return &dns.CNAME{
		Hdr: dns.RR_Header{
			Name:   "_dnslink.skynetlabs.com.",
			Rrtype: dns.TypeCNAME,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Target: target,
	}
}

func response(rcode int, answers ...dns.RR) *dns.Msg {
	msg := new(dns.Msg)
	msg.Rcode = rcode
	msg.Answer = answers
	return msg
}

func TestRecordsFromResponseFlattensFragments(t *testing.T) {
	in := response(dns.RcodeSuccess,
		txtRR("dnslink=/skynet-ns/", "AQCYCPSmSMfmZjOKLX4zoYHHTNJQW2daVgZ2PTpkASFlSA"),
		txtRR("skynet-sponsor-key=abc"),
	)

	records, err := recordsFromResponse(in)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dnslink=/skynet-ns/AQCYCPSmSMfmZjOKLX4zoYHHTNJQW2daVgZ2PTpkASFlSA",
		"skynet-sponsor-key=abc",
	}, records)
}

func TestRecordsFromResponseNXDOMAIN(t *testing.T) {
	_, err := recordsFromResponse(response(dns.RcodeNameError))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordsFromResponseServerFailure(t *testing.T) {
	_, err := recordsFromResponse(response(dns.RcodeServerFailure))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), dns.RcodeToString[dns.RcodeServerFailure])
}

func TestRecordsFromResponseEmptyAnswerIsEmptySet(t *testing.T) {
	records, err := recordsFromResponse(response(dns.RcodeSuccess))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsFromResponseAliasOnlyIsNoData(t *testing.T) {
	_, err := recordsFromResponse(response(dns.RcodeSuccess, cnameRR("elsewhere.example.com.")))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestNewAppendsDefaultPort(t *testing.T) {
	c, err := New("1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1:53", c.(*client).server)

	c, err = New("1.1.1.1:5353")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1:5353", c.(*client).server)
}
