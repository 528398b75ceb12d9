package resolver

import "regexp"

// skylinkNamespacePrefix is what a dnslink TXT record must start with to be
// considered a skylink record.
const skylinkNamespacePrefix = "dnslink=/skynet-ns/"

// Record conventions are matched case-sensitively and anchored. The prefixes
// differ, so a record can match at most one convention.
var (
	skylinkRecordRegex = regexp.MustCompile(`^dnslink=/skynet-ns/.+$`)
	sponsorRecordRegex = regexp.MustCompile(`^skynet-sponsor-key=[a-zA-Z0-9]+$`)
)

// classifyRecords splits a flattened TXT record set into the records matching
// the skylink convention and those matching the sponsor-key convention.
// Both outputs preserve the original record order; everything else is
// dropped.
func classifyRecords(records []string) (skylinkRecords, sponsorRecords []string) {
	for _, record := range records {
		switch {
		case skylinkRecordRegex.MatchString(record):
			skylinkRecords = append(skylinkRecords, record)
		case sponsorRecordRegex.MatchString(record):
			sponsorRecords = append(sponsorRecords, record)
		}
	}
	return skylinkRecords, sponsorRecords
}
