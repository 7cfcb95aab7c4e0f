package zonefile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/miekg/dns"
	"github.com/namewallet/walletkeys/build"
)

const (
	// pubkeyOwner is the owner label of the TXT record carrying the data
	// public key.
	pubkeyOwner = "pubkey"

	// dataPubkeyPrefix precedes the hex public key in the TXT record.
	dataPubkeyPrefix = "pubkey:data:"
)

var (
	// ErrMultipleDataPubkeys is returned when a zone file defines more
	// than one data public key.
	ErrMultipleDataPubkeys = errors.New("Multiple data public keys in " +
		"zonefile")

	// ErrInvalidZonefile is returned when the zone file cannot be parsed.
	ErrInvalidZonefile = errors.New("invalid zone file")
)

// Zone is a parsed name zone file.
type Zone struct {
	// URIs are the targets of the zone's URI records, in file order.
	URIs []string

	records []dns.RR
}

// Parse parses a zone file in standard master file format. Relative owner
// names are resolved against the root unless the file sets $ORIGIN.
func Parse(text string) (*Zone, error) {
	zp := dns.NewZoneParser(strings.NewReader(text), ".", "")

	zone := &Zone{}
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		zone.records = append(zone.records, rr)

		if uri, isURI := rr.(*dns.URI); isURI {
			zone.URIs = append(zone.URIs, uri.Target)
		}
	}
	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidZonefile, err)
	}

	log.Tracef("Parsed zone file with %d records: %v", len(zone.records),
		build.SpewLogClosure(zone.records))

	return zone, nil
}

// DataPubkey returns the hex data public key published in the zone's
// "pubkey" TXT record, or None if there is none.
func (z *Zone) DataPubkey() (fn.Option[string], error) {
	var pubKeys []string
	for _, rr := range z.records {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}

		labels := dns.SplitDomainName(txt.Hdr.Name)
		if len(labels) == 0 || labels[0] != pubkeyOwner {
			continue
		}

		data := strings.Join(txt.Txt, "")
		if !strings.HasPrefix(data, dataPubkeyPrefix) {
			continue
		}

		pubKeys = append(pubKeys, strings.TrimPrefix(
			data, dataPubkeyPrefix,
		))
	}

	switch len(pubKeys) {
	case 0:
		return fn.None[string](), nil

	case 1:
		return fn.Some(pubKeys[0]), nil

	default:
		log.Errorf("Zone file defines %d data public keys",
			len(pubKeys))

		return fn.None[string](), ErrMultipleDataPubkeys
	}
}

// DataPubkey parses text and returns its data public key.
func DataPubkey(text string) (fn.Option[string], error) {
	zone, err := Parse(text)
	if err != nil {
		return fn.None[string](), err
	}

	return zone.DataPubkey()
}
