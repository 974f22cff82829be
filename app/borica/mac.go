package borica

import (
	"strconv"
	"strings"
)

// authFieldOrder is the MAC_GENERAL field order for TRTYPE 1
// (authorization/sale). The gateway recomputes the signature over the same
// sequence, so order and encoding must match exactly.
var authFieldOrder = []string{
	"TERMINAL",
	"TRTYPE",
	"AMOUNT",
	"CURRENCY",
	"ORDER",
	"MERCHANT",
	"TIMESTAMP",
	"NONCE",
}

// responseFieldOrder is the MAC_GENERAL order the gateway signs its own
// callback with.
var responseFieldOrder = []string{
	"ACTION",
	"RC",
	"APPROVAL",
	"TERMINAL",
	"TRTYPE",
	"AMOUNT",
	"CURRENCY",
	"ORDER",
	"RRN",
	"INT_REF",
	"PARES_STATUS",
	"ECI",
	"TIMESTAMP",
	"NONCE",
	"MERCH_TOKEN_ID",
}

// MACMessage builds the canonical MAC_GENERAL string: each field in order,
// absent or empty values encoded as the sentinel "-", everything else as
// decimal length immediately followed by the raw value. Length prefixing is
// what lets the gateway delimit fields that may contain arbitrary text.
func MACMessage(fields map[string]string, fieldOrder []string) string {
	var b strings.Builder
	for _, name := range fieldOrder {
		value := fields[name]
		if value == "" {
			value = "-"
		}
		if value == "-" {
			b.WriteByte('-')
			continue
		}
		b.WriteString(strconv.Itoa(len(value)))
		b.WriteString(value)
	}
	return b.String()
}
