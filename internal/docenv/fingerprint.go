package docenv

import (
	"strings"

	"github.com/inful/mdfp"
)

// fingerprint hashes the raw header and body so any edit invalidates the
// persisted doctree.
func fingerprint(header, body []byte) string {
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(header), "\n"), string(body))
}
