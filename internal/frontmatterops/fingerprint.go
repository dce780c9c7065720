// Package frontmatterops computes content fingerprints for collection entries.
package frontmatterops

import (
	"errors"
	"strings"

	"git.home.luguber.info/inful/sitecfg/internal/frontmatter"
	"github.com/inful/mdfp"
)

// fingerprintHashKeyLastUpdated is excluded so that git-derived dates do not
// change the digest of otherwise identical content.
const fingerprintHashKeyLastUpdated = "lastUpdated"

// ComputeFingerprint computes the canonical content fingerprint for a document.
//
// Canonicalization rules:
//   - excludes: fingerprint, lastUpdated
//   - serializes YAML with sorted keys and LF newlines
//   - trims a single trailing newline from the serialized YAML before hashing
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	fieldsForHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField || k == fingerprintHashKeyLastUpdated {
			continue
		}
		fieldsForHash[k] = v
	}

	frontmatterForHash, err := frontmatter.Canonical(fieldsForHash)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(frontmatterForHash, string(body)), nil
}

// Declared returns the fingerprint recorded in the frontmatter, or "" when
// the document carries none.
func Declared(fields map[string]any) string {
	fp, _ := fields[mdfp.FingerprintField].(string)
	return strings.TrimSpace(fp)
}

// Stale reports whether fields records a fingerprint that differs from digest.
// Documents without a recorded fingerprint are never stale.
func Stale(fields map[string]any, digest string) bool {
	declared := Declared(fields)
	return declared != "" && declared != digest
}
