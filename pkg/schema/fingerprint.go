package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Fingerprint returns "sha256:<hex>" over the RFC 8785 canonical JSON form
// of the schema. Two schema documents that differ only in key order or
// whitespace fingerprint identically, so audit trails can detect real
// schema drift between a stored entry and the template it was filled from.
func (s *LogbookSchema) Fingerprint() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("schema: fingerprint marshal failed: %w", err)
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("schema: canonicalization failed: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
