package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/pcconf/internal/catalog"
)

// Domain prefixes for content-addressed ids.
// The version suffix leaves room for changing the hashed shape.
const (
	DomainConfiguration = "pcconf/configuration/v1"
	DomainTrace         = "pcconf/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
// The null byte keeps domain and data from running into each other.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the domain-separated digest of v's canonical JSON.
func Hash(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// ConfigurationID returns the content-addressed id of a configuration: its
// part ids keyed by category and its total in cents. Names, attributes and
// selection order do not contribute.
func ConfigurationID(a catalog.Assignment, total catalog.Money) (string, error) {
	parts := make(map[string]any, catalog.NumCategories)
	for _, cat := range catalog.Categories {
		if a[cat] != "" {
			parts[cat.Key()] = a[cat]
		}
	}
	return Hash(DomainConfiguration, map[string]any{
		"parts": parts,
		"total": int64(total),
	})
}

// MustConfigurationID is like ConfigurationID but panics on error.
// ConfigurationID only fails on unsupported values, which it never builds.
func MustConfigurationID(a catalog.Assignment, total catalog.Money) string {
	id, err := ConfigurationID(a, total)
	if err != nil {
		panic(err)
	}
	return id
}
