package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/jonathan/career-guide/internal/types"
)

// fingerprintInput is the canonical form hashed by Fingerprint. Field order is
// fixed by the struct and map keys are sorted by encoding/json.
type fingerprintInput struct {
	CatalogVersion string         `json:"catalogVersion"`
	Profile        *types.Profile `json:"profile"`
}

// Fingerprint identifies a profile snapshot analyzed against a catalog
// version. Two snapshots share a fingerprint only if every field that can
// influence the analysis is equal.
func Fingerprint(p *types.Profile, catalogVersion string) (string, error) {
	data, err := json.Marshal(fingerprintInput{CatalogVersion: catalogVersion, Profile: p})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
