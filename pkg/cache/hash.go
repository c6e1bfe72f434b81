package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/matzehuels/rwpspread/pkg/layout"
)

// Key computes the content hash that names a run's artifacts. It digests,
// in order, the JSON encoding of fingerprint, the JSON encoding of the
// resolved layout and the raw source bytes.
//
// fingerprint must only carry settings that change the exported pixels or
// sidecars; paths do not belong in it.
func Key(fingerprint any, l layout.Layout, source []byte) (string, error) {
	cfg, err := json.Marshal(fingerprint)
	if err != nil {
		return "", fmt.Errorf("encode fingerprint: %w", err)
	}
	mons, err := json.Marshal(l.Monitors)
	if err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}
	return hashParts(cfg, mons, source), nil
}

// Hash computes the BLAKE3-256 digest of data as a 64 character hex string.
func Hash(data []byte) string {
	return hashParts(data)
}

func hashParts(parts ...[]byte) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
