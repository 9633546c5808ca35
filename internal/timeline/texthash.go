package timeline

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// textHashDomain is the domain prefix for content version hashes.
// Version suffix enables future algorithm migration.
const textHashDomain = "auteur/dialogue-text/v1"

// TextVersionHash computes the content version hash for dialogue text.
//
// The text is NFC normalized before hashing so that visually identical
// input produces identical hashes regardless of the composition form
// the editor delivered. Format: SHA256(domain + 0x00 + nfc(text)),
// hex encoded. The null byte separates domain from data.
func TextVersionHash(text string) string {
	normalized := norm.NFC.String(text)
	h := sha256.New()
	h.Write([]byte(textHashDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}
