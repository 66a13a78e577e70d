package depcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for fingerprint computation. The version suffix enables
// future algorithm migration without colliding with old rows.
const (
	domainStage = "proofrig/stage/v1"
	domainFile  = "proofrig/file/v1"
)

// hashWithDomain computes SHA-256 with domain separation. The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, chunks ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	for _, chunk := range chunks {
		h.Write(chunk)
		h.Write([]byte{0x00})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FileDigest hashes a file's content. The digest is domain-separated from
// stage fingerprints so a file hash can never be mistaken for one.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	h.Write([]byte(domainFile))
	h.Write([]byte{0x00})
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// StageFingerprint computes the staleness fingerprint for one stage from
// the command argv (which embeds the configuration: flags, defines,
// includes) and the digests of the stage's file inputs (prior artifact plus
// any declared source inputs). Strings are NFC-normalized before hashing.
//
// The argv of a skipped stage is its skip reason, so toggling a stage on or
// off changes the fingerprint and forces a rebuild.
func StageFingerprint(argv []string, inputDigests []string) string {
	chunks := make([][]byte, 0, len(argv)+len(inputDigests))
	for _, arg := range argv {
		chunks = append(chunks, norm.NFC.Bytes([]byte(arg)))
	}
	for _, digest := range inputDigests {
		chunks = append(chunks, []byte(digest))
	}
	return hashWithDomain(domainStage, chunks...)
}
