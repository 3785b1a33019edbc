// Package digest computes BLAKE3 content digests used to confirm that a
// script survives a decode and re-encode unchanged.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 hash.
type Digest [32]byte

// Sum hashes data.
func Sum(data []byte) Digest {
	return blake3.Sum256(data)
}

// File hashes the file at path, streaming it through the hasher.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// String returns the lower-case hex form used in logs.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 bytes in hex, enough to tell files apart in
// human-facing output.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:8])
}
