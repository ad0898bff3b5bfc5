// pkg/fetch/checksum.go
package fetch

import (
	"fmt"
	"io"
	"os"

	"zombiezen.com/go/nix"
)

// Verify checks a file against a checksum such as "sha256:<hex>",
// "sha1:<hex>" or an SRI hash
func Verify(file, checksum string) error {
	want, err := nix.ParseHash(checksum)
	if err != nil {
		return fmt.Errorf("parsing checksum %q: %w", checksum, err)
	}

	got, err := HashFile(file, want.Type())
	if err != nil {
		return err
	}

	if got.String() != want.String() {
		return fmt.Errorf("%w: %s: expected %v, got %v", ErrChecksumMismatch, file, want, got)
	}
	return nil
}

// HashFile hashes a file with the given algorithm
func HashFile(file string, typ nix.HashType) (nix.Hash, error) {
	f, err := os.Open(file)
	if err != nil {
		return nix.Hash{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := nix.NewHasher(typ)
	if _, err := io.Copy(h, f); err != nil {
		return nix.Hash{}, fmt.Errorf("computing hash: %w", err)
	}
	return h.SumHash(), nil
}
