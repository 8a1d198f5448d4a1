package tree

import "github.com/google/uuid"

// NewID returns a fresh random node id.
func NewID() string { return uuid.NewString() }

// idNamespace scopes the deterministic ids produced by [Generate].
var idNamespace = uuid.MustParse("8f4c2b1e-3d6a-4f0e-9b7c-5a1d2e3f4a5b")

// seededID derives a stable id from a seed and a sequence number so that
// generated trees are reproducible.
func seededID(seed uint64, n int) string {
	return uuid.NewSHA1(idNamespace, []byte{
		byte(seed >> 56), byte(seed >> 48), byte(seed >> 40), byte(seed >> 32),
		byte(seed >> 24), byte(seed >> 16), byte(seed >> 8), byte(seed),
		byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
	}).String()
}
