package resolution

import "github.com/vsinha/sourcing/pkg/domain/entities"

// Tiebreak maps a row identity to a value in [0, 1). The same row always gets
// the same value, independent of any other row or of evaluation order.
func Tiebreak(row entities.RowIdentity) float64 {
	// SplitMix64 finalizer
	z := uint64(row) + 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}
