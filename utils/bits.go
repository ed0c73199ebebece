package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// BitLen returns the number of bits required to represent v, i.e.
// math/bits.Len64 generalized over any integer type. idstream's issuance
// width and schema's enum value width are the same bit-length computation
// over different underlying integer types (uint64 counters, int64 enum
// values); this is the one shared implementation both reach for.
func BitLen[T constraints.Integer](v T) int {
	return bits.Len64(uint64(v))
}
