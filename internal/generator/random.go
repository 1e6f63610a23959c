package generator

import (
	"github.com/brianvoe/gofakeit/v6" // gofakeit wraps a seedable random source with handy range helpers
)

// RandomSource is the only source of randomness the synthesizer uses.
// IntN returns a uniform integer in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// FakerSource is the RandomSource used outside of tests. It is backed by
// a gofakeit Faker.
type FakerSource struct {
	faker *gofakeit.Faker
}

// NewFakerSource is an initializer function for FakerSource.
//
// A seed of 0 gives a Faker backed by crypto/rand, which is what real
// password generation wants. Any other seed gives a reproducible sequence,
// which is handy when rebuilding the same lab twice.
func NewFakerSource(seed int64) *FakerSource {
	if seed == 0 {
		return &FakerSource{faker: gofakeit.NewCrypto()}
	}
	return &FakerSource{faker: gofakeit.New(seed)}
}

// IntN implements RandomSource. gofakeit's Number is inclusive on both
// ends, hence n-1.
func (f *FakerSource) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// Pick returns a uniformly chosen element of items using rnd. It returns
// the empty string for an empty list.
func Pick(rnd RandomSource, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rnd.IntN(len(items))]
}
