package names

import (
	"bufio" // bufio buffers the generated lines
	"fmt"   // fmt writes one "First Last" line per name
	"io"    // io is the destination of the list

	"github.com/brianvoe/gofakeit/v6" // gofakeit supplies realistic first and last names
)

// Generate writes count "First Last" lines to w. The same non-zero seed
// always produces the same list; 0 picks a random seed.
func Generate(w io.Writer, count int, seed int64) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	faker := gofakeit.New(seed)
	bw := bufio.NewWriter(w)
	for i := 0; i < count; i++ {
		if _, err := fmt.Fprintf(bw, "%s %s\n", faker.FirstName(), faker.LastName()); err != nil {
			return fmt.Errorf("failed to write name list: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write name list: %w", err)
	}
	return nil
}
