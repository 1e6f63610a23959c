package main

import (
	"fmt" // fmt is used to print errors and the confirmation message
	"os"  // os creates the output file

	"github.com/alecthomas/kong" // kong parses the flags

	"github.com/r3dlin3/new-labusers/internal/names"
)

// genConfig holds the flags of gen_names.
type genConfig struct {
	Count  int    `help:"Number of names to generate." default:"50"`
	Seed   int64  `help:"Seed; 0 picks a random one." default:"0"`
	Output string `help:"Where to write the list." default:"data/names.txt" name:"output" short:"o"`
}

// main writes a fresh "First Last" list that new_labusers can consume.
func main() {
	cfg := &genConfig{}
	kong.Parse(cfg,
		kong.Name("gen_names"),
		kong.Description("Generate a name list for new_labusers."),
	)

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Println("name list generated:", cfg.Output)
}

func run(cfg *genConfig) error {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.Output, err)
	}
	if err := names.Generate(f, cfg.Count, cfg.Seed); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
