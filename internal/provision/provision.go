// Package provision runs one pass of lab provisioning: read the name
// list, ensure the OU tree, then synthesize and create the accounts.
package provision

import (
	"fmt"      // fmt is used for validation errors
	"log/slog" // slog reports progress and recoverable failures

	"github.com/r3dlin3/new-labusers/internal/directory"
	"github.com/r3dlin3/new-labusers/internal/generator"
	"github.com/r3dlin3/new-labusers/internal/names"
	"github.com/r3dlin3/new-labusers/internal/planner"
)

///////////////////////////////////////////////////////////////////////////////
// Configuration
///////////////////////////////////////////////////////////////////////////////

// RunConfig holds every option of a provisioning run. It is built once
// at startup and only read afterwards. It has no knowledge of the CLI
// library so tests can construct it directly.
type RunConfig struct {
	InputFile        string // InputFile is the "First Last" name list
	PasswordLength   int    // PasswordLength applies when OverridePassword is empty
	OverridePassword string // OverridePassword, when set, is used for every account
	OUName           string // OUName is the top-level OU, e.g. "CORP"
	UPNSuffix        string // UPNSuffix defaults to the forest DNS name when empty
	Country          string // Country is set on every account
	City             string // City is set on every account
}

// NewRunConfig is an initializer function for RunConfig with the
// documented defaults.
func NewRunConfig() *RunConfig {
	synth := generator.NewSynthConfig()
	return &RunConfig{
		InputFile:      "data/names.txt",
		PasswordLength: generator.DefaultPasswordLength,
		OUName:         "CORP",
		Country:        synth.Country,
		City:           synth.City,
	}
}

// Validate catches settings that would make every account fail.
func (c *RunConfig) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file must not be empty")
	}
	if c.OUName == "" {
		return fmt.Errorf("OU name must not be empty")
	}
	if c.OverridePassword == "" && c.PasswordLength < 1 {
		return fmt.Errorf("password length must be at least 1, got %d", c.PasswordLength)
	}
	return nil
}

// synthConfig derives the synthesizer options once the UPN suffix is known.
func (c *RunConfig) synthConfig(upnSuffix string) generator.SynthConfig {
	return generator.SynthConfig{
		PasswordLength:   c.PasswordLength,
		OverridePassword: c.OverridePassword,
		UPNSuffix:        upnSuffix,
		Country:          c.Country,
		City:             c.City,
	}
}

///////////////////////////////////////////////////////////////////////////////
// Top-level runner
///////////////////////////////////////////////////////////////////////////////

// Run performs one linear provisioning pass:
//
//  1. Reads the name list. A missing file returns a *names.NotFoundError
//     before dir is called at all; so does any other read failure.
//  2. Looks up forest metadata and ensures the OU tree.
//  3. Synthesizes one UserRecord per non-blank line.
//  4. Creates every account, isolating failures per record.
//
// Only steps 1 and 2 can return an error. Per-OU and per-user failures are
// logged and show up in the returned Summary.
func Run(cfg *RunConfig, dir directory.Directory, rnd generator.RandomSource, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	// Read the whole list up front so no input problem can surface after
	// the directory has been modified.
	lines, err := names.ReadLines(cfg.InputFile)
	if err != nil {
		return Summary{}, err
	}
	logger.Debug("read name list", "path", cfg.InputFile, "lines", len(lines))

	forest, err := dir.Forest()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read forest metadata: %w", err)
	}
	logger.Info("target domain", "domain_dn", forest.DomainDN, "forest", forest.DNSName)

	// OU failures are recorded in the result, never returned.
	plan := planner.BuildPlan(cfg.OUName, forest.DomainDN)
	ous := planner.NewPlanner(dir, logger).Ensure(plan)

	// Fall back to the forest name for the UPN suffix.
	upnSuffix := cfg.UPNSuffix
	if upnSuffix == "" {
		upnSuffix = forest.DNSName
	}
	users := Synthesize(lines, generator.NewSynthesizer(cfg.synthConfig(upnSuffix), rnd), logger)

	// Create the accounts under the Users OU and attach the OU tally.
	summary := NewMaterializer(dir, logger).Materialize(users, plan.UsersDN())
	summary.OUs = ous
	return summary, nil
}

// Synthesize turns raw lines into UserRecords. Blank lines are dropped;
// single-token names are kept with a warning.
func Synthesize(lines []string, synth *generator.Synthesizer, logger *slog.Logger) []generator.UserRecord {
	users := make([]generator.UserRecord, 0, len(lines))
	for i, line := range lines {
		name, ok := generator.ParseName(line)
		if !ok {
			logger.Debug("skipping blank line", "line", i+1)
			continue
		}
		if name.SingleToken() {
			logger.Warn("name has no last name", "line", i+1, "name", name.FirstName)
		}
		users = append(users, synth.Build(name))
	}
	return users
}
