package cli

import (
	"errors"   // errors recognises the missing input file
	"fmt"      // fmt is used to create readable error messages
	"io"       // io lets tests capture output
	"log/slog" // slog is the structured logger handed to every component
	"os"       // os provides the real stdout and stderr

	"github.com/alecthomas/kong" // kong is the library we use to parse command-line flags
	"github.com/google/uuid"     // uuid tags every log line of a run with the same id
	"golang.org/x/term"          // term decides whether the summary gets colored

	"github.com/r3dlin3/new-labusers/internal/directory"
	"github.com/r3dlin3/new-labusers/internal/generator"
	"github.com/r3dlin3/new-labusers/internal/names"
	"github.com/r3dlin3/new-labusers/internal/provision"
)

///////////////////////////////////////////////////////////////////////////////
// CLI configuration
///////////////////////////////////////////////////////////////////////////////

// CLIConfig holds the command-line options. Kong uses the struct tags to
// know which flags exist and how to parse them.
type CLIConfig struct {
	InputFile      string `help:"Newline-delimited list of 'First Last' names." default:"data/names.txt" name:"input-file"`
	PasswordLength int    `help:"Length of generated passwords." default:"16" name:"password-length"`
	Password       string `help:"Use this password for every account instead of generating one." name:"password" env:"LABUSERS_PASSWORD"`
	OUName         string `help:"Name of the top-level OU." default:"CORP" name:"ou-name"`
	UPNSuffix      string `help:"UPN suffix; defaults to the forest DNS name." name:"upn-suffix"`
	Country        string `help:"Country code set on every account." default:"US"`
	City           string `help:"City set on every account." default:"Seattle"`
	Seed           int64  `help:"Seed for reproducible runs; 0 uses crypto/rand." default:"0"`

	Mode               string `help:"'ldap' to create entries on a server, 'ldif' to write them to a file." enum:"ldap,ldif" default:"ldif"`
	LDAPURL            string `help:"LDAP URL when mode is 'ldap', e.g. 'ldaps://dc01.example.com:636'." name:"ldap-url" env:"LABUSERS_LDAP_URL"`
	BindDN             string `help:"Bind DN when mode is 'ldap'." name:"bind-dn" env:"LABUSERS_BIND_DN"`
	BindPassword       string `help:"Bind password when mode is 'ldap'." name:"bind-password" env:"LABUSERS_BIND_PASSWORD"`
	InsecureSkipVerify bool   `help:"Skip TLS certificate verification (lab only)." name:"insecure-skip-verify"`
	BaseDN             string `help:"Domain DN. Required for 'ldif'; overrides the RootDSE value for 'ldap'." name:"base-dn"`
	LDIFFile           string `help:"Output path when mode is 'ldif'." default:"lab_users.ldif" name:"ldif-file"`

	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"info" name:"log-level"`
	LogFormat string `help:"Log format." enum:"text,json" default:"text" name:"log-format"`
	NoColor   bool   `help:"Never color the summary line." name:"no-color"`
}

// NewCLIConfig is an initializer function for CLIConfig. Its defaults
// match the struct tags.
func NewCLIConfig() *CLIConfig {
	return &CLIConfig{
		InputFile:      "data/names.txt",
		PasswordLength: generator.DefaultPasswordLength,
		OUName:         "CORP",
		Country:        "US",
		City:           "Seattle",
		Mode:           "ldif",
		LDIFFile:       "lab_users.ldif",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// validate checks that the selected mode has what it needs.
func (c *CLIConfig) validate() error {
	switch c.Mode {
	case "ldap":
		if c.LDAPURL == "" || c.BindDN == "" || c.BindPassword == "" {
			return fmt.Errorf("mode 'ldap' requires --ldap-url, --bind-dn, and --bind-password")
		}
	case "ldif":
		if c.BaseDN == "" {
			return fmt.Errorf("mode 'ldif' requires --base-dn")
		}
	default:
		return fmt.Errorf("unsupported mode: %s", c.Mode)
	}
	return nil
}

// runConfig maps the flags onto a provision.RunConfig.
func (c *CLIConfig) runConfig() *provision.RunConfig {
	rc := provision.NewRunConfig()
	rc.InputFile = c.InputFile
	rc.PasswordLength = c.PasswordLength
	rc.OverridePassword = c.Password
	rc.OUName = c.OUName
	rc.UPNSuffix = c.UPNSuffix
	rc.Country = c.Country
	rc.City = c.City
	return rc
}

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// closableDirectory is a directory backend that must be closed when done.
type closableDirectory interface {
	directory.Directory
	Close() error
}

// openDirectory builds the backend selected by --mode.
func openDirectory(c *CLIConfig) (closableDirectory, error) {
	if c.Mode == "ldap" {
		ldapCfg := directory.NewLDAPConfig()
		ldapCfg.URL = c.LDAPURL
		ldapCfg.BindDN = c.BindDN
		ldapCfg.BindPassword = c.BindPassword
		ldapCfg.InsecureSkipVerify = c.InsecureSkipVerify
		ldapCfg.BaseDN = c.BaseDN
		return directory.DialLDAP(ldapCfg)
	}
	return directory.NewLDIF(c.LDIFFile, c.BaseDN)
}

// lazyDirectory opens the backend on first use, so a run that stops
// before touching the directory never dials a server or writes a file.
type lazyDirectory struct {
	open func() (closableDirectory, error)
	dir  closableDirectory
}

// newLazyDirectory is an initializer function for lazyDirectory.
func newLazyDirectory(open func() (closableDirectory, error)) *lazyDirectory {
	return &lazyDirectory{open: open}
}

// get returns the backend, opening it if needed.
func (l *lazyDirectory) get() (closableDirectory, error) {
	if l.dir == nil {
		dir, err := l.open()
		if err != nil {
			return nil, err
		}
		l.dir = dir
	}
	return l.dir, nil
}

func (l *lazyDirectory) Forest() (directory.ForestInfo, error) {
	dir, err := l.get()
	if err != nil {
		return directory.ForestInfo{}, err
	}
	return dir.Forest()
}

func (l *lazyDirectory) OUExists(dn string) (bool, error) {
	dir, err := l.get()
	if err != nil {
		return false, err
	}
	return dir.OUExists(dn)
}

func (l *lazyDirectory) CreateOU(name, parentDN string) error {
	dir, err := l.get()
	if err != nil {
		return err
	}
	return dir.CreateOU(name, parentDN)
}

func (l *lazyDirectory) CreateUser(user generator.UserRecord, pathDN string) error {
	dir, err := l.get()
	if err != nil {
		return err
	}
	return dir.CreateUser(user, pathDN)
}

// Close closes the backend. It is a no-op if the backend was never opened.
func (l *lazyDirectory) Close() error {
	if l.dir == nil {
		return nil
	}
	return l.dir.Close()
}

// newLogger builds the run's logger from the log flags.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("run_id", uuid.NewString())
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

///////////////////////////////////////////////////////////////////////////////
// Top-level CLI runner
///////////////////////////////////////////////////////////////////////////////

// Run parses os.Args and provisions the lab.
func Run() error {
	return Execute(os.Args[1:], os.Stdout, os.Stderr)
}

// Execute is Run with explicit arguments and writers. Progress goes to
// stderr through the logger; the summary line goes to stdout.
func Execute(args []string, stdout, stderr io.Writer) (err error) {
	cfg := NewCLIConfig()

	parser, err := kong.New(cfg,
		kong.Name("new_labusers"),
		kong.Description("Create a lab OU tree and populate it with accounts built from a name list."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to build flag parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	runCfg := cfg.runConfig()
	if err := runCfg.Validate(); err != nil {
		return err
	}

	dir := newLazyDirectory(func() (closableDirectory, error) { return openDirectory(cfg) })
	defer func() {
		if cerr := dir.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	summary, err := provision.Run(runCfg, dir, generator.NewFakerSource(cfg.Seed), logger)
	if err != nil {
		var nf *names.NotFoundError
		if errors.As(err, &nf) {
			logger.Warn("input file not found, nothing to do", "path", nf.Path)
		}
		return err
	}

	if cfg.Mode == "ldif" {
		logger.Info("writing LDIF file", "path", cfg.LDIFFile)
	}
	return provision.Report(stdout, summary, !cfg.NoColor && isTerminal(stdout))
}
