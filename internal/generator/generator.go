package generator

import (
	"fmt"     // fmt is used to format the office phone number
	"strings" // strings trims and splits the raw name lines
	"unicode" // unicode finds the first whitespace boundary in a name line
)

///////////////////////////////////////////////////////////////////////////////
// Fixed value sets
///////////////////////////////////////////////////////////////////////////////

// Departments is the fixed list a user's department is drawn from. Every
// entry, including the last one, must be reachable by the draw.
var Departments = []string{
	"Accounting",
	"Engineering",
	"Finance",
	"Human Resources",
	"IT",
	"Marketing",
	"Operations",
	"Sales",
}

const (
	// passwordCharMin and passwordCharMax bound the printable ASCII range
	// used for generated passwords ('!' through '~').
	passwordCharMin = 33
	passwordCharMax = 126

	// DefaultPasswordLength is used when no length is configured.
	DefaultPasswordLength = 16

	// phonePrefix is prepended to the random four digit extension.
	phonePrefix = "555-"
)

// PasswordCharset holds the 94 printable ASCII characters with code
// points 33 through 126, in ascending order.
var PasswordCharset = buildPasswordCharset()

func buildPasswordCharset() []byte {
	set := make([]byte, 0, passwordCharMax-passwordCharMin+1)
	for c := passwordCharMin; c <= passwordCharMax; c++ {
		set = append(set, byte(c))
	}
	return set
}

///////////////////////////////////////////////////////////////////////////////
// Name parsing
///////////////////////////////////////////////////////////////////////////////

// NameRecord is the first and last name taken from one input line.
type NameRecord struct {
	FirstName string // FirstName is everything before the first whitespace
	LastName  string // LastName is the trimmed remainder, possibly empty
}

// NewNameRecord is an initializer function for NameRecord.
func NewNameRecord(first, last string) NameRecord {
	return NameRecord{FirstName: first, LastName: last}
}

// ParseName trims line and splits it on the first whitespace boundary.
// The second return value is false for a line that is blank after
// trimming; no NameRecord is derived from such a line.
//
// A single token such as "Madonna" yields an empty last name.
func ParseName(line string) (NameRecord, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return NameRecord{}, false
	}

	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return NewNameRecord(trimmed, ""), true
	}

	return NewNameRecord(trimmed[:idx], strings.TrimSpace(trimmed[idx:])), true
}

// SingleToken reports whether the record came from a line with no last name.
func (n NameRecord) SingleToken() bool {
	return n.LastName == ""
}

///////////////////////////////////////////////////////////////////////////////
// Synthesized user
///////////////////////////////////////////////////////////////////////////////

// UserRecord holds every attribute that will be sent to the directory for
// one account. It is built once by a Synthesizer and never modified.
type UserRecord struct {
	FullName          string // FullName is "First Last", or just "First" when there is no last name
	AccountName       string // AccountName is "First.Last" and becomes sAMAccountName
	FirstName         string // FirstName becomes givenName
	LastName          string // LastName becomes sn
	Department        string // Department is drawn from Departments
	OfficePhone       string // OfficePhone looks like "555-0042"
	Password          string // Password is the override or a generated string
	Country           string // Country is the two letter country code
	City              string // City becomes the l attribute
	UserPrincipalName string // UserPrincipalName is "First.Last@suffix"
}

///////////////////////////////////////////////////////////////////////////////
// Synthesizer
///////////////////////////////////////////////////////////////////////////////

// SynthConfig carries the options the synthesizer needs. It is separate
// from any CLI type so tests can build one directly.
type SynthConfig struct {
	PasswordLength   int    // PasswordLength is used when OverridePassword is empty
	OverridePassword string // OverridePassword, when set, is given to every account verbatim
	UPNSuffix        string // UPNSuffix follows the "@" in the user principal name
	Country          string // Country is copied to every account
	City             string // City is copied to every account
}

// NewSynthConfig is an initializer function for SynthConfig.
func NewSynthConfig() SynthConfig {
	return SynthConfig{
		PasswordLength: DefaultPasswordLength,
		Country:        "US",
		City:           "Seattle",
	}
}

// Synthesizer turns parsed names into UserRecords. It performs no I/O; its
// only side effect is consuming values from the random source.
type Synthesizer struct {
	cfg SynthConfig
	rnd RandomSource
}

// NewSynthesizer is an initializer function for Synthesizer.
func NewSynthesizer(cfg SynthConfig, rnd RandomSource) *Synthesizer {
	return &Synthesizer{cfg: cfg, rnd: rnd}
}

// Build derives a UserRecord from an already parsed name.
func (s *Synthesizer) Build(name NameRecord) UserRecord {
	account := name.FirstName + "." + name.LastName

	return UserRecord{
		FullName:          strings.TrimSpace(name.FirstName + " " + name.LastName),
		AccountName:       account,
		FirstName:         name.FirstName,
		LastName:          name.LastName,
		Department:        s.Department(),
		OfficePhone:       s.OfficePhone(),
		Password:          s.Password(),
		Country:           s.cfg.Country,
		City:              s.cfg.City,
		UserPrincipalName: account + "@" + s.cfg.UPNSuffix,
	}
}

// OfficePhone returns "555-" followed by a zero padded number in [0, 9999].
func (s *Synthesizer) OfficePhone() string {
	return fmt.Sprintf("%s%04d", phonePrefix, s.rnd.IntN(10000))
}

// Department picks uniformly from Departments. The draw's upper bound is
// exclusive over indices, so the last department is reachable.
func (s *Synthesizer) Department() string {
	return Pick(s.rnd, Departments)
}

// Password returns the override when one is configured, otherwise a
// fresh string of cfg.PasswordLength characters drawn independently from
// PasswordCharset.
func (s *Synthesizer) Password() string {
	if s.cfg.OverridePassword != "" {
		return s.cfg.OverridePassword
	}

	buf := make([]byte, s.cfg.PasswordLength)
	for i := range buf {
		buf[i] = PasswordCharset[s.rnd.IntN(len(PasswordCharset))]
	}
	return string(buf)
}
