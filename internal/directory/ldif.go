package directory

import (
	"fmt" // fmt builds wrapped error messages
	"os"  // os writes the LDIF file

	"github.com/go-ldap/ldap/v3" // ldap/v3 provides the Entry type
	ldif "github.com/go-ldap/ldif"

	"github.com/r3dlin3/new-labusers/internal/generator"
)

// LDIF is an offline Directory. Nothing is sent anywhere: existence is
// tracked in memory and every create becomes an entry that Close writes
// to an LDIF file, ready for ldifde or ldapadd.
type LDIF struct {
	path     string
	forest   ForestInfo
	existing map[string]bool
	entries  []*ldap.Entry
}

// NewLDIF is an initializer function for LDIF. baseDN is the domain DN
// the file targets; the forest DNS name is derived from its DC parts.
func NewLDIF(path, baseDN string) (*LDIF, error) {
	dnsName, err := DNSNameFromDN(baseDN)
	if err != nil {
		return nil, err
	}
	return &LDIF{
		path:     path,
		forest:   NewForestInfo(dnsName, baseDN),
		existing: make(map[string]bool),
	}, nil
}

// Forest returns the metadata derived from the base DN.
func (d *LDIF) Forest() (ForestInfo, error) {
	return d.forest, nil
}

// OUExists reports whether an OU has already been created at dn in this run.
func (d *LDIF) OUExists(dn string) (bool, error) {
	return d.existing[normalizeDN(dn)], nil
}

// CreateOU records an organizationalUnit entry.
func (d *LDIF) CreateOU(name, parentDN string) error {
	return d.add(generator.OUEntry(name, parentDN))
}

// CreateUser records an AD user entry.
func (d *LDIF) CreateUser(user generator.UserRecord, pathDN string) error {
	entry, err := user.ToLDAPEntry(pathDN)
	if err != nil {
		return err
	}
	return d.add(entry)
}

func (d *LDIF) add(e *ldap.Entry) error {
	key := normalizeDN(e.DN)
	if d.existing[key] {
		return fmt.Errorf("failed to add entry %s: %w", e.DN, ErrAlreadyExists)
	}
	d.existing[key] = true
	d.entries = append(d.entries, e)
	return nil
}

// Close marshals the recorded entries and writes them to the file.
func (d *LDIF) Close() error {
	ldifData, err := ldif.ToLDIF(d.entries)
	if err != nil {
		return fmt.Errorf("failed to build LDIF struct: %w", err)
	}

	ldifText, err := ldif.Marshal(ldifData)
	if err != nil {
		return fmt.Errorf("failed to marshal LDIF: %w", err)
	}

	// 0600: the file carries every account's password.
	if err := os.WriteFile(d.path, []byte(ldifText), 0o600); err != nil {
		return fmt.Errorf("failed to write LDIF file: %w", err)
	}
	return nil
}
